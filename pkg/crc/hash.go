package crc

import (
	"hash"
)

// Size of a CRC-32 checksum in bytes.
const Size = 4

var _ hash.Hash32 = (*digest)(nil)

type digest struct {
	crc uint32
}

// New creates a hash.Hash32 computing the finalized CRC-32 with SlicingBy8.
func New() hash.Hash32 {
	Init()
	return new(digest)
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }

func (d *digest) Reset() { d.crc = 0 }

func (d *digest) Write(p []byte) (n int, err error) {
	d.crc = SlicingBy8(p, d.crc, true)
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
