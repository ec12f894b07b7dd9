package crc

import (
	"sync"
)

const (
	// Poly is the reflected IEEE polynomial used by ZIP, PNG, and hash/crc32.
	Poly uint32 = 0xEDB88320
	mask uint32 = 0xFFFFFFFF
)

var (
	initOnce sync.Once
	slicing  [8][256]uint32
)

// Init builds the lookup tables if they haven't been built yet.
// It's safe to call from multiple goroutines, but callers that care about hot path latency should call it before starting workers.
func Init() {
	initOnce.Do(buildTables)
}

func buildTables() {
	base := &slicing[0]
	for i := 0; i < 256; i++ {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			crc = step(crc)
		}
		base[i] = crc
	}
	for k := 1; k < 8; k++ {
		for i := 0; i < 256; i++ {
			prev := slicing[k-1][i]
			slicing[k][i] = base[prev&0xFF] ^ (prev >> 8)
		}
	}
}

func step(crc uint32) uint32 {
	if crc&1 == 1 {
		return (crc >> 1) ^ Poly
	}
	return crc >> 1
}

// LookupTable returns the single byte lookup table.
// The returned array is shared and must not be modified.
func LookupTable() *[256]uint32 {
	Init()
	return &slicing[0]
}

// Bitwise is the reference implementation, processing one bit at a time.
// It produces the conventional (finalized) CRC-32, so Bitwise(data, 0) matches crc32.ChecksumIEEE(data).
func Bitwise(data []byte, seed uint32) uint32 {
	return BitwiseRaw(data, seed^mask) ^ mask
}

// BitwiseRaw is Bitwise without the complement on the way in and out.
func BitwiseRaw(data []byte, seed uint32) uint32 {
	crc := seed
	for _, b := range data {
		crc ^= uint32(b)
		for i := 0; i < 8; i++ {
			crc = step(crc)
		}
	}
	return crc
}

// Update folds a single byte into a raw running CRC.
// This is the primitive the ZipCrypto key schedule is built on.
func Update(crc uint32, b byte) uint32 {
	Init()
	return slicing[0][byte(crc)^b] ^ (crc >> 8)
}

// Table computes the CRC-32 of data one byte at a time using the lookup table.
// If finalize is true, the seed and result are complemented, matching hash/crc32 and zlib.
// Otherwise, the raw running value is returned so it may be fed back in as a seed.
func Table(data []byte, seed uint32, finalize bool) uint32 {
	Init()
	crc := seed
	if finalize {
		crc ^= mask
	}
	crc = tableUpdate(crc, data)
	if finalize {
		crc ^= mask
	}
	return crc
}

func tableUpdate(crc uint32, data []byte) uint32 {
	tab := &slicing[0]
	for _, b := range data {
		crc = tab[byte(crc)^b] ^ (crc >> 8)
	}
	return crc
}

// SlicingBy8 computes the same value as Table, consuming 8 bytes per iteration with 8 chained tables.
func SlicingBy8(data []byte, seed uint32, finalize bool) uint32 {
	Init()
	crc := seed
	if finalize {
		crc ^= mask
	}
	for len(data) >= 8 {
		crc ^= uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		crc = slicing[7][byte(crc)] ^
			slicing[6][byte(crc>>8)] ^
			slicing[5][byte(crc>>16)] ^
			slicing[4][byte(crc>>24)] ^
			slicing[3][data[4]] ^
			slicing[2][data[5]] ^
			slicing[1][data[6]] ^
			slicing[0][data[7]]
		data = data[8:]
	}
	crc = tableUpdate(crc, data)
	if finalize {
		crc ^= mask
	}
	return crc
}
