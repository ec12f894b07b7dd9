package zipheader

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	bin "github.com/saylorsolutions/binmap"
)

const (
	// Signature is the marker that begins every local file header ("PK\x03\x04").
	Signature uint32 = 0x04034b50
	// FixedLen is the length of the fixed portion of a local file header, including the signature.
	FixedLen = 30

	// FlagEncrypted is general purpose bit 0.
	FlagEncrypted uint16 = 1 << 0
	// FlagDataDescriptor is general purpose bit 3, meaning the CRC-32 and sizes follow the entry data.
	FlagDataDescriptor uint16 = 1 << 3

	// MethodStore and MethodDeflate are the common compression methods.
	MethodStore   uint16 = 0
	MethodDeflate uint16 = 8
	// MethodAES is the compression method reserved for the WinZip AES extension.
	MethodAES uint16 = 99

	aesExtraID uint16 = 0x9901
	zip64Mask  uint32 = 0xFFFFFFFF
)

// LocalFileHeader is the fixed layout metadata block that precedes each entry's data.
type LocalFileHeader struct {
	Signature        uint32
	Version          uint16
	Flags            uint16
	Method           uint16
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	FileNameLen      uint16
	ExtraLen         uint16
}

func (h *LocalFileHeader) mapper() bin.Mapper {
	return bin.MapSequence(
		bin.Int(&h.Signature),
		bin.Int(&h.Version),
		bin.Int(&h.Flags),
		bin.Int(&h.Method),
		bin.Int(&h.ModTime),
		bin.Int(&h.ModDate),
		bin.Int(&h.CRC32),
		bin.Int(&h.CompressedSize),
		bin.Int(&h.UncompressedSize),
		bin.Int(&h.FileNameLen),
		bin.Int(&h.ExtraLen),
	)
}

// ReadLocalHeader reads and parses the 30 byte fixed region of a local file header from r.
// Only the signature is validated here, use Validate to check that the entry can be attacked.
func ReadLocalHeader(r io.Reader) (*LocalFileHeader, error) {
	var buf [FixedLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "truncated local file header"), ErrStructural)
	}
	h := new(LocalFileHeader)
	if err := h.mapper().Read(bytes.NewReader(buf[:]), binary.LittleEndian); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to map local file header"), ErrStructural)
	}
	if h.Signature != Signature {
		return nil, errors.Wrapf(ErrStructural, "unexpected signature 0x%08x", h.Signature)
	}
	return h, nil
}

// MarshalBinary encodes the header in its little-endian wire layout.
func (h *LocalFileHeader) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := h.mapper().Write(&buf, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encrypted reports whether general purpose bit 0 is set.
func (h *LocalFileHeader) Encrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// HasDataDescriptor reports whether general purpose bit 3 is set.
func (h *LocalFileHeader) HasDataDescriptor() bool {
	return h.Flags&FlagDataDescriptor != 0
}

// CheckByte is the value the last byte of the decrypted encryption header must equal.
// When the sizes and CRC are deferred to a data descriptor, the CRC isn't known while writing the header, so the high byte of the modification time is used instead.
func (h *LocalFileHeader) CheckByte() byte {
	if h.HasDataDescriptor() {
		return byte(h.ModTime >> 8)
	}
	return byte(h.CRC32 >> 24)
}

// Validate returns an error if the entry isn't protected with ZipCrypto.
func (h *LocalFileHeader) Validate() error {
	if h.Signature != Signature {
		return errors.Wrapf(ErrStructural, "unexpected signature 0x%08x", h.Signature)
	}
	if !h.Encrypted() {
		return ErrNotEncrypted
	}
	if h.Method == MethodAES {
		return ErrAESUnsupported
	}
	return nil
}

// hasAESExtra walks the extra field records looking for the AES extension.
func hasAESExtra(extra []byte) bool {
	for len(extra) >= 4 {
		id := binary.LittleEndian.Uint16(extra[0:2])
		size := int(binary.LittleEndian.Uint16(extra[2:4]))
		if id == aesExtraID {
			return true
		}
		extra = extra[4:]
		if size > len(extra) {
			return false
		}
		extra = extra[size:]
	}
	return false
}
