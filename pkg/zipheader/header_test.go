package zipheader

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() *LocalFileHeader {
	return &LocalFileHeader{
		Signature:        Signature,
		Version:          20,
		Flags:            FlagEncrypted,
		Method:           MethodDeflate,
		ModTime:          0xA1B2,
		ModDate:          0x5721,
		CRC32:            0xC3D4E5F6,
		CompressedSize:   112,
		UncompressedSize: 200,
		FileNameLen:      8,
		ExtraLen:         0,
	}
}

func TestLocalFileHeader_Layout(t *testing.T) {
	h := testHeader()
	data, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, FixedLen)

	assert.Equal(t, []byte("PK\x03\x04"), data[0:4])
	assert.Equal(t, uint16(20), binary.LittleEndian.Uint16(data[4:6]))
	assert.Equal(t, FlagEncrypted, binary.LittleEndian.Uint16(data[6:8]))
	assert.Equal(t, MethodDeflate, binary.LittleEndian.Uint16(data[8:10]))
	assert.Equal(t, uint16(0xA1B2), binary.LittleEndian.Uint16(data[10:12]))
	assert.Equal(t, uint16(0x5721), binary.LittleEndian.Uint16(data[12:14]))
	assert.Equal(t, uint32(0xC3D4E5F6), binary.LittleEndian.Uint32(data[14:18]))
	assert.Equal(t, uint32(112), binary.LittleEndian.Uint32(data[18:22]))
	assert.Equal(t, uint32(200), binary.LittleEndian.Uint32(data[22:26]))
	assert.Equal(t, uint16(8), binary.LittleEndian.Uint16(data[26:28]))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[28:30]))

	parsed, err := ReadLocalHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
}

func TestReadLocalHeader_Neg(t *testing.T) {
	data, err := testHeader().MarshalBinary()
	require.NoError(t, err)

	_, err = ReadLocalHeader(bytes.NewReader(data[:FixedLen-1]))
	assert.True(t, errors.Is(err, ErrStructural))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	_, err = ReadLocalHeader(bytes.NewReader(nil))
	assert.True(t, errors.Is(err, ErrStructural))

	bad := append([]byte(nil), data...)
	copy(bad, "PK\x01\x02")
	_, err = ReadLocalHeader(bytes.NewReader(bad))
	assert.True(t, errors.Is(err, ErrStructural))
	assert.False(t, errors.Is(err, ErrUnsupportedEncryption))
}

func TestLocalFileHeader_CheckByte(t *testing.T) {
	h := testHeader()
	assert.False(t, h.HasDataDescriptor())
	assert.Equal(t, byte(0xC3), h.CheckByte(), "CRC high byte without a data descriptor")

	h.Flags |= FlagDataDescriptor
	assert.True(t, h.HasDataDescriptor())
	assert.Equal(t, byte(0xA1), h.CheckByte(), "time high byte with a data descriptor")
}

func TestLocalFileHeader_Validate(t *testing.T) {
	h := testHeader()
	assert.NoError(t, h.Validate())

	h.Flags = 0
	err := h.Validate()
	assert.True(t, errors.Is(err, ErrUnsupportedEncryption))
	assert.True(t, errors.Is(err, ErrNotEncrypted))
	assert.False(t, errors.Is(err, ErrAESUnsupported))
	assert.Contains(t, err.Error(), "not encrypted")

	h.Flags = FlagEncrypted
	h.Method = MethodAES
	err = h.Validate()
	assert.True(t, errors.Is(err, ErrUnsupportedEncryption))
	assert.True(t, errors.Is(err, ErrAESUnsupported))
	assert.False(t, errors.Is(err, ErrNotEncrypted))
	assert.Contains(t, err.Error(), "AES")

	h.Signature = 0
	assert.True(t, errors.Is(h.Validate(), ErrStructural))
}

func TestHasAESExtra(t *testing.T) {
	assert.False(t, hasAESExtra(nil))
	assert.False(t, hasAESExtra([]byte{0x01, 0x00}))

	unix := []byte{0x55, 0x54, 0x05, 0x00, 1, 2, 3, 4, 5}
	assert.False(t, hasAESExtra(unix))

	aes := []byte{0x01, 0x99, 0x07, 0x00, 0x02, 0x00, 'A', 'E', 0x03, 0x08, 0x00}
	assert.True(t, hasAESExtra(aes))
	assert.True(t, hasAESExtra(append(unix, aes...)))

	truncated := []byte{0x55, 0x54, 0x20, 0x00, 1}
	assert.False(t, hasAESExtra(truncated))
}
