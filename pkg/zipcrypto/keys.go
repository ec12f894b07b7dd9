package zipcrypto

import (
	"github.com/saylorsolutions/zipcrack/pkg/crc"
)

const (
	// HeaderLen is the length of the encryption header that precedes every ZipCrypto encrypted entry.
	HeaderLen = 12

	initK0 uint32 = 0x12345678
	initK1 uint32 = 0x23456789
	initK2 uint32 = 0x34567890

	lcgMultiplier uint32 = 134775813
)

// Keys is the three word state of the ZipCrypto stream cipher.
// A Keys value is scratch state for a single pass over a stream, and shouldn't be shared between goroutines or reused for a different password.
type Keys struct {
	K0 uint32
	K1 uint32
	K2 uint32
}

// NewKeys initializes the cipher state from the fixed constants, then mixes in each byte of password.
func NewKeys(password []byte) Keys {
	k := Keys{K0: initK0, K1: initK1, K2: initK2}
	for _, b := range password {
		k.Update(b)
	}
	return k
}

// Update advances the key state with b.
// During initialization b is a password byte, and afterward it's always a plaintext byte.
func (k *Keys) Update(b byte) {
	k.K0 = crc.Update(k.K0, b)
	k.K1 += k.K0 & 0xFF
	k.K1 = k.K1*lcgMultiplier + 1
	k.K2 = crc.Update(k.K2, byte(k.K1>>24))
}

// StreamByte returns the current keystream byte without advancing the state.
func (k *Keys) StreamByte() byte {
	t := k.K2&0xFFFF | 2
	return byte((t * (t ^ 1)) >> 8)
}

// DecryptByte decrypts a single byte and advances the state with the recovered plaintext.
func (k *Keys) DecryptByte(c byte) byte {
	p := c ^ k.StreamByte()
	k.Update(p)
	return p
}

// EncryptByte encrypts a single byte and advances the state with the given plaintext.
func (k *Keys) EncryptByte(p byte) byte {
	c := p ^ k.StreamByte()
	k.Update(p)
	return c
}

// Decrypt decrypts src into dst, which must be at least as long as src.
// It's safe for dst and src to be the same slice.
func (k *Keys) Decrypt(dst, src []byte) {
	dst = dst[:len(src)]
	for i, c := range src {
		dst[i] = k.DecryptByte(c)
	}
}

// Encrypt encrypts src into dst, which must be at least as long as src.
// It's safe for dst and src to be the same slice.
func (k *Keys) Encrypt(dst, src []byte) {
	dst = dst[:len(src)]
	for i, p := range src {
		dst[i] = k.EncryptByte(p)
	}
}

// DecryptHeader decrypts the 12 byte encryption header with password.
// The last byte of the result is the one compared against an entry's check byte.
func DecryptHeader(enc [HeaderLen]byte, password []byte) [HeaderLen]byte {
	k := NewKeys(password)
	var out [HeaderLen]byte
	for i, c := range enc {
		out[i] = k.DecryptByte(c)
	}
	return out
}

// EncryptHeader is the inverse of DecryptHeader.
func EncryptHeader(plain [HeaderLen]byte, password []byte) [HeaderLen]byte {
	k := NewKeys(password)
	var out [HeaderLen]byte
	for i, p := range plain {
		out[i] = k.EncryptByte(p)
	}
	return out
}
