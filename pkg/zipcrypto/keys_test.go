package zipcrypto

import (
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeys(t *testing.T) {
	tests := map[string]struct {
		password string
		expected Keys
		stream   byte
	}{
		"Empty password": {
			password: "",
			expected: Keys{K0: 0x12345678, K1: 0x23456789, K2: 0x34567890},
			stream:   0xab,
		},
		"mars06": {
			password: "mars06",
			expected: Keys{K0: 0xa78cf222, K1: 0x999298d8, K2: 0xf778c298},
			stream:   0x87,
		},
		"password": {
			password: "password",
			expected: Keys{K0: 0xea9b4e4d, K1: 0xba789085, K2: 0x5ff8707d},
			stream:   0xee,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			k := NewKeys([]byte(tc.password))
			assert.Equal(t, tc.expected, k)
			assert.Equal(t, tc.stream, k.StreamByte())
		})
	}
}

func TestKeys_StreamByteDoesNotAdvance(t *testing.T) {
	k := NewKeys([]byte("abc"))
	before := k
	_ = k.StreamByte()
	_ = k.StreamByte()
	assert.Equal(t, before, k)
}

func TestKeys_EncryptKnownAnswer(t *testing.T) {
	k := NewKeys([]byte("mars06"))
	plain := []byte("hello, zipcrypto")
	out := make([]byte, len(plain))
	k.Encrypt(out, plain)
	assert.Equal(t, "ef06563ed90fd2e84a502eb02a76cac9", hex.EncodeToString(out))
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(0x5eed))
	for i := 0; i < 100; i++ {
		password := make([]byte, 1+rnd.Intn(16))
		rnd.Read(password)
		plain := make([]byte, rnd.Intn(512))
		rnd.Read(plain)

		enc := NewKeys(password)
		cipherText := make([]byte, len(plain))
		enc.Encrypt(cipherText, plain)

		dec := NewKeys(password)
		recovered := make([]byte, len(cipherText))
		dec.Decrypt(recovered, cipherText)
		require.Equal(t, plain, recovered)
	}
}

func TestDecryptInPlace(t *testing.T) {
	plain := []byte("in place decryption")
	buf := append([]byte(nil), plain...)

	enc := NewKeys([]byte("pw"))
	enc.Encrypt(buf, buf)
	assert.NotEqual(t, plain, buf)

	dec := NewKeys([]byte("pw"))
	dec.Decrypt(buf, buf)
	assert.Equal(t, plain, buf)
}

func TestDecryptEmpty(t *testing.T) {
	k := NewKeys([]byte("pw"))
	before := k
	k.Decrypt(nil, nil)
	k.Encrypt(nil, []byte{})
	assert.Equal(t, before, k)
}

func TestDecryptHeader(t *testing.T) {
	plain, err := GenHeader(0xC4)
	require.NoError(t, err)

	enc := EncryptHeader(plain, []byte("mars06"))
	assert.NotEqual(t, plain, enc)
	assert.Equal(t, plain, DecryptHeader(enc, []byte("mars06")))

	wrong := DecryptHeader(enc, []byte("mars07"))
	assert.NotEqual(t, plain, wrong)
}

func TestHeaderMatchesStream(t *testing.T) {
	plain := [HeaderLen]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	enc := EncryptHeader(plain, []byte("secret"))

	k := NewKeys([]byte("secret"))
	stream := make([]byte, HeaderLen)
	k.Encrypt(stream, plain[:])
	assert.Equal(t, enc[:], stream)
}

func BenchmarkVerifier_Match(b *testing.B) {
	plain, err := GenHeader(0x42)
	require.NoError(b, err)
	v := Verifier{Header: EncryptHeader(plain, []byte("zzzzzz")), Check: 0x42}
	pw := []byte("aaaaaa")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Match(pw)
	}
}
