package keyspace

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

const (
	Digits          = "0123456789"
	Lower           = "abcdefghijklmnopqrstuvwxyz"
	Upper           = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultAlphabet = Digits + Lower
	DefaultLength   = 6
)

var (
	ErrInvalidAlphabet = errors.New("invalid alphabet")
	ErrInvalidLength   = errors.New("invalid password length")
	ErrOutOfRange      = errors.New("index out of range")
	ErrInvalidPassword = errors.New("password is not in the keyspace")
)

// Space is a bijection between the integers [0, Size()) and every password of a fixed length over an ordered alphabet.
// The first alphabet symbol is the zero digit, and the leftmost password symbol is the most significant.
type Space struct {
	alphabet []byte
	rank     [256]int16
	length   int
	size     uint64
	place    []uint64
}

// New creates a Space over the bytes of alphabet, producing passwords of exactly length symbols.
// The alphabet must not be empty or contain duplicates, and the total number of passwords must fit in 63 bits.
func New(alphabet string, length int) (*Space, error) {
	if len(alphabet) == 0 {
		return nil, errors.Wrap(ErrInvalidAlphabet, "alphabet is empty")
	}
	if length < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "length must be at least 1, got %d", length)
	}
	s := &Space{
		alphabet: []byte(alphabet),
		length:   length,
		place:    make([]uint64, length),
	}
	for i := range s.rank {
		s.rank[i] = -1
	}
	for i := 0; i < len(s.alphabet); i++ {
		b := s.alphabet[i]
		if s.rank[b] >= 0 {
			return nil, errors.Wrapf(ErrInvalidAlphabet, "duplicate symbol %q", b)
		}
		s.rank[b] = int16(i)
	}

	base := uint64(len(s.alphabet))
	size := uint64(1)
	for i := length - 1; i >= 0; i-- {
		s.place[i] = size
		hi, lo := bits.Mul64(size, base)
		if hi != 0 || lo > math.MaxInt64 {
			return nil, errors.Wrapf(ErrInvalidLength, "%d symbols of length %d overflows the keyspace", base, length)
		}
		size = lo
	}
	s.size = size
	return s, nil
}

// MustNew is like New, but panics on error.
func MustNew(alphabet string, length int) *Space {
	s, err := New(alphabet, length)
	if err != nil {
		panic(err)
	}
	return s
}

// Size is the number of passwords in the Space, Base()^Length().
func (s *Space) Size() uint64 {
	return s.size
}

// Base is the number of symbols in the alphabet.
func (s *Space) Base() int {
	return len(s.alphabet)
}

// Length is the length of every password in the Space.
func (s *Space) Length() int {
	return s.length
}

// Alphabet returns the ordered symbol set.
func (s *Space) Alphabet() string {
	return string(s.alphabet)
}

// PasswordOf returns the password at index.
func (s *Space) PasswordOf(index uint64) (string, error) {
	if index >= s.size {
		return "", errors.Wrapf(ErrOutOfRange, "index %d, size %d", index, s.size)
	}
	buf := make([]byte, s.length)
	s.Fill(buf, index)
	return string(buf), nil
}

// Fill writes the password at index into dst without allocating.
// dst must be at least Length() bytes, and index must be less than Size().
func (s *Space) Fill(dst []byte, index uint64) {
	dst = dst[:s.length]
	for i, p := range s.place {
		digit := index / p
		index -= digit * p
		dst[i] = s.alphabet[digit]
	}
}

// IndexOf is the inverse of PasswordOf.
func (s *Space) IndexOf(password string) (uint64, error) {
	if len(password) != s.length {
		return 0, errors.Wrapf(ErrInvalidPassword, "length %d, expected %d", len(password), s.length)
	}
	var index uint64
	for i := 0; i < len(password); i++ {
		r := s.rank[password[i]]
		if r < 0 {
			return 0, errors.Wrapf(ErrInvalidPassword, "symbol %q at position %d is not in the alphabet", password[i], i)
		}
		index += uint64(r) * s.place[i]
	}
	return index, nil
}
