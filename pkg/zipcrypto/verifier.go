package zipcrypto

// Verifier checks candidate passwords against an entry's encrypted header.
// A Verifier is immutable, so a single value may be shared by any number of goroutines.
type Verifier struct {
	Header [HeaderLen]byte
	Check  byte
}

// Match reports whether password decrypts the header to a plaintext ending in the check byte.
// About 1 in 256 wrong passwords will also match, so a match is a strong hint rather than proof.
func (v Verifier) Match(password []byte) bool {
	k := NewKeys(password)
	var last byte
	for _, c := range v.Header {
		last = k.DecryptByte(c)
	}
	return last == v.Check
}
