package zipcrypto

import (
	"crypto/rand"

	"github.com/cockroachdb/errors"
)

// GenHeader will generate a plaintext encryption header, ending with checkByte.
// The first 11 bytes are read from the OS entropy pool.
// The header is expected to be written through a Writer ahead of the entry data.
func GenHeader(checkByte byte) ([HeaderLen]byte, error) {
	var header [HeaderLen]byte
	n, err := rand.Read(header[:HeaderLen-1])
	if err != nil {
		return header, errors.Wrap(err, "failed to generate encryption header")
	}
	if n < HeaderLen-1 {
		return header, errors.Newf("failed to read requested bytes: got %d, wanted %d", n, HeaderLen-1)
	}
	header[HeaderLen-1] = checkByte
	return header, nil
}
