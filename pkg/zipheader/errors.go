package zipheader

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrStructural is returned for a malformed or truncated header, or a wrong signature.
	ErrStructural = errors.New("malformed local file header")
	// ErrUnsupportedEncryption is the parent of every error for an entry that can't be attacked with ZipCrypto.
	ErrUnsupportedEncryption = errors.New("unsupported encryption")
	// ErrNotEncrypted is returned when general purpose bit 0 is clear.
	ErrNotEncrypted = errors.Wrap(ErrUnsupportedEncryption, "not encrypted")
	// ErrAESUnsupported is returned for entries using the AES extension.
	ErrAESUnsupported = errors.Wrap(ErrUnsupportedEncryption, "AES, unsupported")
)
