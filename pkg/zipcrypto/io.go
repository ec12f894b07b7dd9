package zipcrypto

import (
	"io"
)

// Reader extends io.Reader, but also provides a way to reuse a password with a different source.
type Reader interface {
	io.Reader
	// Reset will use the provided io.Reader and reset the key state to its initial value for the password.
	Reset(source io.Reader)
}

// Writer extends io.Writer, but also provides a way to reuse a password with a different target.
type Writer interface {
	io.Writer
	// Reset will use the provided io.Writer and reset the key state to its initial value for the password.
	Reset(target io.Writer)
}

var _ Reader = (*reader)(nil)

type reader struct {
	source io.Reader
	init   Keys
	keys   Keys
}

// NewReader constructs a new Reader that will decrypt all bytes read from r using password.
// The 12 byte encryption header is not treated specially, it's decrypted along with everything else.
func NewReader(r io.Reader, password []byte) Reader {
	k := NewKeys(password)
	return &reader{
		source: r,
		init:   k,
		keys:   k,
	}
}

func (r *reader) Read(out []byte) (n int, err error) {
	n, err = r.source.Read(out)
	r.keys.Decrypt(out[:n], out[:n])
	return n, err
}

func (r *reader) Reset(source io.Reader) {
	r.source = source
	r.keys = r.init
}

var _ Writer = (*writer)(nil)

type writer struct {
	target io.Writer
	init   Keys
	keys   Keys
	buf    []byte
}

// NewWriter constructs a new Writer that will encrypt all bytes written using password before passing them to target.
func NewWriter(target io.Writer, password []byte) Writer {
	k := NewKeys(password)
	return &writer{
		target: target,
		init:   k,
		keys:   k,
	}
}

func (w *writer) Write(in []byte) (n int, err error) {
	if cap(w.buf) < len(in) {
		w.buf = make([]byte, len(in))
	}
	buf := w.buf[:len(in)]
	w.keys.Encrypt(buf, in)
	return w.target.Write(buf)
}

func (w *writer) Reset(target io.Writer) {
	w.target = target
	w.keys = w.init
}
