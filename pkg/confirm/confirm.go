/*
Package confirm provides a slow but definitive password check for a ZipCrypto encrypted entry.

The check byte test used during a search lets through about 1 in 256 wrong passwords.
Archive removes those false positives by decrypting and decompressing the whole entry with github.com/yeka/zip, and verifying its CRC-32.
It's meant to be used as the confirmation step of a search, so it only runs for candidates that already passed the check byte.
*/
package confirm

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	yzip "github.com/yeka/zip"
)

var ErrEntryNotFound = errors.New("entry not found")

// Archive confirms candidate passwords against a single entry of an in-memory archive.
// It's safe for concurrent use.
type Archive struct {
	data []byte
	name string
	// A yzip.File holds the password being tried, so each concurrent Match needs its own.
	files sync.Pool
}

// New creates an Archive for the entry called name within data.
func New(data []byte, name string) (*Archive, error) {
	a := &Archive{
		data: data,
		name: name,
	}
	f, err := a.open()
	if err != nil {
		return nil, err
	}
	if !f.IsEncrypted() {
		return nil, errors.Newf("entry '%s' is not encrypted", name)
	}
	a.files.Put(f)
	return a, nil
}

// Open reads the archive at path into memory and creates an Archive for the entry called name.
func Open(path, name string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read archive '%s'", path)
	}
	return New(data, name)
}

func (a *Archive) open() (*yzip.File, error) {
	r, err := yzip.NewReader(bytes.NewReader(a.data), int64(len(a.data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read central directory")
	}
	for _, f := range r.File {
		if f.Name == a.name {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrEntryNotFound, "'%s'", a.name)
}

func (a *Archive) get() (*yzip.File, error) {
	if f, ok := a.files.Get().(*yzip.File); ok {
		return f, nil
	}
	return a.open()
}

// Match reports whether password fully decrypts the entry, with a matching CRC-32.
func (a *Archive) Match(password []byte) bool {
	f, err := a.get()
	if err != nil {
		return false
	}
	defer a.files.Put(f)

	f.SetPassword(string(password))
	rc, err := f.Open()
	if err != nil {
		return false
	}
	defer func() {
		_ = rc.Close()
	}()
	_, err = io.Copy(io.Discard, rc)
	return err == nil
}
