package zipheader

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/saylorsolutions/zipcrack/pkg/zipcrypto"
)

// Entry is everything needed to test passwords against a single ZipCrypto encrypted entry.
type Entry struct {
	Header LocalFileHeader
	Index  int
	Name   string
	Extra  []byte
	// Offset is the position of the entry's local file header.
	Offset int64
	// DataOffset is the position of the encryption header, which is the start of the entry's data.
	DataOffset int64
	// EncryptionHeader is the 12 byte header as it appears in the archive, still encrypted.
	EncryptionHeader [zipcrypto.HeaderLen]byte
}

// CheckByte returns the expected value of the last decrypted header byte.
func (e *Entry) CheckByte() byte {
	return e.Header.CheckByte()
}

// Verifier creates a zipcrypto.Verifier for this entry.
func (e *Entry) Verifier() zipcrypto.Verifier {
	return zipcrypto.Verifier{
		Header: e.EncryptionHeader,
		Check:  e.CheckByte(),
	}
}

// Open opens the archive at path and reads the entry at index.
func Open(path string, index int) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive '%s'", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadEntry(f, index)
}

// ReadEntry walks local file headers from the start of r until it reaches the entry at index.
// Preceding entries are skipped using the sizes recorded in their local headers, so an entry that defers its sizes to a data descriptor can only be the target, never skipped over.
// The target entry must be ZipCrypto encrypted.
func ReadEntry(r io.ReadSeeker, index int) (*Entry, error) {
	if index < 0 {
		return nil, errors.Newf("invalid entry index %d", index)
	}
	var offset int64
	for i := 0; ; i++ {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "failed to seek to entry %d", i)
		}
		h, err := ReadLocalHeader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d at offset %d", i, offset)
		}
		if i == index {
			return readTarget(r, h, index, offset)
		}
		if h.HasDataDescriptor() && h.CompressedSize == 0 {
			return nil, errors.Wrapf(ErrStructural, "entry %d defers its size to a data descriptor, unable to skip to entry %d", i, index)
		}
		if h.CompressedSize == zip64Mask {
			return nil, errors.Wrapf(ErrStructural, "entry %d uses zip64 sizes, unable to skip to entry %d", i, index)
		}
		offset += FixedLen + int64(h.FileNameLen) + int64(h.ExtraLen) + int64(h.CompressedSize)
	}
}

func readTarget(r io.Reader, h *LocalFileHeader, index int, offset int64) (*Entry, error) {
	if err := h.Validate(); err != nil {
		return nil, errors.Wrapf(err, "entry %d", index)
	}
	name := make([]byte, h.FileNameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "entry %d: truncated file name", index), ErrStructural)
	}
	extra := make([]byte, h.ExtraLen)
	if _, err := io.ReadFull(r, extra); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "entry %d: truncated extra field", index), ErrStructural)
	}
	if hasAESExtra(extra) {
		return nil, errors.Wrapf(ErrAESUnsupported, "entry %d", index)
	}
	e := &Entry{
		Header:     *h,
		Index:      index,
		Name:       string(name),
		Extra:      extra,
		Offset:     offset,
		DataOffset: offset + FixedLen + int64(h.FileNameLen) + int64(h.ExtraLen),
	}
	if _, err := io.ReadFull(r, e.EncryptionHeader[:]); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "entry %d: truncated encryption header", index), ErrStructural)
	}
	return e, nil
}
