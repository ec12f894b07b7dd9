// Package testarchive builds small in-memory ZIP archives for tests.
package testarchive

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"testing"

	yzip "github.com/yeka/zip"

	"github.com/saylorsolutions/zipcrack/pkg/zipcrypto"
)

// File is a single entry to add to an archive.
type File struct {
	Name string
	Data []byte
}

// ZipCrypto writes files with yeka/zip using traditional encryption.
// Entries written this way defer their sizes to a data descriptor.
func ZipCrypto(t testing.TB, password string, files ...File) []byte {
	t.Helper()
	return yekaArchive(t, password, yzip.StandardEncryption, files...)
}

// AES writes files with yeka/zip using AES-256 encryption.
func AES(t testing.TB, password string, files ...File) []byte {
	t.Helper()
	return yekaArchive(t, password, yzip.AES256Encryption, files...)
}

func yekaArchive(t testing.TB, password string, enc yzip.EncryptionMethod, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := yzip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Encrypt(f.Name, password, enc)
		if err != nil {
			t.Fatalf("failed to create encrypted entry '%s': %v", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			t.Fatalf("failed to write entry '%s': %v", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}

// Plain writes unencrypted, stored entries with archive/zip.
func Plain(t testing.TB, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Store})
		if err != nil {
			t.Fatalf("failed to create entry '%s': %v", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			t.Fatalf("failed to write entry '%s': %v", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}

// Stored writes ZipCrypto encrypted, stored entries with sizes and CRC-32 recorded in each local header.
// Unlike ZipCrypto, the check byte is the high byte of the CRC-32, and every entry can be skipped by walking local headers.
// modTime is recorded in every header so tests can tell the two check byte sources apart.
func Stored(t testing.TB, password string, modTime uint16, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		sum := crc32.ChecksumIEEE(f.Data)
		fh := &zip.FileHeader{
			Name:               f.Name,
			Method:             zip.Store,
			Flags:              0x1,
			CRC32:              sum,
			CompressedSize64:   uint64(len(f.Data) + zipcrypto.HeaderLen),
			UncompressedSize64: uint64(len(f.Data)),
			ModifiedTime:       modTime,
		}
		w, err := zw.CreateRaw(fh)
		if err != nil {
			t.Fatalf("failed to create raw entry '%s': %v", f.Name, err)
		}
		header, err := zipcrypto.GenHeader(byte(sum >> 24))
		if err != nil {
			t.Fatalf("failed to generate encryption header: %v", err)
		}
		ew := zipcrypto.NewWriter(w, []byte(password))
		if _, err := ew.Write(header[:]); err != nil {
			t.Fatalf("failed to write encryption header: %v", err)
		}
		if _, err := ew.Write(f.Data); err != nil {
			t.Fatalf("failed to write entry '%s': %v", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}
