// Package tabular reads tab-separated matrix files, transparently
// decompressing gzip input.
package tabular

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the two-byte gzip stream signature.
var gzipMagic = []byte{0x1f, 0x8b}

// Extension returns the last dot-separated component of the file's base name.
// "scores.tsv.gz" -> "gz", "scores.tsv" -> "tsv", "scores" -> "scores".
func Extension(path string) string {
	name := filepath.Base(path)
	parts := strings.Split(name, ".")
	return parts[len(parts)-1]
}

// Reader yields the lines of a delimited file one at a time, split on tabs.
type Reader struct {
	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
	fields  []string
	line    int
}

// Open opens a tab-separated file for reading. Compression is detected by
// sniffing the gzip magic bytes, not by extension, so a mislabeled file
// still reads correctly.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	magic := make([]byte, 2)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	r := &Reader{file: f}

	var src io.Reader = f
	if n == 2 && bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r.gz = gz
		src = gz
	}

	r.scanner = bufio.NewScanner(src)
	// Judgment matrices can have very wide rows (one column per query).
	r.scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	return r, nil
}

// Scan advances to the next line, skipping blank lines.
// It returns false at end of input or on error.
func (r *Reader) Scan() bool {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSuffix(r.scanner.Text(), "\r")
		if text == "" {
			continue
		}
		r.fields = strings.Split(text, "\t")
		return true
	}
	return false
}

// Fields returns the tab-split fields of the current line.
func (r *Reader) Fields() []string {
	return r.fields
}

// Line returns the 1-based line number of the current line.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first error encountered while scanning.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

// Close releases the underlying file and decompressor.
func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	return r.file.Close()
}
