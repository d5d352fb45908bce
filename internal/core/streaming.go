package core

// streaming.go provides the reader chain applied to uploaded bytes before
// they reach the CSV parser:
//
//   - UTF-8 decoding that drops a leading BOM and replaces invalid byte
//     sequences with U+FFFD, the way browsers decode text files
//   - CountingReader: tracks bytes read for progress reporting
//
// Use WrapForStreaming to apply both in the correct order.

import (
	"io"
	"sync/atomic"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewUTF8Reader decodes r as UTF-8, removing a leading byte order mark and
// replacing malformed sequences with the replacement character.
func NewUTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// CountingReader wraps an io.Reader to track bytes read. BytesRead may be
// read from another goroutine while the upload is in progress.
type CountingReader struct {
	reader    io.Reader
	bytesRead atomic.Int64
	Total     int64 // If known (0 if unknown)

	onProgress  func(bytesRead int64)
	lastPercent int
}

// NewCountingReader creates a counting reader with optional total size.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{
		reader: r,
		Total:  total,
	}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	read := r.bytesRead.Add(int64(n))
	if r.onProgress != nil && n > 0 {
		if pct := r.Progress(); pct > r.lastPercent {
			r.lastPercent = pct
			r.onProgress(read)
		}
	}
	return n, err
}

// OnProgress registers fn to be called from Read each time Progress moves
// up by at least one percent. Set it before the first Read.
func (r *CountingReader) OnProgress(fn func(bytesRead int64)) {
	r.onProgress = fn
}

// BytesRead returns the number of raw bytes consumed so far.
func (r *CountingReader) BytesRead() int64 {
	return r.bytesRead.Load()
}

// Progress returns the read progress as a percentage (0-100).
// Returns 0 if total is unknown.
func (r *CountingReader) Progress() int {
	if r.Total <= 0 {
		return 0
	}
	return int(r.BytesRead() * 100 / r.Total)
}

// WrapForStreaming counts raw bytes and then decodes them as UTF-8.
// Counting sits below decoding so progress is measured against the
// uploaded size.
func WrapForStreaming(r io.Reader, totalSize int64) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r, totalSize)
	return NewUTF8Reader(counter), counter
}
