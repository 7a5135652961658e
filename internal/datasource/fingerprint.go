package datasource

import (
	"io"

	"github.com/zeebo/xxh3"
)

// Fingerprint wraps a reader so that every byte passing through it feeds an
// xxh3 hash. The load path uses it to log a stable content fingerprint of the
// source file alongside the load summary, so reruns of the same input can be
// spotted in the logs without re-reading the file.
type Fingerprint struct {
	r io.Reader
	h *xxh3.Hasher
}

// NewFingerprint returns a Fingerprint reading from r.
func NewFingerprint(r io.Reader) *Fingerprint {
	return &Fingerprint{r: r, h: xxh3.New()}
}

// Read implements io.Reader, forwarding to the underlying reader and hashing
// whatever was read.
func (f *Fingerprint) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if n > 0 {
		_, _ = f.h.Write(p[:n])
	}
	return n, err
}

// Sum64 returns the xxh3 hash of all bytes read so far.
func (f *Fingerprint) Sum64() uint64 { return f.h.Sum64() }
