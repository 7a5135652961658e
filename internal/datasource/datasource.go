// Package datasource abstracts where input bytes come from. The load path
// only needs an io.ReadCloser; concrete sources (local files, HTTP URLs)
// live in subpackages.
package datasource

import (
	"context"
	"io"
	"strings"

	"tabload/internal/datasource/file"
	"tabload/internal/datasource/httpsrc"
)

// Source opens a byte stream for reading. Open may be called more than once;
// each call returns an independent reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ForPath picks a source for a job's source path: http(s) URLs fetch over
// the network with default retry settings, everything else reads the local
// filesystem.
func ForPath(path string) Source {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return httpsrc.New(path, httpsrc.Config{})
	}
	return file.NewLocal(path)
}
