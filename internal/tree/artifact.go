package tree

import (
	"compress/gzip"
	"io"
	"io/fs"
	"strings"

	"github.com/xtxerr/fioreport/config"
	"github.com/xtxerr/fioreport/internal/errors"
)

// openArtifact opens a run artifact by its plain name, falling back to the
// gzip-compressed variant. It returns the reader and the name actually
// opened for error context. A missing artifact surfaces as fs.ErrNotExist.
func openArtifact(fsys fs.FS, name string) (io.ReadCloser, string, error) {
	f, err := fsys.Open(name)
	if err == nil {
		return f, name, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}

	gzName := name + config.GzipSuffix
	f, err = fsys.Open(gzName)
	if err != nil {
		return nil, "", err
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, "", errors.NewMalformedArtifact(gzName, err.Error())
	}

	return &gzipReadCloser{zr: zr, file: f}, gzName, nil
}

// openLog opens an exactly-named log file, wrapping it in a gzip reader
// when the name carries the compressed suffix.
func openLog(fsys fs.FS, name string) (io.ReadCloser, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(name, config.GzipSuffix) {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.NewMalformedArtifact(name, err.Error())
	}
	return &gzipReadCloser{zr: zr, file: f}, nil
}

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	zr   *gzip.Reader
	file fs.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}
