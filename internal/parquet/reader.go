package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Reader reads one typed row stream back from a Parquet file.
type Reader[T any] struct {
	path   string
	file   *os.File
	reader *parquet.GenericReader[T]
}

// NewReader opens a Parquet file for reading.
func NewReader[T any](path string) (*Reader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, info.Size(), parquet.ReadBufferSize(1024*1024))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	return &Reader[T]{
		path:   path,
		file:   f,
		reader: parquet.NewGenericReader[T](pf),
	}, nil
}

// ReadAll reads every row in the file.
func (r *Reader[T]) ReadAll() ([]T, error) {
	var out []T
	buf := make([]T, 1024)
	for {
		n, err := r.reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
	}
}

// NumRows returns the total row count.
func (r *Reader[T]) NumRows() int64 {
	return r.reader.NumRows()
}

// Close closes the reader and the file.
func (r *Reader[T]) Close() error {
	rerr := r.reader.Close()
	ferr := r.file.Close()
	if rerr != nil {
		return rerr
	}
	return ferr
}

// Path returns the file path.
func (r *Reader[T]) Path() string {
	return r.path
}
