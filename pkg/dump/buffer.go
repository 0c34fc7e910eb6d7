// Package dump loads SQL dump files into immutable in-memory buffers.
package dump

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Compression identifies how a dump file is encoded on disk.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionXz   Compression = "xz"
)

// DetectCompression picks the decoder from the file suffix.
func DetectCompression(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".xz"):
		return CompressionXz
	default:
		return CompressionNone
	}
}

// Buffer is the contents of one dump. Uncompressed files are memory mapped;
// compressed files and stdin are decoded into the heap. The bytes are never
// written after Open returns.
type Buffer struct {
	Path        string
	Compression Compression
	data        []byte
	unmap       func() error
}

// Open loads path. "-" reads standard input.
func Open(path string) (*Buffer, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &Buffer{Path: path, Compression: CompressionNone, data: data}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dump: %w", err)
	}

	b := &Buffer{Path: path, Compression: DetectCompression(path)}
	switch b.Compression {
	case CompressionGzip:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gzr.Close()
		b.data, err = readAll(gzr, info.Size()*4)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	case CompressionXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		b.data, err = readAll(xzr, info.Size()*6)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	default:
		data, unmap, err := mapFile(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", path, err)
		}
		b.data, b.unmap = data, unmap
	}
	return b, nil
}

// FromBytes wraps an in-memory dump. The caller must not modify data
// afterwards.
func FromBytes(data []byte) *Buffer {
	return &Buffer{Path: "<memory>", Compression: CompressionNone, data: data}
}

func readAll(r io.Reader, hint int64) ([]byte, error) {
	var buf bytes.Buffer
	if hint > 0 && hint < 1<<34 {
		buf.Grow(int(hint))
	}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Bytes returns the dump contents. They stay valid until Close.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the size of the decoded dump.
func (b *Buffer) Len() int { return len(b.data) }

// Mapped reports whether the contents are a memory mapping of the file.
func (b *Buffer) Mapped() bool { return b.unmap != nil }

// Fingerprint returns the hex BLAKE3 digest of the decoded contents.
func (b *Buffer) Fingerprint() string {
	sum := blake3.Sum256(b.data)
	return hex.EncodeToString(sum[:])
}

// Close releases the mapping. Rows borrowing from the buffer must not be
// used afterwards.
func (b *Buffer) Close() error {
	b.data = nil
	if b.unmap == nil {
		return nil
	}
	unmap := b.unmap
	b.unmap = nil
	return unmap()
}
