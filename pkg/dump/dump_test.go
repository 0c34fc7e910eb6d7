package dump

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/bisegni/dumpscan/pkg/parser"
	"github.com/bisegni/dumpscan/pkg/schema"
)

func redirectDump(statements, per int) string {
	var sb strings.Builder
	sb.WriteString("-- MySQL dump\nDROP TABLE IF EXISTS `redirect`;\n")
	id := 1
	for s := 0; s < statements; s++ {
		sb.WriteString("INSERT INTO `redirect` VALUES ")
		for k := 0; k < per; k++ {
			if k > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "(%d,0,'Target_%d;x','','')", id, id)
			id++
		}
		sb.WriteString(";\n")
	}
	return sb.String()
}

func writeFile(t *testing.T, name string, write func(f *os.File)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	write(f)
	require.NoError(t, f.Close())
	return path
}

func TestOpenCompressions(t *testing.T) {
	content := redirectDump(3, 4)
	want := FromBytes([]byte(content)).Fingerprint()

	plain := writeFile(t, "redirect.sql", func(f *os.File) {
		_, err := f.WriteString(content)
		require.NoError(t, err)
	})
	gz := writeFile(t, "redirect.sql.gz", func(f *os.File) {
		w := gzip.NewWriter(f)
		_, err := w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	})
	xzPath := writeFile(t, "redirect.sql.xz", func(f *os.File) {
		w, err := xz.NewWriter(f)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	})

	tests := []struct {
		path        string
		compression Compression
	}{
		{plain, CompressionNone},
		{gz, CompressionGzip},
		{xzPath, CompressionXz},
	}
	for _, tt := range tests {
		t.Run(string(tt.compression), func(t *testing.T) {
			b, err := Open(tt.path)
			require.NoError(t, err)
			defer b.Close()

			assert.Equal(t, tt.compression, b.Compression)
			assert.Equal(t, content, string(b.Bytes()))
			assert.Equal(t, want, b.Fingerprint())
			if tt.compression == CompressionNone && runtime.GOOS != "windows" {
				assert.True(t, b.Mapped())
			}

			rows, err := parser.Collect(schema.RedirectTable.Iterate(b.Bytes()))
			require.NoError(t, err)
			assert.Len(t, rows, 12)
		})
	}
}

func TestOpenEmptyAndMissing(t *testing.T) {
	empty := writeFile(t, "empty.sql", func(*os.File) {})
	b, err := Open(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
	require.NoError(t, b.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing.sql"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.sql.gz", func(f *os.File) {
		_, err := f.WriteString("not gzip")
		require.NoError(t, err)
	})
	_, err = Open(bad)
	assert.Error(t, err)
}

func TestFingerprintIsStable(t *testing.T) {
	a := FromBytes([]byte("INSERT INTO t VALUES (1);"))
	b := FromBytes([]byte("INSERT INTO t VALUES (1);"))
	c := FromBytes([]byte("INSERT INTO t VALUES (2);"))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestCountParallel(t *testing.T) {
	buf := []byte(redirectDump(25, 40))
	for _, workers := range []int{0, 1, 2, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			n, err := Count(context.Background(), buf, schema.RedirectTable, workers)
			require.NoError(t, err)
			assert.Equal(t, 1000, n)
		})
	}
}

func TestCountReportsRegionErrors(t *testing.T) {
	buf := []byte(redirectDump(10, 10) + "INSERT INTO `redirect` VALUES (1,0,'x','',);\n")
	_, err := Count(context.Background(), buf, schema.RedirectTable, 4)
	require.ErrorIs(t, err, parser.ErrUnexpectedToken)
}

func TestScanVisitsEveryRegion(t *testing.T) {
	buf := []byte(redirectDump(12, 5))
	var rows atomic.Int64
	regions, err := Scan(context.Background(), buf, schema.RedirectTable, 4, func(ctx context.Context, part int, it schema.RecordIterator) error {
		for it.Next() {
			rows.Add(1)
		}
		return it.Error()
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(regions), 4)
	assert.Equal(t, int64(60), rows.Load())
}

func TestCountHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf := []byte(redirectDump(2, checkEvery))
	_, err := Count(ctx, buf, schema.RedirectTable, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
