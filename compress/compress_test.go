package compress

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	streamio "github.com/usherasnick/ctrlz/stream-io"
)

func makeZip(t *testing.T, files map[string]string) string {
	fn := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(fn)
	require.Empty(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.Empty(t, err)
		_, err = w.Write([]byte(content))
		require.Empty(t, err)
	}
	require.Empty(t, zw.Close())
	return fn
}

func TestUnzip(t *testing.T) {
	src := makeZip(t, map[string]string{
		"a.txt":     "alpha\x1agarbage",
		"sub/b.txt": "beta",
		"sub/":      "",
	})
	dst := filepath.Join(t.TempDir(), "out")

	err := Unzip(dst, src, WithEntryFilter(func(name string, r io.Reader) io.Reader {
		return streamio.NewCtrlZReader(r)
	}))
	require.Empty(t, err)

	content, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	assert.Empty(t, err)
	assert.Equal(t, "alpha", string(content))

	content, err = os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	assert.Empty(t, err)
	assert.Equal(t, "beta", string(content))
}

func TestUnzipWithoutFilter(t *testing.T) {
	src := makeZip(t, map[string]string{"a.txt": "alpha\x1agarbage"})
	dst := t.TempDir()

	require.Empty(t, Unzip(dst, src))
	content, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	assert.Empty(t, err)
	assert.Equal(t, "alpha\x1agarbage", string(content))
}

func TestUnzipIllegalPath(t *testing.T) {
	src := makeZip(t, map[string]string{"../evil.txt": "x"})
	err := Unzip(filepath.Join(t.TempDir(), "out"), src)
	assert.Equal(t, ErrIllegalPath, err)
}
