package compress

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrIllegalPath 压缩包内的文件路径越过了解压目录.
var ErrIllegalPath = errors.New("illegal file path in archive")

// EntryFilter 对压缩包内每个文件的内容做变换.
type EntryFilter func(name string, r io.Reader) io.Reader

type options struct {
	filter EntryFilter
}

// Option 解压选项.
type Option func(*options)

// WithEntryFilter 设置文件内容变换函数.
func WithEntryFilter(f EntryFilter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// Unzip 将压缩包src解压到dst目录.
func Unzip(dst, src string, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	zr, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		zr.Close() // nolint
		return ErrIllegalPath
	}
	if err != nil {
		return err
	}
	defer zr.Close()

	if err = os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	root, err := filepath.Abs(dst)
	if err != nil {
		return err
	}

	unit := func(path string, file *zip.File) error {
		fr, err := file.Open()
		if err != nil {
			return err
		}
		defer fr.Close()

		if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}

		fw, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, file.Mode().Perm())
		if err != nil {
			return err
		}
		defer fw.Close()

		var r io.Reader = fr
		if o.filter != nil {
			r = o.filter(file.Name, fr)
		}
		n, err := io.Copy(fw, r)
		if err != nil {
			return err
		}
		log.Debug().Msgf("extract %s (%d/%d bytes)", file.Name, n, file.UncompressedSize64)
		return nil
	}

	for _, f := range zr.File {
		p := filepath.Join(root, f.Name)
		if p != root && !strings.HasPrefix(p, root+string(os.PathSeparator)) {
			return ErrIllegalPath
		}

		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(p, 0755); err != nil {
				return err
			}
			continue
		}

		if err = unit(p, f); err != nil {
			return err
		}
	}

	return nil
}
