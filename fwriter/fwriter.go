package fwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// SafeWriter 原子文件写入器: 先写临时文件, Commit时再替换目标文件.
type SafeWriter struct {
	flock     *FLock
	writer    *os.File
	fn        string
	tmpSuffix string
}

// NewSafeWriter 新建SafeWriter对象, 临时文件权限为perm.
func NewSafeWriter(fn string, perm os.FileMode) (*SafeWriter, error) {
	if err := os.MkdirAll(filepath.Dir(fn), 0750); err != nil {
		return nil, err
	}

	flock := NewFLock(fn)
	if err := flock.Acquire(); err != nil {
		return nil, err
	}

	tmpSuffix := fmt.Sprintf(".tmp%v", time.Now().UnixNano())

	writer, err := os.OpenFile(fn+tmpSuffix, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		flock.Release() // nolint
		flock.Remove()  // nolint
		return nil, err
	}

	return &SafeWriter{
		flock:     flock,
		writer:    writer,
		fn:        fn,
		tmpSuffix: tmpSuffix,
	}, nil
}

// Write 写字节流.
func (w *SafeWriter) Write(content []byte) (int, error) {
	return w.writer.Write(content)
}

// WriteString 写字符串.
func (w *SafeWriter) WriteString(content string) (int, error) {
	return w.writer.WriteString(content)
}

// ReadFrom 实现io.ReaderFrom接口.
func (w *SafeWriter) ReadFrom(r io.Reader) (int64, error) {
	return io.Copy(w.writer, r)
}

// Commit 持久化数据到硬盘, 并替换目标文件.
func (w *SafeWriter) Commit() error {
	defer w.exit()
	if err := w.writer.Sync(); err != nil {
		return err
	}
	return os.Rename(w.fn+w.tmpSuffix, w.fn)
}

// Abort 放弃当前写操作, 目标文件保持不变.
func (w *SafeWriter) Abort() {
	w.exit()
}

func (w *SafeWriter) exit() {
	w.writer.Close()              // nolint
	w.flock.Release()             // nolint
	w.flock.Remove()              // nolint
	os.Remove(w.fn + w.tmpSuffix) // nolint
}

// RewriteStat 改写前后的文件大小.
type RewriteStat struct {
	Before int64
	After  int64
}

// Filter 对输入流做变换.
type Filter func(io.Reader) io.Reader

// Rewrite 将文件fn经过filter变换后原子地写回, 保留原文件权限.
// 出错时原文件不变.
func Rewrite(fn string, filter Filter) (*RewriteStat, error) {
	src, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", fn)
	}

	w, err := NewSafeWriter(fn, info.Mode().Perm())
	if err != nil {
		return nil, err
	}

	var r io.Reader = src
	if filter != nil {
		r = filter(src)
	}
	n, err := w.ReadFrom(r)
	if err != nil {
		log.Warn().Err(err).Msgf("abort rewriting %s", fn)
		w.Abort()
		return nil, err
	}
	// umask可能影响了临时文件的权限.
	if err = w.writer.Chmod(info.Mode().Perm()); err != nil {
		w.Abort()
		return nil, err
	}
	if err = w.Commit(); err != nil {
		return nil, err
	}

	return &RewriteStat{Before: info.Size(), After: n}, nil
}
