package fwriter

import (
	"errors"
	"os"
	"syscall"
)

// ErrLocked 文件已被其他进程或线程锁定.
var ErrLocked = errors.New("file has been locked by another thread")

// FLock 文件锁, 锁文件为<fn>.lock
type FLock struct {
	fn string
	fd int
}

// NewFLock 新建FLock对象.
func NewFLock(fn string) *FLock {
	return &FLock{
		fn: fn + ".lock",
		fd: -1,
	}
}

// File 返回锁文件路径.
func (l *FLock) File() string {
	return l.fn
}

// Acquire 获取文件锁, 非阻塞.
func (l *FLock) Acquire() error {
	fd, err := syscall.Open(l.fn, syscall.O_CREAT|syscall.O_RDONLY|syscall.O_CLOEXEC, 0600)
	if err != nil {
		return err
	}
	if err := syscall.Flock(fd, syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		syscall.Close(fd) // nolint
		if err == syscall.EWOULDBLOCK {
			return ErrLocked
		}
		return err
	}
	l.fd = fd
	return nil
}

// Release 释放文件锁.
func (l *FLock) Release() error {
	if l.fd < 0 {
		return nil
	}
	err := syscall.Close(l.fd)
	l.fd = -1
	return err
}

// Remove 删除锁文件.
func (l *FLock) Remove() error {
	return os.Remove(l.fn)
}
