package streamio

import (
	"errors"
	"io"
)

/* Reading Rules

type Reader interface {
    Read(p []byte) (n int, err error)
}

1. A Read() call will read up to len(p) into p, when possible.
2. After a Read() call, n may be less then len(p).
3. Upon error, a Read() call may still return n bytes in transfer buffer p.
   For instance, reading from a TCP socket that is abruptly closed.
   Depending on your own use, you may choose to keep the bytes in p or just retry.
4. When a Read() call exhausts available data, a reader may return a non-zero n and err=io.EOF.
   However, depending on implementation, a reader may choose to return a non-zero n and err=nil at the end of stream.
   In that case, any subsequent read ops must return n=0, err=io.EOF.
5. A Read() call that returns n=0 and err=nil does not mean EOF as the next call to Read() may return more data.

Peeking Rules

type BufReader interface {
    io.Reader
    FillBuf() ([]byte, error)
    Consume(n int)
}

1. FillBuf() returns the bytes currently held by the reader's internal buffer, refilling it only when empty.
2. The returned slice is owned by the reader and is valid until the next call on the reader.
3. FillBuf() does not advance the reader. Consume(n) advances it by n bytes, n <= len(last FillBuf()).
4. At end of stream FillBuf() returns an empty slice and err=io.EOF.

*/

// CtrlZ 文件结束标记 (SUB, 0x1A), 旧式文本格式以其作为逻辑文件尾.
const CtrlZ byte = 0x1a

// ErrInvalidInnerSource 被包装的Reader返回的字节数超出了缓冲区长度.
var ErrInvalidInnerSource = errors.New("buffer smaller than amount of bytes read")

// BufReader 支持零拷贝窥视内部缓冲区的Reader.
type BufReader interface {
	io.Reader
	// FillBuf 返回内部缓冲区中的可读数据, 不移动读游标.
	FillBuf() ([]byte, error)
	// Consume 将读游标前移n个字节.
	Consume(n int)
}
