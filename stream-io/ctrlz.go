package streamio

import (
	"bytes"
	"io"
)

// CtrlZReader 读到第一个CtrlZ字节为止的Reader.
// CtrlZ本身以及其后的所有数据对调用方不可见.
type CtrlZReader struct {
	inner      io.Reader
	terminated bool
}

// NewCtrlZReader 返回CtrlZReader实例.
func NewCtrlZReader(r io.Reader) *CtrlZReader {
	return &CtrlZReader{inner: r}
}

// Read 实现io.Reader接口.
func (r *CtrlZReader) Read(p []byte) (int, error) {
	if r.terminated {
		return 0, io.EOF
	}

	n, err := r.inner.Read(p)
	if n < 0 || n > len(p) {
		return 0, ErrInvalidInnerSource
	}
	if i := bytes.IndexByte(p[:n], CtrlZ); i >= 0 {
		r.terminated = true
		if i == 0 {
			return 0, io.EOF
		}
		return i, nil
	}
	return n, err
}

// Terminated 是否已经读到CtrlZ.
func (r *CtrlZReader) Terminated() bool {
	return r.terminated
}

// CtrlZBufReader 同CtrlZReader, 额外支持FillBuf/Consume.
// Read与FillBuf共享同一个终止状态.
type CtrlZBufReader struct {
	CtrlZReader
	buf BufReader
}

// NewCtrlZBufReader 返回CtrlZBufReader实例.
func NewCtrlZBufReader(r BufReader) *CtrlZBufReader {
	return &CtrlZBufReader{
		CtrlZReader: CtrlZReader{inner: r},
		buf:         r,
	}
}

// FillBuf 实现BufReader接口.
func (r *CtrlZBufReader) FillBuf() ([]byte, error) {
	if r.terminated {
		return nil, io.EOF
	}

	buf, err := r.buf.FillBuf()
	if i := bytes.IndexByte(buf, CtrlZ); i >= 0 {
		// 窗口起始即为CtrlZ时立即终止, 调用方可能不会再调用Consume.
		if i == 0 {
			r.terminated = true
			return buf[:0], io.EOF
		}
		return buf[:i], nil
	}
	return buf, err
}

// Consume 实现BufReader接口.
func (r *CtrlZBufReader) Consume(n int) {
	r.buf.Consume(n)
}

// WriteTo 实现io.WriterTo接口, io.Copy会优先使用它, 避免额外的拷贝.
func (r *CtrlZBufReader) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		buf, err := r.FillBuf()
		if len(buf) > 0 {
			n, werr := w.Write(buf)
			if n < 0 || n > len(buf) {
				n = 0
				if werr == nil {
					werr = io.ErrShortWrite
				}
			}
			r.Consume(n)
			total += int64(n)
			if werr != nil {
				return total, werr
			}
			if n < len(buf) {
				return total, io.ErrShortWrite
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
