package streamio

import (
	"bufio"
	"io"
)

type bufReader struct {
	br *bufio.Reader
}

// NewBufReader 基于bufio.Reader将任意io.Reader适配为BufReader, size为缓冲区大小.
func NewBufReader(r io.Reader, size int) BufReader {
	return &bufReader{br: bufio.NewReaderSize(r, size)}
}

func (b *bufReader) Read(p []byte) (int, error) {
	return b.br.Read(p)
}

func (b *bufReader) FillBuf() ([]byte, error) {
	if b.br.Buffered() == 0 {
		if _, err := b.br.Peek(1); err != nil {
			return nil, err
		}
	}
	return b.br.Peek(b.br.Buffered())
}

func (b *bufReader) Consume(n int) {
	b.br.Discard(n) // nolint
}
