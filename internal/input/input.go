// Package input turns raw terminal bytes into viewer commands.
package input

import (
	"io"
	"sync"
)

// Input represents the keys seen since the last read.
type Input struct {
	Quit    bool   // q, Esc or Ctrl-C
	Redraw  bool   // r or Ctrl-L
	Info    bool   // i: toggle the status line
	Closed  bool   // the underlying reader hit EOF or failed
	Pressed []byte // every byte read, in order
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	done   chan struct{}
	stop   sync.Once
	closed bool
}

// byteReader is satisfied by *bufio.Reader.
type byteReader interface {
	ReadByte() (byte, error)
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error or, after Stop, on the next byte.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(byteReader)
	if !ok {
		br = &singleByteReader{r: r}
	}

	s := &Stream{ch: make(chan byte, 128), done: make(chan struct{})}
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop tells the reader goroutine that nobody drains the stream any more.
// A read already blocked in r is not interrupted.
func (s *Stream) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var in Input

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			in.Pressed = append(in.Pressed, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(in.Pressed); i++ {
		b := in.Pressed[i]

		// A lone ESC is the escape key; ESC [ starts an arrow or other CSI
		// sequence, which the viewer ignores.
		if b == '\x1b' && i+1 < len(in.Pressed) && in.Pressed[i+1] == '[' {
			i += 2
			continue
		}
		applyByte(&in, b)
	}

	in.Closed = s.closed
	if in.Closed {
		in.Quit = true
	}
	return in
}

// applyByte records the command bound to b.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x1b', '\x03':
		in.Quit = true
	case 'r', 'R', '\x0c':
		in.Redraw = true
	case 'i', 'I':
		in.Info = !in.Info
	}
}

// singleByteReader adapts an io.Reader without ReadByte.
type singleByteReader struct {
	r   io.Reader
	buf [1]byte
}

func (s *singleByteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}
