// Package input turns a raw terminal byte stream into per-frame key presses.
package input

import (
	"io"
)

// Input holds the keys pressed since the previous frame.
type Input struct {
	Quit    bool
	Move    int // Net horizontal presses: -1 per left, +1 per right
	Drop    bool
	Pause   bool
	Step    bool
	Restart bool
	Enter   bool
	Pressed []byte
}

// Any reports whether any key arrived this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes read by a background goroutine.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r until it fails and
// forwards every byte to the stream.
func StartStream(r io.ByteReader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking.
// Once the reader has ended every Input reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	if s.closed {
		in.Quit = true
	}
	return in
}

// Parse decodes one frame's worth of bytes. Arrow keys arrive as
// ESC [ C/D or, in application cursor mode, ESC O C/D.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			switch buf[i+2] {
			case 'C':
				in.Move++
				i += 2
				continue
			case 'D':
				in.Move--
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', 0x03: // Ctrl-C arrives as a byte in raw mode
			in.Quit = true
		case 'a', 'A', 'h', 'H':
			in.Move--
		case 'd', 'D', 'l', 'L':
			in.Move++
		case ' ':
			in.Drop = true
		case 'p', 'P':
			in.Pause = true
		case 'n', 'N':
			in.Step = true
		case 'r', 'R':
			in.Restart = true
		case '\n', '\r':
			in.Enter = true
		}
	}
	return in
}
