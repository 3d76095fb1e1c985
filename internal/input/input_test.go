package input

import (
	"bytes"
	"testing"
	"time"
)

// keys is Input without the raw bytes, so cases can be compared with ==.
type keys struct {
	Quit, Drop, Pause, Step, Restart, Enter bool
	Move                                    int
}

func keysOf(in Input) keys {
	return keys{in.Quit, in.Drop, in.Pause, in.Step, in.Restart, in.Enter, in.Move}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want keys
	}{
		{"nothing", "", keys{}},
		{"arrows", "\x1b[D\x1b[D\x1b[C", keys{Move: -1}},
		{"application arrows", "\x1bOC\x1bOC", keys{Move: 2}},
		{"letters", "hhl", keys{Move: -1}},
		{"vertical arrows ignored", "\x1b[A\x1b[B", keys{}},
		{"drop", " ", keys{Drop: true}},
		{"pause and step", "pn", keys{Pause: true, Step: true}},
		{"restart", "R", keys{Restart: true}},
		{"enter", "\r", keys{Enter: true}},
		{"quit", "q", keys{Quit: true}},
		{"ctrl-c", "\x03", keys{Quit: true}},
		{"lone escape", "\x1b", keys{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keysOf(Parse([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadInputQuitsWhenReaderEnds(t *testing.T) {
	s := StartStream(bytes.NewReader([]byte(" ")))

	deadline := time.Now().Add(2 * time.Second)
	var sawDrop bool
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		sawDrop = sawDrop || in.Drop
		if in.Quit {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("stream never closed")
	}
	if !sawDrop {
		t.Error("byte before EOF was lost")
	}
	if in := ReadInput(s); !in.Quit || in.Any() {
		t.Errorf("ReadInput after close = %+v", in)
	}
}
