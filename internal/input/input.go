// Package input contains the line readers used to get script source lines
// from the terminal or from any other stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is a source of input lines for the interpreter session. Close must
// be called on a Reader before disposal to properly teardown any resources
// it holds.
type Reader interface {

	// ReadLine blocks until a line containing non-space characters is read,
	// and returns it with surrounding space trimmed. At end of input it
	// returns io.EOF.
	ReadLine() (string, error)

	// Close releases resources associated with the Reader.
	Close() error
}

// DirectReader reads lines from any generic input stream directly. It can be
// used with any io.Reader but does not sanitize the input of control and
// escape sequences.
//
// DirectReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectReader struct {
	r *bufio.Reader
}

// InteractiveReader reads lines from stdin using a go implementation of the
// GNU Readline library. This keeps input clear of typing and editing escape
// sequences and enables the use of line history. This should in general only
// be used when directly connected to a TTY.
//
// InteractiveReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a DirectReader with a buffered reader opened on
// the provided stream.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates an InteractiveReader and initializes readline
// with the given prompt. If histFile is non-empty, line history is persisted
// to that file across sessions.
func NewInteractiveReader(prompt string, histFile string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: histFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{
		rl: rl,
	}, nil
}

// Close is here so DirectReader implements Reader. For now it doesn't really
// do anything as the DirectReader does not create resources, but it may in
// the future and callers should treat it as though it must be called.
func (dr *DirectReader) Close() error {
	return nil
}

// Close cleans up readline resources associated with the InteractiveReader.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next line from the stream. The returned string will
// only be empty if there is an error reading input; otherwise this function
// blocks until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dr *DirectReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
	}

	return line, nil
}

// ReadLine reads the next line from stdin. The returned string will only be
// empty if there is an error; otherwise this function blocks until a line
// consisting of more than empty or whitespace-only input is read.
//
// Pressing ctrl-C at the prompt discards the current line; pressing ctrl-D
// on an empty line results in io.EOF.
func (ir *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err == readline.ErrInterrupt {
			line = ""
			continue
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
	}

	return line, nil
}

// SetPrompt changes the prompt shown for subsequent reads.
func (ir *InteractiveReader) SetPrompt(prompt string) {
	ir.rl.SetPrompt(prompt)
}
