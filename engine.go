// Package dmk contains a CLI-driven engine for reading script source lines
// and evaluating them continuously until the user quits, as well as running
// complete script files non-interactively.
package dmk

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/dmk/internal/conf"
	"github.com/dekarrin/dmk/internal/dmkerrors"
	"github.com/dekarrin/dmk/internal/dmscript"
	"github.com/dekarrin/dmk/internal/input"
	"github.com/dekarrin/rosed"
)

// Engine contains the things needed to run an interpreter session from an
// interactive shell attached to an input stream and an output stream, or
// from a script file.
type Engine struct {
	interp  *dmscript.Interp
	in      input.Reader
	out     *bufio.Writer
	errOut  io.Writer
	cfg     conf.Config
	running bool
}

const consoleOutputWidth = 80

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for
// the output or error streams, stdout and stderr are used. Interactive
// readline-based input is used when the input and output streams are the
// process's stdin and stdout, unless forceDirectInput disables it; whether
// those are attached to a terminal is not checked.
func New(inputStream io.Reader, outputStream, errStream io.Writer, cfg conf.Config, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if errStream == nil {
		errStream = os.Stderr
	}

	interp := dmscript.NewInterp()
	interp.SetStrictComments(cfg.StrictComments)

	eng := &Engine{
		interp: interp,
		out:    bufio.NewWriter(outputStream),
		errOut: errStream,
		cfg:    cfg,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(cfg.Prompt, cfg.HistoryFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}

	return nil
}

// RunUntilEOF begins reading lines from the input stream and evaluating each
// as a complete program until end of input is reached. Each line's results
// are echoed per the interactive display rules; an error ends only the
// current line, not the session.
func (eng *Engine) RunUntilEOF() error {
	eng.interp.SetEcho(eng.out)

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		line, err := eng.in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("get input line: %w", err)
		}

		_, evalErr := eng.interp.Eval(line)
		if err := eng.out.Flush(); err != nil {
			return fmt.Errorf("could not flush output: %w", err)
		}
		if evalErr != nil {
			eng.showError(evalErr)
		}
	}

	return nil
}

// RunCommand evaluates the given source text as a complete program with the
// interactive display rules, as though it had been typed at the prompt. The
// returned error is the evaluation error, if any; it is not shown on the
// error stream.
func (eng *Engine) RunCommand(source string) error {
	eng.interp.SetEcho(eng.out)

	_, evalErr := eng.interp.Eval(source)
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return evalErr
}

// RunScript reads the file at the given path and evaluates it as a single
// program, with result echo disabled.
func (eng *Engine) RunScript(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return dmkerrors.IO(err, "cannot read script file %q", path)
	}

	eng.interp.SetEcho(nil)
	_, evalErr := eng.interp.Eval(string(data))
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return evalErr
}

// showError writes the one-line form of the given error to the error stream,
// wrapped to the console width.
func (eng *Engine) showError(err error) {
	consoleMessage := dmkerrors.Display(err)
	consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
	fmt.Fprintf(eng.errOut, "%s\n", consoleMessage)
}
