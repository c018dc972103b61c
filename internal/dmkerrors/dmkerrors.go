// Package dmkerrors classifies errors for presentation by the interpreter
// driver. It decides the one-line form shown at the prompt, the fuller form
// shown for script files, and keeps a technical message distinct from the
// message shown to the user where the two differ.
package dmkerrors

import (
	"errors"
	"fmt"

	"github.com/dekarrin/dmk/internal/dmscript"
)

// driverError is an error raised by the driver itself rather than by the
// language, such as a script file that cannot be read. It carries a
// human-readable message to show the user as well as a typical more
// technical "error message" style message.
type driverError struct {
	msg   string
	human string
	wrap  error
}

func (e *driverError) Error() string {
	return e.msg
}

// UserMessage shows the message that should be displayed to the user to
// describe the error.
func (e *driverError) UserMessage() string {
	return e.human
}

// Unwrap gives the error that the driverError wraps, if it wraps one.
func (e *driverError) Unwrap() error {
	return e.wrap
}

// IO returns a new error for a file that could not be read or opened, with
// both the message to show the user and the wrapped underlying error.
func IO(wrapped error, userFormat string, a ...interface{}) error {
	human := fmt.Sprintf(userFormat, a...)
	return &driverError{
		msg:   fmt.Sprintf("%s: %v", human, wrapped),
		human: human,
		wrap:  wrapped,
	}
}

// Display gives the one-line message to show on the console for the given
// error. Language errors already format themselves per their kind; driver
// errors show their user message; anything else shows its Error() text.
func Display(err error) string {
	var de *driverError
	if errors.As(err, &de) {
		return de.UserMessage()
	}
	return err.Error()
}

// FullDisplay gives the fullest useful form of the given error: for a syntax
// error this is the offending source line with a cursor under the column
// followed by the message; for everything else it is the same as Display.
func FullDisplay(err error) string {
	var se *dmscript.SyntaxError
	if errors.As(err, &se) {
		return se.FullMessage()
	}
	return Display(err)
}
