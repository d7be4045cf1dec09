package compose

import (
	"fmt"
	"strings"
)

// Lookup returns the value for a variable name and whether it is set at all.
type Lookup func(name string) (string, bool)

type Template struct {
	Name string
	Body []byte
}

type Options struct {
	// AllowMissing expands unset variables to "" instead of failing the render
	AllowMissing bool
}

type Result struct {
	Content []byte
	Used    []string // variables resolved from the lookup, sorted
	Missing []string // unset variables without a default, sorted
}

type MissingVariablesError struct {
	Template string
	Names    []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("template [%s] references unset variables: %s", e.Template, strings.Join(e.Names, ", "))
}

// RequiredVariableError is raised by ${NAME:?message} and ${NAME?message}
type RequiredVariableError struct {
	Template string
	Line     int
	Name     string
	Message  string
}

func (e *RequiredVariableError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "required variable is missing a value"
	}
	return fmt.Sprintf("%s:%d: %s: %s", e.Template, e.Line, e.Name, msg)
}

type SyntaxError struct {
	Template string
	Line     int
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: invalid placeholder: %s", e.Template, e.Line, e.Reason)
}
