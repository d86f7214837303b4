package loader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNameRequired is returned for a model definition without a name.
var ErrNameRequired = errors.New("model name is required")

// FileError reports a model file that could not be loaded.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ParseError reports malformed YAML or a field of the wrong shape.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// DuplicateModelError reports a model name defined more than once.
type DuplicateModelError struct {
	Name  string
	Paths []string
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("model %q defined more than once: %s", e.Name, strings.Join(e.Paths, ", "))
}
