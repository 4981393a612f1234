package stemplate

import (
	"fmt"
	"strings"
)

// The default render surface never fails: absent variables, unreadable
// include files, unterminated delimiters and exhausted recursion depth all
// degrade to partial or empty output. The strict render surface reports
// those degradations with the typed errors below, joined with errors.Join.

// MissingVariableError reports plain placeholders that resolved to empty
// because the name was bound neither in the variable source nor in the
// environment.
type MissingVariableError struct {
	// Names lists the unresolved variable names in source order.
	Names []string
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("missing variable: %s", e.Names[0])
	}
	return fmt.Sprintf("missing variables: %s", strings.Join(e.Names, ", "))
}

// IncludeError reports an include placeholder whose file could not be read.
type IncludeError struct {
	// Path is the file path from the placeholder.
	Path string

	// Err is the underlying read error.
	Err error
}

// Error implements the error interface.
func (e *IncludeError) Error() string {
	return fmt.Sprintf("include %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IncludeError) Unwrap() error {
	return e.Err
}

// DepthError reports that re-expansion stopped at the recursion depth cap
// with placeholder text still present in the output.
type DepthError struct {
	// Depth is the cap that was reached.
	Depth int
}

// Error implements the error interface.
func (e *DepthError) Error() string {
	return fmt.Sprintf("recursion depth cap reached at %d, remaining placeholders left as literal text", e.Depth)
}

// UnterminatedError reports a start delimiter with no balanced close; the
// remainder of that text was emitted as literal output.
type UnterminatedError struct {
	// Pos is the byte offset of the orphan start delimiter.
	Pos int
}

// Error implements the error interface.
func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("unterminated start delimiter at byte %d, remainder treated as literal", e.Pos)
}
