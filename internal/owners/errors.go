package owners

import "fmt"

// ParseError is a malformed line in the ownership rule file.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed owners file line %d: %q", e.Line, e.Text)
}
