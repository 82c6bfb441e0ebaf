package cli

import "fmt"

type notFoundError struct {
	kind string
	ref  string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.ref)
}

func errNotFound(kind, ref string) error {
	return notFoundError{kind: kind, ref: ref}
}

type badPositionError struct {
	pos int
	max int
}

func (e badPositionError) Error() string {
	return fmt.Sprintf("position %d out of range 1..%d", e.pos, e.max)
}

func errBadPosition(pos, max int) error {
	return badPositionError{pos: pos, max: max}
}
