package model

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a violated register map invariant.
type ErrorKind string

const (
	// Overlap marks two registers or two bit fields claiming the same space.
	Overlap ErrorKind = "overlap"
	// Misalignment marks an offset that is not naturally aligned.
	Misalignment ErrorKind = "misalignment"
	// FieldOutOfBounds marks a bit field exceeding its register's bit width.
	FieldOutOfBounds ErrorKind = "field out of bounds"
	// DuplicateName marks a register or field name that is used twice.
	DuplicateName ErrorKind = "duplicate name"
	// EmptyRegisterList marks a peripheral without any registers.
	EmptyRegisterList ErrorKind = "empty register list"
	// WidthConflict marks an access or field semantic that can not be
	// represented in the register's storage width.
	WidthConflict ErrorKind = "width conflict"
)

// Error describes a single violated invariant, identifying the offending
// register or field by name and offset.
type Error struct {
	Kind       ErrorKind
	Peripheral string
	Register   string
	Field      string
	Offset     uint64
	Detail     string
}

func (e Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))

	switch {
	case e.Field != "":
		fmt.Fprintf(&sb, ": field %s of register %s", e.Field, e.Register)
	case e.Register != "":
		fmt.Fprintf(&sb, ": register %s at offset 0x%04X", e.Register, e.Offset)
	case e.Peripheral != "":
		fmt.Fprintf(&sb, ": peripheral %s", e.Peripheral)
	}

	if e.Detail != "" {
		fmt.Fprintf(&sb, ": %s", e.Detail)
	}
	return sb.String()
}

// ErrorList collects multiple independent validation errors so that a single
// run reports every detectable violation instead of stopping at the first.
type ErrorList []Error

func (l ErrorList) Error() string {
	messages := make([]string, len(l))
	for i, err := range l {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// ErrOrNil returns the list as error or nil if no errors have been collected.
func (l ErrorList) ErrOrNil() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
