package core

import (
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const cyclicHierarchyMsg = "cyclic class hierarchy"

// CyclicHierarchyError reports a parent chain that revisits a class. The
// path lists the classes in walk order, ending with the repeated one.
func CyclicHierarchyError(path []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(cyclicHierarchyMsg + ": " + strings.Join(path, " -> "))
}

// IsCyclicHierarchy reports whether err came from a hierarchy walk that
// found a cycle.
func IsCyclicHierarchy(err error) bool {
	if err == nil || errbuilder.CodeOf(err) != errbuilder.CodeFailedPrecondition {
		return false
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) {
		return strings.HasPrefix(builder.Msg, cyclicHierarchyMsg)
	}
	return strings.Contains(err.Error(), cyclicHierarchyMsg)
}

const malformedInputMsg = "malformed input"

// MalformedInputError reports a document that cannot be read as an expanded
// schema: unparsable, empty, or carrying a node of the wrong shape.
func MalformedInputError(source string, detail string, cause error) error {
	msg := malformedInputMsg + ": " + source
	if detail != "" {
		msg += ": " + detail
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg).
		WithCause(cause)
}

// IsMalformedInput reports whether err rejected the input document itself,
// as opposed to a flag or request error with the same code.
func IsMalformedInput(err error) bool {
	if err == nil || errbuilder.CodeOf(err) != errbuilder.CodeInvalidArgument {
		return false
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) {
		return strings.HasPrefix(builder.Msg, malformedInputMsg)
	}
	return strings.Contains(err.Error(), malformedInputMsg)
}
