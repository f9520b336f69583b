// Package rpcerr provides the error taxonomy shared by every handler:
// categorized, stack-traced errors that the dispatcher collapses into a
// wire protocol.Error without leaking internal detail onto the connection.
package rpcerr

// file: internal/rpcerr/rpcerr.go

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/zedrahost/internal/protocol"
)

// Categories for grouping similar errors in logs; never sent on the wire.
const (
	CategoryProtocol = "protocol"
	CategoryFS       = "fs"
	CategoryGit      = "git"
	CategoryTerminal = "terminal"
	CategoryAI       = "ai"
	CategoryLSP      = "lsp"
)

// Internal-only classification codes. Per the core's resolved Open Question
// (spec.md §9), neither of these is ever serialized as-is: ToWireError always
// emits protocol.CodeInternalError for them. They exist so logs and tests can
// distinguish failure kinds without a second wire error code.
const (
	CodeUnknownTerminal = -32099
	CodeBadBase64       = -32098
)

const (
	detailCategoryPrefix = "category:"
	detailCodePrefix     = "code:"
)

// New creates a stack-traced error not yet tied to a category.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted, stack-traced error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrap attaches message to cause, preserving the original error and its stack.
func Wrap(cause error, message string) error {
	return errors.Wrap(cause, message)
}

// Wrapf attaches a formatted message to cause.
func Wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}

// WithCategory tags err with a category recoverable via Category.
func WithCategory(err error, category string) error {
	return errors.WithDetail(err, detailCategoryPrefix+category)
}

// WithCode tags err with an internal classification code recoverable via Code.
func WithCode(err error, code int) error {
	return errors.WithDetail(err, detailCodePrefix+strconv.Itoa(code))
}

// Category recovers a previously attached category, or "" if none was set.
func Category(err error) string {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, detailCategoryPrefix); ok {
			return rest
		}
	}
	return ""
}

// Code recovers a previously attached internal classification code, or
// protocol.CodeInternalError if none was set.
func Code(err error) int {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, detailCodePrefix); ok {
			if code, parseErr := strconv.Atoi(rest); parseErr == nil {
				return code
			}
		}
	}
	return protocol.CodeInternalError
}

// UnknownTerminal builds the error spec.md §4.4 requires for data/resize
// against an id that was never minted or that has already been closed.
func UnknownTerminal(id string) error {
	return WithCode(WithCategory(Newf("unknown terminal: %s", id), CategoryTerminal), CodeUnknownTerminal)
}

// BadBase64 builds the error spec.md §4.4 requires for malformed terminal input.
func BadBase64(cause error) error {
	return WithCode(WithCategory(Wrap(cause, "bad base64"), CategoryTerminal), CodeBadBase64)
}

// ToWireError converts any error into the wire protocol.Error the dispatcher
// sends back to the client. Per spec.md §7, the core never distinguishes
// -32602 from -32603: every application failure surfaces as -32603 with a
// descriptive message.
func ToWireError(err error) *protocol.Error {
	if err == nil {
		return nil
	}
	return &protocol.Error{
		Code:    protocol.CodeInternalError,
		Message: err.Error(),
	}
}
