// file: internal/rpcerr/rpcerr_test.go
package rpcerr

import (
	"testing"

	"github.com/dkoosis/zedrahost/internal/protocol"
	"github.com/stretchr/testify/assert"
)

func TestCategoryAndCode_Roundtrip(t *testing.T) {
	err := WithCode(WithCategory(New("disk full"), CategoryFS), CodeBadBase64)
	assert.Equal(t, CategoryFS, Category(err))
	assert.Equal(t, CodeBadBase64, Code(err))
}

func TestCode_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, protocol.CodeInternalError, Code(New("plain")))
}

func TestUnknownTerminal_MessageMatchesContract(t *testing.T) {
	err := UnknownTerminal("term-3")
	assert.Contains(t, err.Error(), "unknown terminal: term-3")
	assert.Equal(t, CodeUnknownTerminal, Code(err))
}

func TestToWireError_AlwaysInternalCode(t *testing.T) {
	wire := ToWireError(UnknownTerminal("term-9"))
	assert.Equal(t, protocol.CodeInternalError, wire.Code)
	assert.Contains(t, wire.Message, "term-9")
}

func TestToWireError_Nil(t *testing.T) {
	assert.Nil(t, ToWireError(nil))
}
