package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestMakeAndParseCode(t *testing.T) {
	code := MakeCode(ServiceDocVault, CategoryResource, 2)
	assert.Equal(t, 2104002, code)

	svc, cat, seq := ParseCode(code)
	assert.Equal(t, ServiceDocVault, svc)
	assert.Equal(t, CategoryResource, cat)
	assert.Equal(t, 2, seq)

	assert.True(t, IsClientError(code))
	assert.False(t, IsServerError(code))
	assert.True(t, IsServerError(ErrChatGenerationFailed.Code))
}

func TestErrnoCopies(t *testing.T) {
	cause := stderrors.New("connection refused")
	e := ErrDatabase.WithCause(cause).WithMessage("load document")

	assert.Equal(t, "Database error", ErrDatabase.MessageEN, "base error must not be mutated")
	assert.Equal(t, "load document", e.MessageEN)
	assert.ErrorIs(t, e, cause)
	assert.ErrorIs(t, e, ErrDatabase)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("send: %w", ErrConversationNotFound)
	assert.Equal(t, ErrConversationNotFound.Code, FromError(wrapped).Code)
	assert.True(t, IsCode(wrapped, ErrConversationNotFound.Code))

	plain := stderrors.New("boom")
	got := FromError(plain)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, plain)
	assert.Equal(t, -1, GetCode(plain))
}

func TestMessageLanguage(t *testing.T) {
	assert.Equal(t, "文档不存在", ErrDocumentNotFound.Message("zh-CN"))
	assert.Equal(t, "Document not found", ErrDocumentNotFound.Message("en"))
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(New(ErrNotFound.Code, http.StatusNotFound, codes.NotFound, "dup", ""))
	})
	got, ok := Lookup(ErrNotFound.Code)
	assert.True(t, ok)
	assert.Equal(t, "Resource not found", got.MessageEN)
}
