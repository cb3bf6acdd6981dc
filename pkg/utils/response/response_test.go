package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/docvault/pkg/utils/errors"
)

func TestSuccess(t *testing.T) {
	r := Success(map[string]string{"id": "d-1"})
	defer Release(r)

	assert.True(t, r.IsSuccess())
	assert.Equal(t, http.StatusOK, r.HTTPStatus())
	assert.Equal(t, "success", r.Message)
}

func TestErr(t *testing.T) {
	r := Err(errors.ErrInvalidFileType).WithRequestID("req-1")
	defer Release(r)

	assert.False(t, r.IsSuccess())
	assert.Equal(t, errors.ErrInvalidFileType.Code, r.Code)
	assert.Equal(t, http.StatusBadRequest, r.HTTPStatus())
	assert.Equal(t, "req-1", r.RequestID)
	assert.Nil(t, r.Data)
}

func TestHTTPStatusFromRegistry(t *testing.T) {
	r := &Response{Code: errors.ErrConversationNotFound.Code}
	assert.Equal(t, http.StatusNotFound, r.HTTPStatus())

	r = &Response{Code: 9999999}
	assert.Equal(t, http.StatusInternalServerError, r.HTTPStatus())
}

func TestReleaseResets(t *testing.T) {
	r := Success("x")
	Release(r)
	assert.Equal(t, Response{}, *r)
	Release(nil)
}
