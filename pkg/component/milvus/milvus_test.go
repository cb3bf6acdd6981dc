package milvus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualsExpr(t *testing.T) {
	tests := []struct {
		field, value, want string
	}{
		{"user_id", "u-1", `user_id == "u-1"`},
		{"user_id", `a"b`, `user_id == "a\"b"`},
		{"document_id", `c:\x`, `document_id == "c:\\x"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EqualsExpr(tt.field, tt.value))
	}
}
