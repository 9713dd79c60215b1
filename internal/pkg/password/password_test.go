package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cretPass1")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretPass1", hash)

	assert.True(t, Verify("s3cretPass1", hash))
	assert.False(t, Verify("wrong-password", hash))
	assert.False(t, Verify("s3cretPass1", "not-a-hash"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "password1", nil},
		{"too short", "pass1", ErrTooShort},
		{"letters only", "passwordonly", ErrTooWeak},
		{"digits only", "1234567890", ErrTooWeak},
		{"too long", strings.Repeat("a1", 40), ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
