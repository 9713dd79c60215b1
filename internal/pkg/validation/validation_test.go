package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin user"`
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(sample{Name: "Somsak", Email: "somsak@example.com", Role: "admin"}))
	assert.Nil(t, Struct(sample{Name: "Somsak", Email: "somsak@example.com"}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	fields := Struct(sample{Email: "not-an-email", Role: "root"})

	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Must be a valid email address", fields["email"])
	assert.Contains(t, fields["role"], "Must be one of")
}

func TestStructMinLength(t *testing.T) {
	fields := Struct(sample{Name: "x", Email: "a@b.co"})
	assert.Equal(t, "Must be at least 2 characters", fields["name"])
}
