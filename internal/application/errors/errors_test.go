package apperrors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("commands", "invalid tree")
	assert.Equal(t, "validation failed: commands: invalid tree", err.Error())

	err = NewValidationError("commands", "invalid tree", "a", "b")
	assert.Equal(t, "validation failed: commands: invalid tree (2 issues)", err.Error())
}

func TestInvariantError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInvariantError("authme.help", "not an executable command", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "authme.help")
	assert.Contains(t, err.Error(), "boom")

	assert.Equal(t, "invariant violated for x: y", NewInvariantError("x", "y", nil).Error())
}

func TestConfigurationError_Unwrap(t *testing.T) {
	err := NewConfigurationError("version", "unsupported", fs.ErrNotExist)

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "configuration error (version)")
}

func TestPermissionsFileError_Unwrap(t *testing.T) {
	err := NewPermissionsFileError("/tmp/permissions.yaml", fs.ErrPermission)

	var target *PermissionsFileError
	assert.ErrorAs(t, err, &target)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "/tmp/permissions.yaml", target.Path)
}
