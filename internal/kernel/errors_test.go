package kernel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHelpers(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{validationErr("bad input"), CodeValidation},
		{notFoundErr("task", "t1"), CodeNotFound},
		{storageErr("write", errors.New("disk full")), CodeStorage},
		{parseErr("bad document", errors.New("unexpected EOF")), CodeParse},
		{integrityErr("t1", errors.New("hash mismatch")), CodeIntegrityMismatch},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CodeOf(tc.err), tc.err.Error())
	}

	assert.True(t, IsValidation(validationErr("x")))
	assert.True(t, IsNotFound(notFoundErr("edge", "e")))
	assert.True(t, IsStorage(storageErr("op", nil)))
	assert.True(t, IsParse(parseErr("x", nil)))
	assert.True(t, IsIntegrityMismatch(integrityErr("id", nil)))

	assert.False(t, IsValidation(nil))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestErrorHelperSeesThroughWrapping(t *testing.T) {
	inner := notFoundErr("task", "t1")
	wrapped := fmt.Errorf("handling request: %w", inner)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestErrorStringIncludesContext(t *testing.T) {
	err := notFoundErr("task", "abc-123")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "abc-123")

	cause := errors.New("database is locked")
	werr := storageErr("persist task", cause)
	assert.Contains(t, werr.Error(), "STORAGE")
	assert.Contains(t, werr.Error(), "database is locked")
	assert.ErrorIs(t, werr, cause)
}
