package validation

import (
	"testing"

	"aurum/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID("7a9f8a2e-44c3-4f3a-9d2b-0c1f2e3d4a5b"))
	assert.Equal(t, errors.ErrInvalidDataFormat, UUID("not-a-uuid"))
	assert.Equal(t, errors.ErrInvalidDataFormat, UUID(""))
}

func TestRequired(t *testing.T) {
	assert.NoError(t, Required("id", "something"))

	err := Required("beneficiaryWallet", "")
	assert.Error(t, err)
	assert.True(t, errors.IsMissingData(err))
	assert.Contains(t, err.Error(), "beneficiaryWallet")
}

func TestPositiveAmount(t *testing.T) {
	assert.NoError(t, PositiveAmount("amount", 1))
	assert.True(t, errors.IsMissingData(PositiveAmount("amount", 0)))
	assert.True(t, errors.IsMissingData(PositiveAmount("amount", -100)))
}
