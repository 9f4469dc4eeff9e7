package utils_test

import (
	"testing"

	"github.com/gatehouse/gatectl/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, utils.ValidateEmail("a@b.com"))

	err := utils.ValidateEmail("")
	require.Error(t, err)
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, "email is required", verr.Message)

	assert.Error(t, utils.ValidateEmail("not-an-email"))
}

func TestValidateOTPCode(t *testing.T) {
	assert.NoError(t, utils.ValidateOTPCode("000000"))
	assert.NoError(t, utils.ValidateOTPCode("654321"))
	assert.Error(t, utils.ValidateOTPCode(""))
	assert.Error(t, utils.ValidateOTPCode("12345"))
	assert.Error(t, utils.ValidateOTPCode("12a456"))
	assert.Error(t, utils.ValidateOTPCode("1234567"))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, utils.ValidateSlug("default"))
	assert.NoError(t, utils.ValidateSlug("green-acres-2"))
	assert.Error(t, utils.ValidateSlug(""))
	assert.Error(t, utils.ValidateSlug("Green Acres"))
	assert.Error(t, utils.ValidateSlug("-leading"))
}

func TestValidatePasswords(t *testing.T) {
	assert.NoError(t, utils.ValidatePassword("x"))
	assert.Error(t, utils.ValidatePassword(""))
	assert.NoError(t, utils.ValidateNewPassword("long enough"))
	assert.Error(t, utils.ValidateNewPassword("short"))
}

func TestValidateServerURL(t *testing.T) {
	assert.NoError(t, utils.ValidateServerURL("https://api.greenacres.test/api/v1"))
	assert.NoError(t, utils.ValidateServerURL("http://localhost:8000/api/v1"))
	assert.Error(t, utils.ValidateServerURL(""))
	assert.Error(t, utils.ValidateServerURL("not a url"))
}
