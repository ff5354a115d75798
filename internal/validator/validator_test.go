package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	for _, ok := range []string{"0", "48720", "12.50"} {
		assert.NoError(t, Validate.Var(ok, "amount"), ok)
	}
	for _, bad := range []string{"-5", "abc", ""} {
		assert.Error(t, Validate.Var(bad, "amount"), bad)
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, Validate.Var(" promo ", "notblank"))
	assert.Error(t, Validate.Var(" \t ", "notblank"))
}

func TestDomainTags(t *testing.T) {
	assert.NoError(t, Validate.Var("bitcoin", "accountkind"))
	assert.Error(t, Validate.Var("visa", "accountkind"))
	assert.NoError(t, Validate.Var("land rover", "manufacturer"))
	assert.Error(t, Validate.Var("tesla", "manufacturer"))
	assert.NoError(t, Validate.Var("sav", "category"))
	assert.Error(t, Validate.Var("coupe", "category"))
}
