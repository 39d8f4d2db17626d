package code

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

func TestInvite_FormatAndUniqueness(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		c, err := g.Invite()
		require.NoError(t, err)
		assert.Len(t, c, 26)
		assert.Regexp(t, "^[0-9a-z]{26}$", c)
		_, dup := seen[c]
		assert.False(t, dup)
		seen[c] = struct{}{}
	}
}

func TestInvite_ZeroEntropyIsPadded(t *testing.T) {
	g := NewGeneratorFrom(bytes.NewReader(make([]byte, 64)))
	c, err := g.Invite()
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000000", c)
}

func TestInvite_ShortEntropyFails(t *testing.T) {
	g := NewGeneratorFrom(bytes.NewReader([]byte{1, 2, 3}))
	_, err := g.Invite()
	assert.Error(t, err)
}

func TestReferral_Format(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 200; i++ {
		c, err := g.Referral()
		require.NoError(t, err)
		assert.True(t, validator.IsValidReferralCode(c), "code %q", c)
	}
}

func TestNormalizeReferral(t *testing.T) {
	assert.Equal(t, "ABCD1234", NormalizeReferral(" abcd1234 "))
}
