package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/formgen/core"
)

func TestAuthenticator(t *testing.T) {
	auth, err := NewAuthenticator("test-secret")
	require.NoError(t, err)

	t.Run("IssueAndVerify", func(t *testing.T) {
		token, err := auth.IssueToken("alice@example.com")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "alice@example.com:"))

		owner, err := auth.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, core.IDFromContent("alice@example.com"), owner)
	})

	t.Run("DeterministicOwner", func(t *testing.T) {
		first, err := auth.IssueToken("bob")
		require.NoError(t, err)
		second, err := auth.IssueToken("bob")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("TamperedMAC", func(t *testing.T) {
		token, err := auth.IssueToken("alice")
		require.NoError(t, err)

		tampered := token[:len(token)-1]
		if strings.HasSuffix(token, "0") {
			tampered += "1"
		} else {
			tampered += "0"
		}

		_, err = auth.Verify(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("TamperedSubject", func(t *testing.T) {
		token, err := auth.IssueToken("alice")
		require.NoError(t, err)

		_, macHex, _ := strings.Cut(token, ":")
		_, err = auth.Verify("mallory:" + macHex)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, token := range []string{"", "no-separator", ":abc", "alice:nothex"} {
			_, err := auth.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
		}
	})

	t.Run("DifferentSecretsRejected", func(t *testing.T) {
		other, err := NewAuthenticator("other-secret")
		require.NoError(t, err)

		token, err := auth.IssueToken("alice")
		require.NoError(t, err)

		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("SubjectWithSeparatorRejected", func(t *testing.T) {
		_, err := auth.IssueToken("alice:extra")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("EmptySecretRejected", func(t *testing.T) {
		_, err := NewAuthenticator("")
		assert.ErrorIs(t, err, ErrSigningSecretRequired)
	})
}
