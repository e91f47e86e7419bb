package auth_test

import (
	"testing"
	"time"

	"redecell/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	uid := uuid.New()
	tok, err := auth.IssueToken("secret", uid, time.Hour)
	require.NoError(t, err)

	got, err := auth.ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestParseToken_Expired(t *testing.T) {
	tok, err := auth.IssueToken("secret", uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken("secret", tok)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := auth.IssueToken("secret", uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken("other", tok)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	_, err := auth.IssueToken("", uuid.New(), time.Hour)
	assert.ErrorIs(t, err, auth.ErrMissingSecret)

	_, err = auth.ParseToken("", "whatever")
	assert.ErrorIs(t, err, auth.ErrMissingSecret)
}

func TestPrincipalCan(t *testing.T) {
	admin := &auth.Principal{Role: auth.RoleAdmin}
	cashier := &auth.Principal{Role: "cashier", Permissions: []string{auth.PermCashierOperate}}

	assert.True(t, admin.Can(auth.PermFinanceManage))
	assert.True(t, cashier.Can(auth.PermCashierOperate))
	assert.False(t, cashier.Can(auth.PermFinanceManage))

	var nobody *auth.Principal
	assert.False(t, nobody.Can(auth.PermCashierOperate))
}
