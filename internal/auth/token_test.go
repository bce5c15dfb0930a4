package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := auth.NewIssuer("secret", "supabase", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "authenticated", claims.Role)
	assert.Equal(t, "supabase", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"authenticated"}, claims.Audience)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestIssuer_ParseRejects(t *testing.T) {
	userID := uuid.New()

	valid, _, err := auth.NewIssuer("secret", "supabase", time.Hour).Issue(userID)
	require.NoError(t, err)

	expired, _, err := auth.NewIssuer("secret", "supabase", -time.Minute).Issue(userID)
	require.NoError(t, err)

	otherIssuer, _, err := auth.NewIssuer("secret", "someone-else", time.Hour).Issue(userID)
	require.NoError(t, err)

	wrongRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Role: "service_role",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "supabase",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	type testCase struct {
		name   string
		secret string
		token  string
	}

	tests := []testCase{
		{name: "WrongSecret", secret: "other", token: valid},
		{name: "Expired", secret: "secret", token: expired},
		{name: "WrongIssuer", secret: "secret", token: otherIssuer},
		{name: "WrongRole", secret: "secret", token: wrongRole},
		{name: "Garbage", secret: "secret", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.NewIssuer(tt.secret, "supabase", time.Hour).Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
