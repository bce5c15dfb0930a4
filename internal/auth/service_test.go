package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
)

func TestService_Exchange(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		upstream  string
		setupMock func(m *auth.MockUserLookup)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			upstream: "supabase-token",
			setupMock: func(m *auth.MockUserLookup) {
				m.EXPECT().GetUser(gomock.Any(), "supabase-token").Return(&auth.User{ID: userID, Email: "ana@example.com"}, nil)
			},
		},
		{
			name:     "InvalidUpstream",
			upstream: "bad",
			setupMock: func(m *auth.MockUserLookup) {
				m.EXPECT().GetUser(gomock.Any(), "bad").Return(nil, auth.ErrInvalidToken)
			},
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:     "MissingUpstream",
			upstream: "",
			wantErr:  auth.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := auth.NewMockUserLookup(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(users)
			}

			svc := auth.NewService(users, auth.NewIssuer("secret", "supabase", time.Hour), auth.NewMemoryCache(), metrics.New())

			got, err := svc.Exchange(context.Background(), tt.upstream)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			claims, err := svc.Verify(got.Token)
			require.NoError(t, err)
			assert.Equal(t, userID.String(), claims.Subject)
		})
	}
}

func TestService_ExchangeReusesSessionUntilLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	users := auth.NewMockUserLookup(ctrl)
	users.EXPECT().GetUser(gomock.Any(), gomock.Any()).Return(&auth.User{ID: userID}, nil).Times(3)

	svc := auth.NewService(users, auth.NewIssuer("secret", "supabase", time.Hour), auth.NewMemoryCache(), nil)
	ctx := context.Background()

	first, err := svc.Exchange(ctx, "t1")
	require.NoError(t, err)

	second, err := svc.Exchange(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)

	require.NoError(t, svc.Logout(ctx, userID))

	third, err := svc.Exchange(ctx, "t3")
	require.NoError(t, err)
	assert.False(t, third.ExpiresAt.Before(first.ExpiresAt))
}

func TestProvider_GetUser(t *testing.T) {
	userID := uuid.New()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{"id": userID, "email": "ana@example.com"})
	}))
	defer ts.Close()

	p := auth.NewProvider(ts.URL+"/", "anon-key", time.Second)

	user, err := p.GetUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)

	_, err = p.GetUser(context.Background(), "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewIssuer("secret", "supabase", time.Hour)
	svc := auth.NewService(nil, issuer, auth.NewMemoryCache(), nil)

	userID := uuid.New()
	token, _, err := issuer.Issue(userID)
	require.NoError(t, err)

	h := auth.Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, userID.String(), claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	}))

	type testCase struct {
		name   string
		header string
		want   int
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "Missing", header: "", want: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Token " + token, want: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer nope", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/kpis", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
