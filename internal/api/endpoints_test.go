package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatectl/internal/api"
	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/tokenstore"
)

func TestLoginSendsFormAndParsesDirectToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login/access-token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a@b.com", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"access_token": "tok", "token_type": "bearer"})
	})

	client := api.NewClient(srv.URL, tokenstore.NewMemoryStore())
	result, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.DirectToken{AccessToken: "tok", TokenType: "bearer"}, result)
}

func TestLoginParsesMFAChallenge(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"mfa_required": true, "temp_token": "tmp123"})
	})

	client := api.NewClient(srv.URL, tokenstore.NewMemoryStore())
	result, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.MFARequired{TempToken: "tmp123"}, result)
}

func TestMFALoginExchangesTempToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.MFALoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.TempToken != "tmp123" || req.Token != "654321" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid code"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "real", "token_type": "bearer"})
	})

	client := api.NewClient(srv.URL, tokenstore.NewMemoryStore())

	_, err := client.MFALogin(context.Background(), "tmp123", "000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid code")

	token, err := client.MFALogin(context.Background(), "tmp123", "654321")
	require.NoError(t, err)
	assert.Equal(t, "real", token)
}

func TestCurrentUserUsesGivenToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": 7, "email": "a@b.com", "full_name": "Ada", "role": "resident", "is_active": true,
			"house_address": "12 Msasa Rd",
		})
	})

	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Set("old"))
	client := api.NewClient(srv.URL, tokens)

	principal, err := client.CurrentUser(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, models.RoleResident, principal.Role)
	assert.Equal(t, "12 Msasa Rd", principal.HouseAddress)

	_, err = client.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
}

func TestMFAEndpointsRequireToken(t *testing.T) {
	calls := 0
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/mfa/setup":
			writeJSON(w, http.StatusOK, models.MFASetup{Secret: "JBSWY3DPEHPK3PXP", OTPAuthURL: "otpauth://totp/GatedCommunity:a@b.com?secret=JBSWY3DPEHPK3PXP"})
		case "/mfa/verify-setup", "/mfa/disable":
			var req models.CodeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Token != "123456" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid OTP code"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		}
	})

	tokens := tokenstore.NewMemoryStore()
	client := api.NewClient(srv.URL, tokens)
	ctx := context.Background()

	_, err := client.SetupMFA(ctx)
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
	assert.ErrorIs(t, client.VerifyMFASetup(ctx, "123456"), api.ErrNotAuthenticated)
	assert.ErrorIs(t, client.DisableMFA(ctx, "123456"), api.ErrNotAuthenticated)
	assert.Zero(t, calls)

	require.NoError(t, tokens.Set("tok"))
	setup, err := client.SetupMFA(ctx)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", setup.Secret)

	assert.NoError(t, client.VerifyMFASetup(ctx, "123456"))
	err = client.DisableMFA(ctx, "000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OTP code")
}

func TestTenantEndpoints(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tenants/by-slug/green-acres":
			writeJSON(w, http.StatusOK, models.Tenant{ID: 1, Slug: "green-acres", Name: "Green Acres", IsActive: true, PrimaryColor: "#0ea5e9"})
		case "/tenants/":
			assert.Equal(t, "10", r.URL.Query().Get("skip"))
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, []models.Tenant{{ID: 1, Slug: "green-acres"}, {ID: 2, Slug: "hillside"}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Tenant not found"})
		}
	})

	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Set("tok"))
	client := api.NewClient(srv.URL, tokens)
	ctx := context.Background()

	tenant, err := client.TenantBySlug(ctx, "green-acres")
	require.NoError(t, err)
	assert.Equal(t, "Green Acres", tenant.Name)

	tenants, err := client.ListTenants(ctx, models.PaginationParams{Skip: 10})
	require.NoError(t, err)
	assert.Len(t, tenants, 2)

	_, err = client.TenantBySlug(ctx, "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tenant not found")
}

func TestChangePassword(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordChange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "old-pass", req.CurrentPassword)
		assert.Equal(t, "new-password", req.NewPassword)
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "email": "a@b.com", "role": "admin", "is_password_changed": true})
	})

	tokens := tokenstore.NewMemoryStore()
	client := api.NewClient(srv.URL, tokens)

	_, err := client.ChangePassword(context.Background(), "old-pass", "new-password")
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)

	require.NoError(t, tokens.Set("tok"))
	principal, err := client.ChangePassword(context.Background(), "old-pass", "new-password")
	require.NoError(t, err)
	assert.True(t, principal.IsPasswordChanged)
}
