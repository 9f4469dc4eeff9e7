package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gatehouse/gatectl/internal/models"
)

// Login posts credentials to /login/access-token. The result is either a
// DirectToken or an MFARequired challenge.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.Post(ctx, "/login/access-token", form, WithoutAuth())
	if err != nil {
		return nil, err
	}
	return models.ParseLoginResult(resp.Data)
}

// MFALogin exchanges a temp_token and a TOTP code for a session token
func (c *Client) MFALogin(ctx context.Context, tempToken, code string) (string, error) {
	resp, err := c.Post(ctx, "/mfa/login", models.MFALoginRequest{TempToken: tempToken, Token: code}, WithoutAuth())
	if err != nil {
		return "", err
	}

	token, err := Decode[models.TokenResponse](resp)
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("MFA login response has no access_token")
	}
	return token.AccessToken, nil
}

// CurrentUser fetches the principal owning token. The token does not need to
// be the stored one yet.
func (c *Client) CurrentUser(ctx context.Context, token string) (*models.Principal, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	resp, err := c.Get(ctx, "/users/me", WithToken(token))
	if err != nil {
		return nil, err
	}

	principal, err := Decode[models.Principal](resp)
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

// ChangePassword changes the password of the current principal
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*models.Principal, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.Post(ctx, "/users/change-password", models.PasswordChange{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return nil, err
	}

	principal, err := Decode[models.Principal](resp)
	if err != nil {
		return nil, err
	}
	return &principal, nil
}
