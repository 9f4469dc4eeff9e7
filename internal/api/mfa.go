package api

import (
	"context"

	"github.com/gatehouse/gatectl/internal/models"
)

// SetupMFA asks the backend for a new TOTP secret
func (c *Client) SetupMFA(ctx context.Context) (*models.MFASetup, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.Post(ctx, "/mfa/setup", nil)
	if err != nil {
		return nil, err
	}

	setup, err := Decode[models.MFASetup](resp)
	if err != nil {
		return nil, err
	}
	return &setup, nil
}

// VerifyMFASetup enables MFA once the first code checks out
func (c *Client) VerifyMFASetup(ctx context.Context, code string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	_, err := c.Post(ctx, "/mfa/verify-setup", models.CodeRequest{Token: code})
	return err
}

// DisableMFA turns MFA off; the backend requires a valid current code
func (c *Client) DisableMFA(ctx context.Context, code string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	_, err := c.Post(ctx, "/mfa/disable", models.CodeRequest{Token: code})
	return err
}
