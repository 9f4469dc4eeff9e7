package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gatehouse/gatectl/internal/models"
)

// TenantBySlug fetches the public tenant record for slug
func (c *Client) TenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	resp, err := c.Get(ctx, "/tenants/by-slug/"+url.PathEscape(slug), WithoutAuth())
	if err != nil {
		return nil, err
	}

	tenant, err := Decode[models.Tenant](resp)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListTenants lists tenants for platform operators
func (c *Client) ListTenants(ctx context.Context, page models.PaginationParams) ([]models.Tenant, error) {
	if page.Limit <= 0 {
		page.Limit = 100
	}

	resp, err := c.Get(ctx, fmt.Sprintf("/tenants/?skip=%d&limit=%d", page.Skip, page.Limit))
	if err != nil {
		return nil, err
	}
	return Decode[[]models.Tenant](resp)
}
