package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/tenant"
	"github.com/gatehouse/gatectl/internal/utils"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) TenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func TestResolveBySlugCachesResult(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("TenantBySlug", mock.Anything, "green-acres").
		Return(&models.Tenant{ID: 1, Slug: "green-acres", Name: "Green Acres", IsActive: true}, nil).Once()

	r := tenant.NewResolver(fetcher)
	first, err := r.ResolveBySlug(context.Background(), "Green-Acres")
	require.NoError(t, err)
	assert.Equal(t, "Green Acres", first.Name)

	first.Name = "mutated"
	second, err := r.ResolveBySlug(context.Background(), "green-acres")
	require.NoError(t, err)
	assert.Equal(t, "Green Acres", second.Name)
	fetcher.AssertExpectations(t)

	r.Forget("green-acres")
	fetcher.On("TenantBySlug", mock.Anything, "green-acres").
		Return(&models.Tenant{ID: 1, Slug: "green-acres", Name: "Renamed", IsActive: true}, nil).Once()
	third, err := r.ResolveBySlug(context.Background(), "green-acres")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", third.Name)
}

func TestResolveBySlugNotFound(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("TenantBySlug", mock.Anything, "nowhere").
		Return(nil, utils.NewAPIError(http.StatusNotFound, "Tenant not found", utils.KindValidation)).Once()

	_, err := tenant.NewResolver(fetcher).ResolveBySlug(context.Background(), "nowhere")
	assert.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestResolveBySlugInactive(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("TenantBySlug", mock.Anything, "closed").
		Return(&models.Tenant{ID: 3, Slug: "closed", IsActive: false}, nil).Twice()

	r := tenant.NewResolver(fetcher)
	_, err := r.ResolveBySlug(context.Background(), "closed")
	assert.ErrorIs(t, err, tenant.ErrInactive)

	// inactive tenants are not cached
	_, err = r.ResolveBySlug(context.Background(), "closed")
	assert.ErrorIs(t, err, tenant.ErrInactive)
	fetcher.AssertExpectations(t)
}

func TestResolveBySlugPassesOtherErrorsThrough(t *testing.T) {
	fetcher := &MockFetcher{}
	boom := errors.New("request failed")
	fetcher.On("TenantBySlug", mock.Anything, "ga").Return(nil, boom).Once()

	_, err := tenant.NewResolver(fetcher).ResolveBySlug(context.Background(), "ga")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, tenant.ErrNotFound)
}

func TestResolveBySlugValidatesSlug(t *testing.T) {
	fetcher := &MockFetcher{}
	_, err := tenant.NewResolver(fetcher).ResolveBySlug(context.Background(), "bad slug!")
	var verr *utils.ValidationError
	assert.ErrorAs(t, err, &verr)
	fetcher.AssertNotCalled(t, "TenantBySlug", mock.Anything, mock.Anything)
}

func TestSlugFromHost(t *testing.T) {
	cases := []struct {
		host, override, want string
	}{
		{"localhost", "", "default"},
		{"localhost:3000", "", "default"},
		{"127.0.0.1", "", "default"},
		{"192.168.1.20:8080", "", "default"},
		{"portal.com", "", "default"},
		{"green-acres.portal.com", "", "green-acres"},
		{"Hillside.Portal.com", "", "hillside"},
		{"green-acres.portal.com", "override", "override"},
		{"", "", "default"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tenant.SlugFromHost(tc.host, tc.override), tc.host)
	}
}

func TestBranding(t *testing.T) {
	b := tenant.BrandingOf(&models.Tenant{Name: "GA", PrimaryColor: "#ff8000", AccentColor: "#abc"})
	assert.Equal(t, tenant.RGB{R: 255, G: 128, B: 0}, b.Primary)
	assert.Equal(t, tenant.RGB{R: 0xaa, G: 0xbb, B: 0xcc}, b.Accent)

	fallback := tenant.BrandingOf(&models.Tenant{PrimaryColor: "teal"})
	def, err := tenant.ParseHexColor(tenant.DefaultPrimaryColor)
	require.NoError(t, err)
	assert.Equal(t, def, fallback.Primary)

	_, err = tenant.ParseHexColor("#12345z")
	assert.Error(t, err)
}
