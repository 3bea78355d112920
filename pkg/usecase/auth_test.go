package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model/auth"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/repository/memory"
	"github.com/voiceops-lab/mnemosyne/pkg/usecase"
)

var testSecret = []byte("test-secret-0123456789abcdef")

func signTestToken(t *testing.T, claims map[string]any, ttl time.Duration) string {
	t.Helper()

	now := time.Now().UTC()
	builder := jwt.NewBuilder().IssuedAt(now).Expiration(now.Add(ttl))
	for k, v := range claims {
		builder = builder.Claim(k, v)
	}
	tok, err := builder.Build()
	gt.NoError(t, err).Required()

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, testSecret))
	gt.NoError(t, err).Required()
	return string(signed)
}

func TestResolveTenantRoundTrip(t *testing.T) {
	uc := newTestUseCases(memory.New())
	ctx := context.Background()

	token, err := uc.IssueToken(ctx, testTenant)
	gt.NoError(t, err).Required()

	access, err := uc.ResolveTenant(ctx, token)
	gt.NoError(t, err).Required()
	gt.Value(t, access.TenantID).Equal(testTenant)
	gt.Value(t, access.Scope).Equal(auth.ScopeMemoryReadWrite)
	gt.Bool(t, access.ExpiresAt.After(time.Now())).True()
}

func TestResolveTenantRejectsEmptyCredential(t *testing.T) {
	uc := newTestUseCases(memory.New())

	_, err := uc.ResolveTenant(context.Background(), "")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthentication)).True()
}

func TestResolveTenantRejectsGarbage(t *testing.T) {
	uc := newTestUseCases(memory.New())

	_, err := uc.ResolveTenant(context.Background(), "not.a.jwt")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthentication)).True()
}

func TestResolveTenantRejectsWrongSignature(t *testing.T) {
	uc := newTestUseCases(memory.New())

	other := usecase.New(memory.New(), newTestRegistry(), []byte("another-secret-fedcba9876543210"))
	token, err := other.IssueToken(context.Background(), testTenant)
	gt.NoError(t, err).Required()

	_, err = uc.ResolveTenant(context.Background(), token)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthentication)).True()
}

func TestResolveTenantRejectsExpiredToken(t *testing.T) {
	uc := newTestUseCases(memory.New())
	token := signTestToken(t, map[string]any{
		"customer_id": string(testTenant),
		"scope":       auth.ScopeMemoryReadWrite,
	}, -time.Minute)

	_, err := uc.ResolveTenant(context.Background(), token)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthentication)).True()
}

func TestResolveTenantRejectsMissingScope(t *testing.T) {
	uc := newTestUseCases(memory.New())
	token := signTestToken(t, map[string]any{
		"customer_id": string(testTenant),
	}, time.Hour)

	_, err := uc.ResolveTenant(context.Background(), token)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthorization)).True()
}

func TestResolveTenantRejectsWrongScope(t *testing.T) {
	uc := newTestUseCases(memory.New())
	token := signTestToken(t, map[string]any{
		"customer_id": string(testTenant),
		"scope":       "memory:read",
	}, time.Hour)

	_, err := uc.ResolveTenant(context.Background(), token)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthorization)).True()
}

func TestResolveTenantRejectsUnknownTenant(t *testing.T) {
	uc := newTestUseCases(memory.New())
	token := signTestToken(t, map[string]any{
		"customer_id": "globex",
		"scope":       auth.ScopeMemoryReadWrite,
	}, time.Hour)

	_, err := uc.ResolveTenant(context.Background(), token)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrAuthorization)).True()
}

func TestResolveTenantNumericClaim(t *testing.T) {
	registry := model.NewTenantRegistry()
	registry.Register(&model.Tenant{ID: "42", Name: "Numeric Tenant"})
	uc := usecase.New(memory.New(), registry, testSecret)

	token := signTestToken(t, map[string]any{
		"customer_id": 42,
		"scope":       auth.ScopeMemoryReadWrite,
	}, time.Hour)

	access, err := uc.ResolveTenant(context.Background(), token)
	gt.NoError(t, err).Required()
	gt.Value(t, access.TenantID).Equal(types.TenantID("42"))
}

func TestIssueTokenUnknownTenant(t *testing.T) {
	uc := newTestUseCases(memory.New())

	_, err := uc.IssueToken(context.Background(), "globex")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, model.ErrTenantNotFound)).True()
}
