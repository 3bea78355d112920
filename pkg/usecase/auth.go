package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/model/auth"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// tenantClaim is the JWT claim carrying the tenant identifier
const tenantClaim = "customer_id"

// ResolveTenant validates a tenant credential and returns the access it
// grants. Malformed, unsigned, or expired credentials are authentication
// failures; a valid credential naming a tenant outside the registry is an
// authorization failure. The result is request-scoped: callers bind it to
// the request context and never store it globally.
func (uc *UseCases) ResolveTenant(ctx context.Context, credential string) (*auth.Access, error) {
	if credential == "" {
		return nil, goerr.Wrap(types.ErrAuthentication, "credential is required")
	}

	tok, err := jwt.Parse([]byte(credential),
		jwt.WithKey(jwa.HS256, uc.authSecret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, goerr.Wrap(types.ErrAuthentication, "invalid credential", goerr.V("reason", err.Error()))
	}

	rawTenant, ok := tok.Get(tenantClaim)
	if !ok {
		return nil, goerr.Wrap(types.ErrAuthentication, "credential has no tenant claim")
	}
	tenantID, err := tenantIDFromClaim(rawTenant)
	if err != nil {
		return nil, err
	}

	scope := ""
	if rawScope, ok := tok.Get("scope"); ok {
		scope, _ = rawScope.(string)
	}
	if scope != auth.ScopeMemoryReadWrite {
		return nil, goerr.Wrap(types.ErrAuthorization, "credential lacks required scope",
			goerr.V("scope", scope))
	}

	if _, err := uc.registry.Get(tenantID); err != nil {
		return nil, goerr.Wrap(types.ErrAuthorization, "unknown tenant",
			goerr.V("tenant", tenantID))
	}

	return &auth.Access{
		TenantID:  tenantID,
		Scope:     scope,
		ExpiresAt: tok.Expiration(),
	}, nil
}

// tenantIDFromClaim normalizes the tenant claim. Older issuers encoded the
// tenant as a JSON number.
func tenantIDFromClaim(raw any) (types.TenantID, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", goerr.Wrap(types.ErrAuthentication, "empty tenant claim")
		}
		return types.TenantID(v), nil
	case float64:
		return types.TenantID(fmt.Sprintf("%d", int64(v))), nil
	case int64:
		return types.TenantID(fmt.Sprintf("%d", v)), nil
	case json.Number:
		return types.TenantID(v.String()), nil
	default:
		return "", goerr.Wrap(types.ErrAuthentication, "unsupported tenant claim type",
			goerr.V("type", fmt.Sprintf("%T", raw)))
	}
}

// IssueToken mints an HS256 credential for a tenant. Used by the token CLI
// command for operators and integration tests.
func (uc *UseCases) IssueToken(ctx context.Context, tenant types.TenantID) (string, error) {
	if _, err := uc.registry.Get(tenant); err != nil {
		return "", goerr.Wrap(err, "cannot issue token for unknown tenant", goerr.V("tenant", tenant))
	}

	now := time.Now().UTC()
	tok, err := jwt.NewBuilder().
		Claim(tenantClaim, string(tenant)).
		Claim("scope", auth.ScopeMemoryReadWrite).
		IssuedAt(now).
		Expiration(now.Add(uc.tokenTTL)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.authSecret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return string(signed), nil
}
