package auth

import (
	"context"
	"time"

	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
)

// ScopeMemoryReadWrite is the scope claim required for all memory API calls
const ScopeMemoryReadWrite = "memory:read:write"

// Access is the request-scoped tenant binding established by the HTTP
// authentication middleware. It lives only in the request context; there is
// no process-global tenant state.
type Access struct {
	TenantID  types.TenantID
	Scope     string
	ExpiresAt time.Time
}

type ctxAccessKey struct{}

// ContextWithAccess binds a resolved tenant access to the context
func ContextWithAccess(ctx context.Context, access *Access) context.Context {
	return context.WithValue(ctx, ctxAccessKey{}, access)
}

// AccessFromContext returns the bound access, or nil when the context
// carries none. Callers treat nil as deny.
func AccessFromContext(ctx context.Context) *Access {
	access, ok := ctx.Value(ctxAccessKey{}).(*Access)
	if !ok {
		return nil
	}
	return access
}
