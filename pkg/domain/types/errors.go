package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures for HTTP mapping and monitoring. TagIsolation
// marks security-relevant events that must never be downgraded to a routine
// miss in logs, even though callers see the same result as "not found".
var (
	TagAuthn      = goerr.NewTag("authn")
	TagAuthz      = goerr.NewTag("authz")
	TagIsolation  = goerr.NewTag("tenant_isolation")
	TagValidation = goerr.NewTag("validation")
	TagConflict   = goerr.NewTag("conflict")
	TagNotFound   = goerr.NewTag("not_found")
	TagDependency = goerr.NewTag("dependency")
)

// Sentinel errors for the core error taxonomy
var (
	// ErrAuthentication indicates a missing, malformed, or expired credential
	ErrAuthentication = goerr.New("authentication failed", goerr.T(TagAuthn))

	// ErrAuthorization indicates a well-formed credential that does not map
	// to a known tenant
	ErrAuthorization = goerr.New("tenant not authorized", goerr.T(TagAuthz))

	// ErrTenantIsolation indicates a storage-layer cross-tenant access
	// attempt. Always logged as a security event.
	ErrTenantIsolation = goerr.New("cross-tenant access denied", goerr.T(TagIsolation))

	// ErrValidation indicates malformed input such as an out-of-range score
	ErrValidation = goerr.New("validation failed", goerr.T(TagValidation))

	// ErrConflict indicates a uniqueness violation such as a duplicate
	// summary for a call ID
	ErrConflict = goerr.New("record already exists", goerr.T(TagConflict))

	// ErrNotFound indicates legitimate absence, distinguished from an
	// isolation denial
	ErrNotFound = goerr.New("record not found", goerr.T(TagNotFound))

	// ErrDependencyTimeout indicates the external text-generation capability
	// exceeded its budget. Recoverable; never surfaced past the extraction
	// engine.
	ErrDependencyTimeout = goerr.New("external dependency timed out", goerr.T(TagDependency))
)
