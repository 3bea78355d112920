package types

// TenantID identifies an isolated customer account. All persisted data is
// partitioned by tenant; an empty TenantID is never a valid scope.
type TenantID string

// String returns the string representation of the tenant ID
func (t TenantID) String() string {
	return string(t)
}

// IsValid checks if the tenant ID is non-empty
func (t TenantID) IsValid() bool {
	return t != ""
}

// SubjectID identifies a caller within a tenant, typically an E.164 phone
// number. The same SubjectID may exist under multiple tenants.
type SubjectID string

// String returns the string representation of the subject ID
func (s SubjectID) String() string {
	return string(s)
}

// IsValid checks if the subject ID is non-empty
func (s SubjectID) IsValid() bool {
	return s != ""
}

// CallID identifies a single completed call, unique per tenant
type CallID string

// String returns the string representation of the call ID
func (c CallID) String() string {
	return string(c)
}
