package model

import "time"

// SharedAccess grants a non-owner a permission on a document, optionally until ExpiresAt.
type SharedAccess struct {
	DocumentID string     `json:"document_id"`
	GranteeID  string     `json:"grantee_id"`
	Permission Permission `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsExpired reports whether the grant is inert at now. A nil ExpiresAt never expires.
func (s *SharedAccess) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Capability is empty for expired grants.
func (s *SharedAccess) Capability(now time.Time) Capability {
	if s.IsExpired(now) {
		return 0
	}
	return CapabilityUpTo(s.Permission)
}
