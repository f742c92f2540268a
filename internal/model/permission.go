package model

import (
	"fmt"
	"strings"
)

// Permission is a level in the total order VIEW < DOWNLOAD < EDIT.
// The zero value is no permission at all.
type Permission int

const (
	PermissionView     Permission = 1
	PermissionDownload Permission = 2
	PermissionEdit     Permission = 3
)

var permissionNames = map[Permission]string{
	PermissionView:     "VIEW",
	PermissionDownload: "DOWNLOAD",
	PermissionEdit:     "EDIT",
}

func (p Permission) String() string {
	if s, ok := permissionNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Permission(%d)", int(p))
}

func (p Permission) Valid() bool {
	return p >= PermissionView && p <= PermissionEdit
}

// Includes reports whether holding p also grants other.
func (p Permission) Includes(other Permission) bool {
	return p.Valid() && other.Valid() && p >= other
}

// ParsePermission accepts the canonical names case-insensitively.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VIEW":
		return PermissionView, nil
	case "DOWNLOAD":
		return PermissionDownload, nil
	case "EDIT":
		return PermissionEdit, nil
	}
	return 0, fmt.Errorf("unknown permission %q", s)
}

func (p Permission) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid permission %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Permission) UnmarshalText(b []byte) error {
	v, err := ParsePermission(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Capability is the set of permissions an actor holds on a document.
type Capability uint8

const FullCapability = Capability(1<<PermissionView | 1<<PermissionDownload | 1<<PermissionEdit)

// CapabilityUpTo returns every permission at or below p.
func CapabilityUpTo(p Permission) Capability {
	var c Capability
	for lvl := PermissionView; lvl <= PermissionEdit; lvl++ {
		if p.Includes(lvl) {
			c |= 1 << lvl
		}
	}
	return c
}

func (c Capability) Allows(p Permission) bool {
	return p.Valid() && c&(1<<p) != 0
}

func (c Capability) Empty() bool {
	return c == 0
}

// Permissions lists the held permissions in ascending order.
func (c Capability) Permissions() []Permission {
	out := make([]Permission, 0, 3)
	for lvl := PermissionView; lvl <= PermissionEdit; lvl++ {
		if c.Allows(lvl) {
			out = append(out, lvl)
		}
	}
	return out
}
