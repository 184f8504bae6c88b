// Package actor carries the authenticated caller identity through the engine.
//
// Authentication happens upstream; the engine trusts the forwarded context and
// enforces authorization purely through the status transition tables.
package actor

import "strings"

// Role identifies the capability class of the caller.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleSales     Role = "sales"
	RoleWarehouse Role = "warehouse"
	RoleAPI       Role = "api"
	RoleSystem    Role = "system"
	// RoleAdmin is the universal override role: every transition edge accepts it.
	RoleAdmin Role = "admin"
)

// Context identifies who is performing an operation and for which tenant.
type Context struct {
	TenantID string
	ActorID  string
	Role     Role
}

// Valid reports whether the context carries the minimum identity the engine requires.
func (c Context) Valid() bool {
	return strings.TrimSpace(c.TenantID) != "" && c.Role.Known()
}

// Known reports whether the role belongs to the engine's vocabulary.
func (r Role) Known() bool {
	switch r {
	case RoleCustomer, RoleSales, RoleWarehouse, RoleAPI, RoleSystem, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string form of the role.
func (r Role) String() string { return string(r) }
