// File: model/participants.go
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role is the closed set of roles a participant can hold.
type Role string

const (
	RoleAdmin       Role = "ADMIN"       // Registers participants; granted to the identity that initialized the ledger
	RoleFarmer      Role = "FARMER"      // Registers products and records farming/harvest
	RoleDistributor Role = "DISTRIBUTOR" // Receives from farmers and logs transport
	RoleRetailer    Role = "RETAILER"    // Receives from distributors and sells
	RoleConsumer    Role = "CONSUMER"    // Confirms purchases and reviews
)

// roleOrder keeps the numeric codes used by existing clients (0 = Admin ... 4 = Consumer).
var roleOrder = []Role{RoleAdmin, RoleFarmer, RoleDistributor, RoleRetailer, RoleConsumer}

// Roles returns every valid role in code order.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range roleOrder {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts a role name in any case ("farmer", "FARMER") or its numeric code ("1").
func ParseRole(s string) (Role, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("role cannot be empty")
	}
	if code, err := strconv.Atoi(trimmed); err == nil {
		if code < 0 || code >= len(roleOrder) {
			return "", fmt.Errorf("role code %d out of range 0..%d", code, len(roleOrder)-1)
		}
		return roleOrder[code], nil
	}
	r := Role(strings.ToUpper(trimmed))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role '%s'. Valid roles: %v", s, roleOrder)
	}
	return r, nil
}

// Participant is a registered identity in the custody chain.
type Participant struct {
	ObjectType   string    `json:"objectType"`   // "Participant"
	Identity     string    `json:"identity"`     // Client identity (X.509 id on Fabric)
	Role         Role      `json:"role"`         // Single role held by this identity
	DataHash     string    `json:"dataHash"`     // Commitment to off-chain profile data
	IsActive     bool      `json:"isActive"`     // Starts true; inactive participants cannot act
	RegisteredBy string    `json:"registeredBy"` // Identity of the admin that registered this one
	RegisteredAt time.Time `json:"registeredAt"`
}
