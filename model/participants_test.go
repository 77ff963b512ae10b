package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"FARMER", RoleFarmer},
		{"farmer", RoleFarmer},
		{" Retailer ", RoleRetailer},
		{"0", RoleAdmin},
		{"1", RoleFarmer},
		{"2", RoleDistributor},
		{"3", RoleRetailer},
		{"4", RoleConsumer},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "auditor", "5", "-1"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, bad)
	}
}

func TestRolesAreValid(t *testing.T) {
	roles := Roles()
	assert.Len(t, roles, 5)
	for _, r := range roles {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("NONE").Valid())
}
