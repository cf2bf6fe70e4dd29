package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"USER", RoleUser, false},
		{"admin", RoleAdmin, false},
		{"ROLE_ADMIN", RoleAdmin, false},
		{" role_user ", RoleUser, false},
		{"", 0, true},
		{"SUPERUSER", 0, true},
		{"ROLE_", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleForms(t *testing.T) {
	assert.Equal(t, "ADMIN", RoleAdmin.String())
	assert.Equal(t, "ROLE_USER", RoleUser.Authority())
	assert.False(t, Role(0).Valid())
}

func TestRoleJSON(t *testing.T) {
	var payload struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &payload))
	assert.Equal(t, RoleAdmin, payload.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &payload))

	_, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{})
	assert.Error(t, err)
}
