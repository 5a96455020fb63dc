package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	g := NewGate([]string{" Root@Vex.io "})

	cases := []struct {
		name   string
		id     Identity
		action string
		module string
		want   bool
	}{
		{"user não convida", Identity{Role: "user"}, "invite_user", "core", false},
		{"user muda lead", Identity{Role: "user"}, "change_lead_status", "crm", true},
		{"admin convida", Identity{Role: "Admin"}, "invite_user", "core", true},
		{"owner reseta senha", Identity{Role: "owner"}, "reset_password", "core", true},
		{"papel desconhecido", Identity{Role: "guest"}, "create_client", "crm", false},
		{"módulo desconhecido usa piso user", Identity{Role: "user"}, "anything", "flows", true},
		{"superadmin por papel", Identity{Role: "superadmin"}, "invite_user", "core", true},
		{"superadmin por flag", Identity{Role: "guest", Superadmin: true}, "invite_user", "core", true},
		{"superadmin por email", Identity{Role: "user", Email: "root@vex.io"}, "invite_user", "core", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.CanPerform(tc.id, tc.action, tc.module))
		})
	}
}

func TestRank(t *testing.T) {
	assert.Less(t, Rank("user"), Rank("admin"))
	assert.Less(t, Rank("admin"), Rank("owner"))
	assert.Less(t, Rank("owner"), Rank("superadmin"))
	assert.Equal(t, 0, Rank(""))
}
