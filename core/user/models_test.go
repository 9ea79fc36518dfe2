package user

import "testing"

func TestUser_SetPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if len(usr.PasswordHash) == 0 {
		t.Fatal("SetPassword() did not set a hash")
	}
	if err := usr.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword() failed on the right password: %v", err)
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() passed on a wrong password")
	}
}

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{name: "no roles"},
		{name: "member", roles: []string{RoleMember}},
		{name: "expert", roles: []string{RoleExpert}},
		{name: "admin", roles: []string{RoleAdmin}, want: true},
		{name: "owner", roles: []string{RoleMember, RoleAdminOwner}, want: true},
		{name: "all roles", roles: AllRoles, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := User{Roles: tt.roles}
			if got := usr.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
