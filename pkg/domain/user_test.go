package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Admin", RoleAdmin},
		{" ADMIN ", RoleAdmin},
		{"student", RoleStudent},
		{"", RoleStudent},
		{"tutor", RoleStudent},
	}
	for _, tc := range tests {
		if got := ParseRole(tc.in); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Chioma", LastName: "Obi"}
	if got := u.FullName(); got != "Chioma Obi" {
		t.Errorf("FullName() = %q, want %q", got, "Chioma Obi")
	}

	u = User{FirstName: "Chioma"}
	if got := u.FullName(); got != "Chioma" {
		t.Errorf("FullName() with empty last name = %q, want %q", got, "Chioma")
	}

	u = User{}
	if got := u.FullName(); got != "" {
		t.Errorf("FullName() on zero user = %q, want empty", got)
	}
}
