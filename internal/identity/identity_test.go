package identity

import "testing"

func TestStatic(t *testing.T) {
	id := NewStatic("  Budi ")
	user, ok := id.CurrentUser()
	if !ok || user != "budi" {
		t.Fatalf("CurrentUser = %q, %v; want budi, true", user, ok)
	}

	id.SignOut()
	if _, ok := id.CurrentUser(); ok {
		t.Error("expected no user after SignOut")
	}

	id.SignIn("siti")
	if user, _ := id.CurrentUser(); user != "siti" {
		t.Errorf("CurrentUser = %q, want siti", user)
	}

	var zero Static
	if _, ok := zero.CurrentUser(); ok {
		t.Error("zero Static should have no user")
	}
}
