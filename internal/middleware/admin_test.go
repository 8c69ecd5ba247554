package middleware

import "testing"

func TestAdminTokenDeterministic(t *testing.T) {
	a := AdminToken("secret-one")
	b := AdminToken("secret-one")
	if a != b {
		t.Error("same secret should produce the same token")
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
}

func TestAdminTokenRotatesWithSecret(t *testing.T) {
	if AdminToken("secret-one") == AdminToken("secret-two") {
		t.Error("different secrets should produce different tokens")
	}
}
