package telegram

import "testing"

func TestLinkSignerRoundTrip(t *testing.T) {
	signer := NewLinkSigner("test-secret")

	token, err := signer.Sign("hh-42")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	householdID, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if householdID != "hh-42" {
		t.Errorf("Expected household hh-42, got %q", householdID)
	}
}

func TestLinkSignerRejectsWrongSecret(t *testing.T) {
	token, err := NewLinkSigner("secret-a").Sign("hh-42")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := NewLinkSigner("secret-b").Verify(token); err == nil {
		t.Error("Expected verification to fail with a different secret")
	}
}

func TestLinkSignerRejectsGarbage(t *testing.T) {
	if _, err := NewLinkSigner("secret").Verify("not-a-token"); err == nil {
		t.Error("Expected verification to fail for a malformed token")
	}
}
