package security

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Error("hash should not equal plaintext")
	}
	if !CheckPassword("correct horse battery", hash) {
		t.Error("expected password to match hash")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestCSRFGenerator(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	if !g.ValidateToken("session-123", token) {
		t.Error("expected token to validate for its session")
	}
	if g.ValidateToken("session-456", token) {
		t.Error("token should not validate for a different session")
	}
	if g.ValidateToken("session-123", "bogus") {
		t.Error("bogus token should not validate")
	}
	if g.ValidateToken("", token) {
		t.Error("empty session should not validate")
	}

	other := NewCSRFGenerator("other-secret")
	if other.ValidateToken("session-123", token) {
		t.Error("token should not validate under a different secret")
	}
}

func TestGenerateTokenRequiresSession(t *testing.T) {
	g := NewCSRFGenerator("test-secret")
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("expected error for empty session ID")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, 2)

	if !rl.Allow("1.2.3.4") {
		t.Error("first request should be allowed")
	}
	if !rl.Allow("1.2.3.4") {
		t.Error("second request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("different IP should have its own bucket")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 1)
	rl.Allow("1.2.3.4")

	rl.mu.Lock()
	rl.clients["1.2.3.4"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.Cleanup()

	rl.mu.Lock()
	_, ok := rl.clients["1.2.3.4"]
	rl.mu.Unlock()
	if ok {
		t.Error("expected stale client to be evicted")
	}
}

func TestStreamTokenRoundTrip(t *testing.T) {
	issuer := NewStreamTokenIssuer("stream-secret", 5*time.Minute)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}
}

func TestStreamTokenRejectsExpired(t *testing.T) {
	issuer := NewStreamTokenIssuer("stream-secret", -time.Minute)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestStreamTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewStreamTokenIssuer("stream-secret", 5*time.Minute)
	other := NewStreamTokenIssuer("other-secret", 5*time.Minute)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}
