package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestCodec() *Codec {
	return NewCodec("test-secret", 15*time.Minute, 72*time.Hour, 48*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	c := newTestCodec()
	tok, err := c.IssueAccess("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := c.Decode(tok, ScopeAccess)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "a@x.com" {
		t.Fatalf("subject = %q, want a@x.com", sub)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	c := newTestCodec()
	issued := time.Now().Add(-16 * time.Minute)
	c.now = func() time.Time { return issued }
	tok, err := c.IssueAccess("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	c.now = time.Now
	if _, err := c.Decode(tok, ScopeAccess); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestScopeIsolation(t *testing.T) {
	c := newTestCodec()
	refresh, err := c.IssueRefresh("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode(refresh, ScopeAccess); !errors.Is(err, ErrTokenScope) {
		t.Fatalf("err = %v, want ErrTokenScope", err)
	}
	access, _ := c.IssueAccess("a@x.com")
	if _, err := c.Decode(access, ScopeRefresh); !errors.Is(err, ErrTokenScope) {
		t.Fatalf("err = %v, want ErrTokenScope", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	c := newTestCodec()
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := c.Decode(raw, ScopeAccess); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Decode(%q) err = %v, want ErrTokenMalformed", raw, err)
		}
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	c := newTestCodec()
	other := NewCodec("other-secret", 15*time.Minute, 72*time.Hour, 48*time.Hour)
	tok, _ := other.IssueAccess("a@x.com")
	if _, err := c.Decode(tok, ScopeAccess); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("err = %v, want ErrTokenMalformed", err)
	}
}

func TestRefreshMintsNewPair(t *testing.T) {
	c := newTestCodec()
	refresh, err := c.IssueRefresh("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	newAccess, newRefresh, sub, err := c.Refresh(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "a@x.com" {
		t.Fatalf("subject = %q, want a@x.com", sub)
	}
	if s, err := c.Decode(newAccess, ScopeAccess); err != nil || s != "a@x.com" {
		t.Fatalf("new access round trip: sub=%q err=%v", s, err)
	}
	if s, err := c.Decode(newRefresh, ScopeRefresh); err != nil || s != "a@x.com" {
		t.Fatalf("new refresh round trip: sub=%q err=%v", s, err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	c := newTestCodec()
	access, _ := c.IssueAccess("a@x.com")
	if _, _, _, err := c.Refresh(access); !errors.Is(err, ErrTokenScope) {
		t.Fatalf("err = %v, want ErrTokenScope", err)
	}
}

func TestResetTokenSoftVerify(t *testing.T) {
	c := newTestCodec()
	tok, err := c.IssueResetToken("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if sub := c.VerifyResetToken(tok); sub != "a@x.com" {
		t.Fatalf("subject = %q, want a@x.com", sub)
	}
	// any failure yields "", never an error
	if sub := c.VerifyResetToken("garbage"); sub != "" {
		t.Fatalf("subject = %q, want empty", sub)
	}
	expired := NewCodec("test-secret", time.Minute, time.Minute, -time.Hour)
	tok, _ = expired.IssueResetToken("a@x.com")
	if sub := c.VerifyResetToken(tok); sub != "" {
		t.Fatalf("subject = %q for expired token, want empty", sub)
	}
}
