package api

import (
	"strings"
	"testing"
)

func TestCookieSealerRoundTripAndPurposeBinding(t *testing.T) {
	sealer, err := newCookieSealer([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}

	sealed, err := sealer.sealJSON("session", map[string]string{"email": "user1@gmail.com"})
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if strings.Contains(sealed, "user1") {
		t.Fatal("sealed value leaks plaintext")
	}

	var opened map[string]string
	if err := sealer.openJSON("session", sealed, &opened); err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened["email"] != "user1@gmail.com" {
		t.Fatalf("unexpected payload %#v", opened)
	}

	if err := sealer.openJSON("signup", sealed, &opened); err != errSealedCookie {
		t.Fatalf("expected purpose mismatch to fail, got %v", err)
	}
}

func TestCookieSealerRejectsTamperedValues(t *testing.T) {
	sealer, err := newCookieSealer([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	sealed, err := sealer.sealJSON("session", map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	middle := len(sealed) / 2
	flipped := byte('A')
	if sealed[middle] == 'A' {
		flipped = 'B'
	}
	tampered := sealed[:middle] + string(flipped) + sealed[middle+1:]
	for _, raw := range []string{"", "p2.", "v1." + sealed[3:], tampered, "p2.!!!"} {
		var dest map[string]int
		if err := sealer.openJSON("session", raw, &dest); err != errSealedCookie {
			t.Errorf("openJSON(%q) = %v, want errSealedCookie", raw, err)
		}
	}

	other, err := newCookieSealer([]byte(strings.Repeat("z", 32)))
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	var dest map[string]int
	if err := other.openJSON("session", sealed, &dest); err != errSealedCookie {
		t.Fatalf("expected foreign secret to fail, got %v", err)
	}
}

func TestNewCookieSealerRequiresSecret(t *testing.T) {
	if _, err := newCookieSealer([]byte("short")); err == nil {
		t.Fatal("expected short secret to be rejected")
	}
}
