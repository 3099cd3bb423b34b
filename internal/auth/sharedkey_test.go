package auth

import (
	"encoding/base64"
	"errors"
	"testing"
)

var testKey = base64.StdEncoding.EncodeToString([]byte("workspace shared key material"))

func TestSignVerifyRoundTrip(t *testing.T) {
	sig, err := Sign(testKey, "POST", "/v1/reports", "Mon, 31 Aug 2026 10:00:00 GMT", 1024)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := Verify(testKey, "POST", "/v1/reports", "Mon, 31 Aug 2026 10:00:00 GMT", sig, 1024); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsTamperedRequest(t *testing.T) {
	date := "Mon, 31 Aug 2026 10:00:00 GMT"
	sig, err := Sign(testKey, "POST", "/v1/reports", date, 1024)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name   string
		verify func() error
	}{
		{"different body length", func() error {
			return Verify(testKey, "POST", "/v1/reports", date, sig, 1025)
		}},
		{"different date", func() error {
			return Verify(testKey, "POST", "/v1/reports", "Mon, 31 Aug 2026 10:00:01 GMT", sig, 1024)
		}},
		{"different path", func() error {
			return Verify(testKey, "POST", "/v1/other", date, sig, 1024)
		}},
		{"different key", func() error {
			otherKey := base64.StdEncoding.EncodeToString([]byte("another key"))
			return Verify(otherKey, "POST", "/v1/reports", date, sig, 1024)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.verify(); !errors.Is(err, ErrSignatureMismatch) {
				t.Fatalf("expected signature mismatch, got %v", err)
			}
		})
	}
}

func TestSignRejectsNonBase64Key(t *testing.T) {
	if _, err := Sign("not base64!!!", "POST", "/v1/reports", "d", 1); err == nil {
		t.Fatal("expected invalid key to be rejected")
	}
}

func TestParseAuthorization(t *testing.T) {
	ws, sig, err := ParseAuthorization("SharedKey ws-123:c2lnbmF0dXJl")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ws != "ws-123" || sig != "c2lnbmF0dXJl" {
		t.Fatalf("got %q %q", ws, sig)
	}

	for _, bad := range []string{
		"",
		"Bearer token",
		"SharedKey",
		"SharedKey nosig",
		"SharedKey :sig",
		"SharedKey ws:",
	} {
		if _, _, err := ParseAuthorization(bad); !errors.Is(err, ErrMalformedAuthorization) {
			t.Errorf("ParseAuthorization(%q): expected malformed error, got %v", bad, err)
		}
	}
}
