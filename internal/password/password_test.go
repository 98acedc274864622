package password

import (
	"strings"
	"testing"
)

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
	if !strings.HasPrefix(h1, "$2") {
		t.Errorf("expected bcrypt digest, got %q", h1)
	}
}

func TestVerify(t *testing.T) {
	h, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !Verify(h, "s3cret") {
		t.Error("correct password should verify")
	}
	if Verify(h, "s3cret ") {
		t.Error("wrong password should not verify")
	}
	if Verify(h, "") {
		t.Error("empty password should not verify")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	// A corrupt stored digest must fail closed, not panic or succeed.
	for _, h := range []string{"", "not-a-hash", "$2a$junk"} {
		if Verify(h, "anything") {
			t.Errorf("malformed hash %q should not verify", h)
		}
	}
}

func TestNormalization(t *testing.T) {
	// U+00E9 (precomposed) and U+0065 U+0301 (combining) are the same
	// password from the user's point of view.
	h, err := Hash("caf\u00e9")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !Verify(h, "cafe\u0301") {
		t.Error("decomposed form of the same password should verify")
	}
}
