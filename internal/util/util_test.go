package util

import (
	"bytes"
	"pdf_quiz_backend/internal/model"
	"strings"
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Username: "alice", Email: "alice@example.com", IsAdmin: true}
	user.ID = 7

	token, claims, err := GenerateJWT(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}

	parsed, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if parsed.UserID != 7 || !parsed.IsAdmin || parsed.ID != claims.ID {
		t.Fatalf("claims = %+v", parsed)
	}

	if _, err := ParseJWT(token, "other"); err == nil {
		t.Fatal("wrong secret should fail")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Username: "bob"}
	token, _, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Fatal("expired token should fail")
	}
}

func TestValidateMimeType(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	mt, err := ValidateMimeType(bytes.NewReader(pdf), []string{MimePDF})
	if err != nil || mt != MimePDF {
		t.Fatalf("pdf detected as %q, err %v", mt, err)
	}

	if _, err := ValidateMimeType(strings.NewReader("just some text"), []string{MimePDF}); err == nil {
		t.Fatal("plain text should be rejected")
	}
}

func TestSafeBaseName(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":             "notes.pdf",
		"../../etc/passwd":      "passwd",
		`C:\Users\x\lesson.pdf`: "lesson.pdf",
		"..":                    "",
		"":                      "",
	}
	for in, want := range cases {
		if got := SafeBaseName(in); got != want {
			t.Errorf("SafeBaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("12"); !ok || id != 12 {
		t.Fatalf("ParseID(12) = %d, %v", id, ok)
	}
	for _, s := range []string{"0", "-1", "abc", ""} {
		if _, ok := ParseID(s); ok {
			t.Errorf("ParseID(%q) should fail", s)
		}
	}
}
