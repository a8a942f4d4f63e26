package util

import (
	"strings"
	"testing"
	"time"
)

func TestGenererCodeFormat(t *testing.T) {
	code := GenererCode("COL")

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("code = %q, attendu 3 segments", code)
	}
	if parts[0] != "COL" {
		t.Fatalf("préfixe = %q", parts[0])
	}
	if parts[1] != time.Now().UTC().Format("20060102") {
		t.Fatalf("date = %q", parts[1])
	}
	if len(parts[2]) != 6 || parts[2] != strings.ToUpper(parts[2]) {
		t.Fatalf("suffixe = %q, attendu 6 caractères majuscules", parts[2])
	}
}

func TestGenererCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenererCode("BD")
		if seen[code] {
			t.Fatalf("code dupliqué: %q", code)
		}
		seen[code] = true
	}
}
