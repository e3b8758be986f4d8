package password

import (
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	for _, length := range []int{1, 8, 12, 64} {
		got, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", length, err)
		}
		if len(got) != length {
			t.Fatalf("Generate(%d) returned %d characters", length, len(got))
		}
	}
}

func TestGenerateRejectsNonPositiveLength(t *testing.T) {
	for _, length := range []int{0, -1} {
		if _, err := Generate(length); err == nil {
			t.Fatalf("expected Generate(%d) to fail", length)
		}
	}
}

func TestGenerateUsesCharsetOnly(t *testing.T) {
	got, err := Generate(256)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, c := range got {
		if !strings.ContainsRune(Charset, c) {
			t.Fatalf("character %q not in charset", c)
		}
	}
}

func TestGenerateAvoidsAmbiguousGlyphs(t *testing.T) {
	for _, forbidden := range "ilo01" {
		if strings.ContainsRune(Charset, forbidden) {
			t.Fatalf("charset must not contain %q", forbidden)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 16; i++ {
		got, err := Generate(24)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, dup := seen[got]; dup {
			t.Fatal("expected distinct passwords across calls")
		}
		seen[got] = struct{}{}
	}
}
