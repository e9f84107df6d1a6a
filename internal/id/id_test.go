package id

import "testing"

func TestNewObjectID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		oid, err := NewObjectID()
		if err != nil {
			t.Fatalf("NewObjectID: %v", err)
		}
		if !IsObjectID(oid) {
			t.Fatalf("generated id %q is not a valid object id", oid)
		}
		if seen[oid] {
			t.Fatalf("duplicate id generated: %q", oid)
		}
		seen[oid] = true
	}
}

func TestIsObjectID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"60d21b4667d0d8992e610c51", true},
		{"60D21B4667D0D8992E610C51", true},
		{"60d21b4667d0d8992e610c5", false},   // too short
		{"60d21b4667d0d8992e610c511", false}, // too long
		{"60d21b4667d0d8992e610c5g", false},  // non-hex
		{"", false},
		{"7", false},
	}
	for _, tt := range tests {
		if got := IsObjectID(tt.input); got != tt.want {
			t.Errorf("IsObjectID(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	tok, err := Generate("token")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tok) <= len("token-") {
		t.Errorf("unexpected token id %q", tok)
	}
	if tok[:6] != "token-" {
		t.Errorf("expected token- prefix, got %q", tok)
	}
}
