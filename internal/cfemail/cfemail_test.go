package cfemail

import (
	"encoding/hex"
	"testing"
)

// encode builds a payload the way the obfuscation script does: the key byte
// first, then every character XORed with it.
func encode(plain string, key byte) string {
	raw := make([]byte, 0, len(plain)+1)
	raw = append(raw, key)
	for i := 0; i < len(plain); i++ {
		raw = append(raw, plain[i]^key)
	}
	return hex.EncodeToString(raw)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    string
		wantOK  bool
	}{
		{
			name:    "known payload",
			encoded: "177e79717857747f7e657863727a6472397572",
			want:    "info@chirotemse.be",
			wantOK:  true,
		},
		{
			name:    "uppercase hex digits",
			encoded: "177E79717857747F7E657863727A6472397572",
			want:    "info@chirotemse.be",
			wantOK:  true,
		},
		{
			name:    "key byte only",
			encoded: "2a",
			want:    "",
			wantOK:  true,
		},
		{
			name:    "empty input",
			encoded: "",
			wantOK:  false,
		},
		{
			name:    "odd length",
			encoded: "abc",
			wantOK:  false,
		},
		{
			name:    "non-hex characters",
			encoded: "zz41",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.encoded)
			if ok != tt.wantOK {
				t.Fatalf("Decode(%q) ok = %v, expected %v", tt.encoded, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Decode(%q) = %q, expected %q", tt.encoded, got, tt.want)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	addresses := []string{
		"info@chirotemse.be",
		"contact@spullenhulp.be",
		"a@b.c",
	}
	keys := []byte{0x00, 0x17, 0x2a, 0xff}

	for _, addr := range addresses {
		for _, key := range keys {
			got, ok := Decode(encode(addr, key))
			if !ok {
				t.Fatalf("Decode(encode(%q, %#x)) unexpectedly failed", addr, key)
			}
			if got != addr {
				t.Errorf("round trip with key %#x = %q, expected %q", key, got, addr)
			}
		}
	}
}
