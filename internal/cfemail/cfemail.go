package cfemail

import "encoding/hex"

// Decode reverses Cloudflare's email-protection obfuscation. The first byte
// of the hex payload is a single-byte XOR key; every following byte is XORed
// with it to recover one character. Returns false on malformed input (empty,
// odd length, non-hex characters) instead of failing.
func Decode(encoded string) (string, bool) {
	raw, err := hex.DecodeString(encoded)
	if err != nil || len(raw) == 0 {
		return "", false
	}

	key := raw[0]
	decoded := make([]byte, len(raw)-1)
	for i, b := range raw[1:] {
		decoded[i] = b ^ key
	}
	return string(decoded), true
}
