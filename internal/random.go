package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenRawSize = 32

// NewToken returns a fresh opaque session token: prefix followed by 32
// random bytes in base64url without padding. Tokens are never reused and
// carry no decodable structure.
func NewToken(prefix string) (string, error) {
	var raw [tokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return prefix + base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
