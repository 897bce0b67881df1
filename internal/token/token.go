// Package token mints opaque session identifiers.
package token

import (
	"crypto/rand"
	"math/big"
)

// Length is the fixed size of every session token.
const Length = 32

const alphabet = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz"

// Generate returns a 32-character token drawn uniformly from the
// 62-symbol alphanumeric alphabet. Uniqueness is not checked: the
// 62^32 space makes collisions negligible.
func Generate() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
