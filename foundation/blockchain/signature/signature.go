// Package signature provides helper functions for producing the digests that
// link blocks together and commit them to their transactions.
package signature

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
)

// ZeroHash represents a hash code of zeros. It is used as the previous hash
// of the genesis block.
var ZeroHash = strings.Repeat("0", HashLength)

// HashLength is the number of hex characters in a rendered digest.
const HashLength = 2 * sha256.Size

// =============================================================================

// Digest returns the hash of the value serialized as JSON. JSON keeps
// struct fields in declaration order, so two logically equal values always
// produce the same digest. An error is returned when the value can't be
// serialized.
func Digest(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serializing %T: %w", value, err)
	}

	hash := sha256.Sum256(data)
	return BytesToHex(hash[:]), nil
}

// Hash returns a unique string for the value. It is meant for values that
// always serialize, like block headers. A value that can't be serialized is
// hashed from its Go syntax representation instead so different values
// never share a digest.
func Hash(value any) string {
	hash, err := Digest(value)
	if err != nil {
		sum := sha256.Sum256([]byte(fmt.Sprintf("%#v", value)))
		return BytesToHex(sum[:])
	}

	return hash
}

// BytesToHex renders the bytes as lowercase hex using two characters per
// byte and no prefix.
func BytesToHex(b []byte) string {
	return common.Bytes2Hex(b)
}

// IsHash reports whether the string looks like a rendered digest.
func IsHash(s string) bool {
	if len(s) != HashLength {
		return false
	}

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}

	return true
}
