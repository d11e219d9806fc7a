package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent creates a deterministic hex digest of raw source content,
// used to label analysis runs in the history log.
func HashContent(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
