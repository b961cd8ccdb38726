// Package hash provides shared hashing utilities for content fingerprints
// and truncated IDs.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IDLength is the number of hex characters used for truncated hash IDs.
// 16 hex chars = 8 bytes = 64 bits of entropy (sufficient for collision resistance).
const IDLength = 16

// TruncatedSHA256 returns a truncated SHA256 hash of the input string.
// The result is a 16-character hex string.
func TruncatedSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])[:IDLength]
}

// Fingerprint computes a deterministic content fingerprint over normalized
// content. It is used solely for change detection and is not a security
// property. Normalization: CRLF collapsed to LF, leading/trailing whitespace
// trimmed.
func Fingerprint(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.TrimSpace(normalized)
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}
