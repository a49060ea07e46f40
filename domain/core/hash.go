package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// RowFingerprint is the identity of a fully-materialized row, used by the
// dedup filter to detect exact duplicates across all fields.
type RowFingerprint Hash

// ComputeRowFingerprint hashes the ordered cell representations of one row.
// Cell order follows column order, so two rows collide only when every
// field matches.
func ComputeRowFingerprint(cells []string) RowFingerprint {
	var data strings.Builder
	for _, cell := range cells {
		data.WriteString(cell)
		data.WriteByte(0x1f) // unit separator keeps adjacent cells from merging
	}
	return RowFingerprint(NewHash([]byte(data.String())))
}

func (f RowFingerprint) String() string { return Hash(f).String() }
