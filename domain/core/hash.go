package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
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

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// TableFingerprint identifies the exact table a batch ran against, so a
// batch summary can be audited against the data that produced it.
type TableFingerprint Hash

func (h TableFingerprint) String() string { return Hash(h).String() }

// ComputeTableFingerprint hashes the ordered column names and the row count.
// Column order is part of the identity: two tables with the same columns in
// a different order are different inputs.
func ComputeTableFingerprint(columns []string, rows int) TableFingerprint {
	var data strings.Builder
	for _, name := range columns {
		data.WriteString(name)
		data.WriteString("\x1f")
	}
	data.WriteString(fmt.Sprintf("rows=%d", rows))
	return TableFingerprint(NewHash([]byte(data.String())))
}
