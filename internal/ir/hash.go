package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainTree = "predicate/tree/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TreeHash computes the fingerprint of a lowered predicate tree.
func TreeHash(tree IRObject) (string, error) {
	canonical, err := MarshalCanonical(tree)
	if err != nil {
		return "", fmt.Errorf("TreeHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTree, canonical), nil
}
