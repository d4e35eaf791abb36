package intcap

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gowebpki/jcs"
)

// digestBytes returns the SHA-256 hex digest of the RFC 8785 canonical
// form of a JSON document. Canonicalizing before hashing makes the digest
// a pure function of the document's content, independent of key order or
// whitespace in the stored bytes.
func digestBytes(raw []byte) (string, error) {
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize for digest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// digestOf marshals v to JSON and digests the canonical form.
func digestOf(v interface{ MarshalJSON() ([]byte, error) }) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal for digest: %w", err)
	}
	return digestBytes(raw)
}
