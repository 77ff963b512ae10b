package model

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DataHashSize is the length in bytes of every stored content digest.
const DataHashSize = 32

// DataHash is an opaque content commitment. The ledger never looks inside it.
type DataHash [DataHashSize]byte

// String returns the canonical form: "0x" followed by 64 lowercase hex characters.
func (h DataHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of h is zero.
func (h DataHash) IsZero() bool {
	return h == DataHash{}
}

// ParseDataHash decodes a 32-byte digest from hex, with or without a 0x prefix.
func ParseDataHash(s string) (DataHash, error) {
	var h DataHash
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if len(trimmed) != hex.EncodedLen(DataHashSize) {
		return h, fmt.Errorf("dataHash must be %d hex characters, got %d", hex.EncodedLen(DataHashSize), len(trimmed))
	}
	if _, err := hex.Decode(h[:], []byte(trimmed)); err != nil {
		return h, fmt.Errorf("dataHash is not valid hex: %w", err)
	}
	return h, nil
}
