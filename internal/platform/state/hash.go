package state

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Hash32 is a fixed size content hash identifying the underlying artwork
// bytes. Serialized as 0x prefixed hex.
type Hash32 [32]byte

// NewHash32 computes the keccak hash of the supplied content.
func NewHash32(content []byte) Hash32 {
	var h Hash32
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(content)
	copy(h[:], hasher.Sum(nil))
	return h
}

// DecodeHash32 parses a hex hash string, with or without a "0x" prefix.
func DecodeHash32(s string) (Hash32, error) {
	var h Hash32
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, err
	}
	if len(b) != 32 {
		return h, errors.Errorf("Invalid hash length %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash32) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash32) IsZero() bool {
	return h == Hash32{}
}

func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash32) UnmarshalText(text []byte) error {
	decoded, err := DecodeHash32(string(text))
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}
