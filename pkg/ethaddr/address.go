// Package ethaddr provides the 20 byte account address type used to identify
// creators, holders, buyers, and the platform treasury. Addresses are supplied
// by an external identity layer; this package only parses, formats, and
// compares them.
package ethaddr

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const Size = 20

var (
	// ErrBadAddress occurs when an address string is not 20 hex encoded bytes.
	ErrBadAddress = errors.New("Invalid address")

	// Zero is the null address. It is never a valid participant.
	Zero = Address{}
)

// Address is a 20 byte account identifier.
type Address [Size]byte

// FromBytes creates an address from a raw 20 byte slice.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, errors.Wrapf(ErrBadAddress, "%d bytes", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Decode parses a hex address string, with or without a "0x" prefix. The
// checksum casing is not enforced so lowercased input is accepted.
func Decode(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, errors.Wrap(ErrBadAddress, err.Error())
	}
	return FromBytes(b)
}

// Bytes returns the raw 20 bytes of the address.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns true for the null address.
func (a Address) IsZero() bool {
	return a == Zero
}

// Equal returns true when both addresses contain the same bytes.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// String formats the address as 0x prefixed hex with the mixed-case checksum
// casing derived from the keccak hash of the lowercased hex address.
func (a Address) String() string {
	unchecked := hex.EncodeToString(a[:])

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(unchecked))
	sum := hasher.Sum(nil)

	result := []byte(unchecked)
	for i, c := range result {
		if c < 'a' || c > 'f' {
			continue
		}
		// Uppercase when the corresponding checksum nibble is >= 8.
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			result[i] = c - 32
		}
	}

	return "0x" + string(result)
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as hex
// in JSON documents, including as map keys.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	decoded, err := Decode(string(text))
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}
