package tests

import (
	"math/rand"

	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

var testHelperRand = rand.New(rand.NewSource(1))

// NamedAddress returns a deterministic address whose bytes are all tag.
// Distinct tags give distinct addresses, which keeps failures readable.
func NamedAddress(tag byte) ethaddr.Address {
	var a ethaddr.Address
	for i := range a {
		a[i] = tag
	}
	return a
}

func RandomAddress() ethaddr.Address {
	var a ethaddr.Address
	for i := range a {
		a[i] = byte(testHelperRand.Intn(256))
	}
	return a
}

func RandomHash() state.Hash32 {
	var h state.Hash32
	for i := range h {
		h[i] = byte(testHelperRand.Intn(256))
	}
	return h
}
