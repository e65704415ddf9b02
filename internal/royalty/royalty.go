// Package royalty derives the royalty beneficiary and amount for a sale. The
// beneficiary is always the asset's original creator and the amount is a
// basis point fraction of the sale price, rounded down.
package royalty

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/artwork"
	"github.com/tokenizedart/settlement/internal/edition"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

var (
	// ErrUnknownStandard occurs when the asset reference names a standard
	// neither registry serves.
	ErrUnknownStandard = errors.New("Unknown token standard")

	// ErrNotSupported occurs when the registry does not expose the royalty
	// capability.
	ErrNotSupported = errors.New("Royalty not supported")

	basisPointsDivisor = uint256.NewInt(10000)
)

// Resolver computes royalty splits from immutable registry state.
type Resolver struct {
	unique   *artwork.Registry
	editions *edition.Registry
}

// NewResolver returns a Resolver backed by the two registries.
func NewResolver(unique *artwork.Registry, editions *edition.Registry) *Resolver {
	return &Resolver{
		unique:   unique,
		editions: editions,
	}
}

// RoyaltyInfo returns the beneficiary and amount for selling the referenced
// asset at salePrice. It is a pure function of the asset's mint-time state
// and only fails when the asset does not exist.
func (r *Resolver) RoyaltyInfo(ctx context.Context, ref state.AssetRef,
	salePrice *uint256.Int) (ethaddr.Address, *uint256.Int, error) {

	var creator ethaddr.Address
	var bps uint32

	switch ref.Standard {
	case state.StandardUnique:
		if !r.unique.SupportsRoyalty() {
			return ethaddr.Zero, nil, ErrNotSupported
		}
		a, err := r.unique.Metadata(ctx, ref.ID)
		if err != nil {
			return ethaddr.Zero, nil, err
		}
		creator, bps = a.Creator, a.RoyaltyBps

	case state.StandardEdition:
		if !r.editions.SupportsRoyalty() {
			return ethaddr.Zero, nil, ErrNotSupported
		}
		e, err := r.editions.Metadata(ctx, ref.ID)
		if err != nil {
			return ethaddr.Zero, nil, err
		}
		creator, bps = e.Creator, e.RoyaltyBps

	default:
		return ethaddr.Zero, nil, errors.Wrapf(ErrUnknownStandard, "%s", ref.Standard)
	}

	return creator, Split(salePrice, bps), nil
}

// Split returns floor(price * bps / 10000).
func Split(price *uint256.Int, bps uint32) *uint256.Int {
	amount := new(uint256.Int).Mul(price, uint256.NewInt(uint64(bps)))
	return amount.Div(amount, basisPointsDivisor)
}
