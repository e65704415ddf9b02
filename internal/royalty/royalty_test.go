package royalty_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/artwork"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/internal/platform/tests"
	"github.com/tokenizedart/settlement/internal/royalty"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name  string
		price uint64
		bps   uint32
		want  uint64
	}{
		{name: "five percent", price: 1000000, bps: 500, want: 50000},
		{name: "platform default", price: 1000000, bps: 250, want: 25000},
		{name: "zero bps", price: 1000000, bps: 0, want: 0},
		{name: "full price", price: 1000000, bps: 10000, want: 1000000},
		{name: "rounds down", price: 999, bps: 250, want: 24},
		{name: "tiny price", price: 3, bps: 250, want: 0},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := royalty.Split(uint256.NewInt(tt.price), tt.bps)
			if !got.Eq(uint256.NewInt(tt.want)) {
				t.Errorf("got %s, want %d", got.Dec(), tt.want)
			}
		})
	}
}

func TestRoyaltyInfo(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	tokenID, err := test.Artworks.Mint(ctx, test.Creator, "Sunrise", "oil",
		100, tests.RandomHash(), "", 500, 200)
	if err != nil {
		t.Fatalf("Failed to mint artwork : %s", err)
	}

	editionID, err := test.Editions.CreateEdition(ctx, test.Collector, "Waves", "print",
		100, tests.RandomHash(), 750, 10, 200)
	if err != nil {
		t.Fatalf("Failed to create edition : %s", err)
	}

	t.Run("unique", func(t *testing.T) {
		ref := state.AssetRef{Standard: state.StandardUnique, ID: tokenID}
		beneficiary, amount, err := test.Royalties.RoyaltyInfo(ctx, ref, uint256.NewInt(1000000))
		if err != nil {
			t.Fatalf("Failed to resolve royalty : %s", err)
		}
		if !beneficiary.Equal(test.Creator) {
			t.Errorf("beneficiary : got %s, want creator", beneficiary)
		}
		if !amount.Eq(uint256.NewInt(50000)) {
			t.Errorf("amount : got %s, want 50000", amount.Dec())
		}
	})

	t.Run("edition", func(t *testing.T) {
		ref := state.AssetRef{Standard: state.StandardEdition, ID: editionID}
		beneficiary, amount, err := test.Royalties.RoyaltyInfo(ctx, ref, uint256.NewInt(1000000))
		if err != nil {
			t.Fatalf("Failed to resolve royalty : %s", err)
		}
		if !beneficiary.Equal(test.Collector) {
			t.Errorf("beneficiary : got %s, want edition creator", beneficiary)
		}
		if !amount.Eq(uint256.NewInt(75000)) {
			t.Errorf("amount : got %s, want 75000", amount.Dec())
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		ref := state.AssetRef{Standard: state.StandardUnique, ID: 99}
		_, _, err := test.Royalties.RoyaltyInfo(ctx, ref, uint256.NewInt(1000000))
		if errors.Cause(err) != artwork.ErrNotFound {
			t.Errorf("got %v, want %v", err, artwork.ErrNotFound)
		}
	})

	t.Run("unknown standard", func(t *testing.T) {
		ref := state.AssetRef{Standard: "ERC20", ID: 1}
		_, _, err := test.Royalties.RoyaltyInfo(ctx, ref, uint256.NewInt(1000000))
		if errors.Cause(err) != royalty.ErrUnknownStandard {
			t.Errorf("got %v, want %v", err, royalty.ErrUnknownStandard)
		}
	})
}
