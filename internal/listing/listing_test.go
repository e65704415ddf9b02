package listing_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/listing"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/internal/platform/tests"
)

func mintAndApproveArtwork(ctx context.Context, t *testing.T, test *tests.Test) uint64 {
	t.Helper()

	id, err := test.Artworks.Mint(ctx, test.Creator, "Sunrise", "oil",
		100, tests.RandomHash(), "", 500, 200)
	if err != nil {
		t.Fatalf("Failed to mint artwork : %s", err)
	}
	if err := test.Artworks.Approve(ctx, test.Creator, test.Operator, id); err != nil {
		t.Fatalf("Failed to approve operator : %s", err)
	}
	return id
}

func TestCreate_Unique(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	tokenID := mintAndApproveArtwork(ctx, t, test)
	ref := state.AssetRef{Standard: state.StandardUnique, ID: tokenID}

	t.Run("zero price rejected", func(t *testing.T) {
		_, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(0), 1, 300)
		if errors.Cause(err) != listing.ErrPriceMustBePositive {
			t.Errorf("got %v, want %v", err, listing.ErrPriceMustBePositive)
		}
	})

	t.Run("quantity other than one rejected", func(t *testing.T) {
		_, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 2, 300)
		if errors.Cause(err) != listing.ErrQuantityInvalid {
			t.Errorf("got %v, want %v", err, listing.ErrQuantityInvalid)
		}
	})

	t.Run("non owner rejected", func(t *testing.T) {
		_, err := test.Book.Create(ctx, test.Collector, ref, uint256.NewInt(1000), 1, 300)
		if errors.Cause(err) != listing.ErrNotOwner {
			t.Errorf("got %v, want %v", err, listing.ErrNotOwner)
		}
	})

	t.Run("owner lists", func(t *testing.T) {
		id, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 1, 300)
		if err != nil {
			t.Fatalf("Failed to create listing : %s", err)
		}
		if id != 1 {
			t.Errorf("listing id : got %d, want 1", id)
		}

		active, err := test.Book.IsActive(ctx, id)
		if err != nil {
			t.Fatalf("Failed to check listing : %s", err)
		}
		if !active {
			t.Error("new listing should be active")
		}
	})
}

func TestCreate_UniqueRequiresApproval(t *testing.T) {
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

	ref := state.AssetRef{Standard: state.StandardUnique, ID: tokenID}
	_, err = test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 1, 300)
	if errors.Cause(err) != listing.ErrNotApproved {
		t.Errorf("got %v, want %v", err, listing.ErrNotApproved)
	}
}

func TestCreate_Edition(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	editionID, err := test.Editions.CreateEdition(ctx, test.Creator, "Waves", "print",
		100, tests.RandomHash(), 500, 10, 200)
	if err != nil {
		t.Fatalf("Failed to create edition : %s", err)
	}
	if err := test.Editions.MintEdition(ctx, test.Creator, editionID, 5, 300); err != nil {
		t.Fatalf("Failed to mint edition units : %s", err)
	}

	ref := state.AssetRef{Standard: state.StandardEdition, ID: editionID}

	t.Run("exceeding holdings rejected", func(t *testing.T) {
		_, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 6, 400)
		if errors.Cause(err) != listing.ErrInsufficientHolding {
			t.Errorf("got %v, want %v", err, listing.ErrInsufficientHolding)
		}
	})

	t.Run("unapproved marketplace rejected", func(t *testing.T) {
		_, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 5, 400)
		if errors.Cause(err) != listing.ErrNotApproved {
			t.Errorf("got %v, want %v", err, listing.ErrNotApproved)
		}
	})

	t.Run("approved holder lists", func(t *testing.T) {
		if err := test.Editions.SetApprovalForAll(ctx, test.Creator, test.Operator, true); err != nil {
			t.Fatalf("Failed to approve operator : %s", err)
		}

		id, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 5, 400)
		if err != nil {
			t.Fatalf("Failed to create listing : %s", err)
		}

		l, err := test.Book.Get(ctx, id)
		if err != nil {
			t.Fatalf("Failed to fetch listing : %s", err)
		}
		if l.Quantity != 5 {
			t.Errorf("quantity : got %d, want 5", l.Quantity)
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	tokenID := mintAndApproveArtwork(ctx, t, test)
	ref := state.AssetRef{Standard: state.StandardUnique, ID: tokenID}

	id, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 1, 300)
	if err != nil {
		t.Fatalf("Failed to create listing : %s", err)
	}

	if err := test.Book.Cancel(ctx, test.Collector, id, 400); errors.Cause(err) != listing.ErrNotSeller {
		t.Errorf("cancel by non seller : got %v, want %v", err, listing.ErrNotSeller)
	}

	if err := test.Book.Cancel(ctx, test.Creator, id, 400); err != nil {
		t.Fatalf("Failed to cancel listing : %s", err)
	}

	active, err := test.Book.IsActive(ctx, id)
	if err != nil {
		t.Fatalf("Failed to check listing : %s", err)
	}
	if active {
		t.Error("cancelled listing should be inactive")
	}

	// A repeat cancel is an error, not a silent success.
	if err := test.Book.Cancel(ctx, test.Creator, id, 500); errors.Cause(err) != listing.ErrAlreadyInactive {
		t.Errorf("repeat cancel : got %v, want %v", err, listing.ErrAlreadyInactive)
	}
}

func TestApplyFill(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	editionID, err := test.Editions.CreateEdition(ctx, test.Creator, "Waves", "print",
		100, tests.RandomHash(), 500, 10, 200)
	if err != nil {
		t.Fatalf("Failed to create edition : %s", err)
	}
	if err := test.Editions.MintEdition(ctx, test.Creator, editionID, 5, 300); err != nil {
		t.Fatalf("Failed to mint edition units : %s", err)
	}
	if err := test.Editions.SetApprovalForAll(ctx, test.Creator, test.Operator, true); err != nil {
		t.Fatalf("Failed to approve operator : %s", err)
	}

	ref := state.AssetRef{Standard: state.StandardEdition, ID: editionID}
	id, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 5, 400)
	if err != nil {
		t.Fatalf("Failed to create listing : %s", err)
	}

	if err := test.Book.ApplyFill(ctx, id, 6); errors.Cause(err) != listing.ErrQuantityExceedsRemaining {
		t.Errorf("overfill : got %v, want %v", err, listing.ErrQuantityExceedsRemaining)
	}

	if err := test.Book.ApplyFill(ctx, id, 3); err != nil {
		t.Fatalf("Failed to apply fill : %s", err)
	}

	l, err := test.Book.Get(ctx, id)
	if err != nil {
		t.Fatalf("Failed to fetch listing : %s", err)
	}
	if l.Quantity != 2 || !l.Active {
		t.Errorf("after partial fill : got quantity %d active %v, want 2 true", l.Quantity, l.Active)
	}

	if err := test.Book.ApplyFill(ctx, id, 2); err != nil {
		t.Fatalf("Failed to apply final fill : %s", err)
	}

	active, err := test.Book.IsActive(ctx, id)
	if err != nil {
		t.Fatalf("Failed to check listing : %s", err)
	}
	if active {
		t.Error("fully filled listing should be inactive")
	}

	if err := test.Book.ApplyFill(ctx, id, 1); errors.Cause(err) != listing.ErrInactive {
		t.Errorf("fill after sold out : got %v, want %v", err, listing.ErrInactive)
	}
}

func TestRevertFill(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	editionID, err := test.Editions.CreateEdition(ctx, test.Creator, "Waves", "print",
		100, tests.RandomHash(), 500, 10, 200)
	if err != nil {
		t.Fatalf("Failed to create edition : %s", err)
	}
	if err := test.Editions.MintEdition(ctx, test.Creator, editionID, 5, 300); err != nil {
		t.Fatalf("Failed to mint edition units : %s", err)
	}
	if err := test.Editions.SetApprovalForAll(ctx, test.Creator, test.Operator, true); err != nil {
		t.Fatalf("Failed to approve operator : %s", err)
	}

	ref := state.AssetRef{Standard: state.StandardEdition, ID: editionID}
	id, err := test.Book.Create(ctx, test.Creator, ref, uint256.NewInt(1000), 5, 400)
	if err != nil {
		t.Fatalf("Failed to create listing : %s", err)
	}

	t.Run("partial fill reverted", func(t *testing.T) {
		if err := test.Book.ApplyFill(ctx, id, 3); err != nil {
			t.Fatalf("Failed to apply fill : %s", err)
		}
		if err := test.Book.RevertFill(ctx, id, 3); err != nil {
			t.Fatalf("Failed to revert fill : %s", err)
		}

		l, err := test.Book.Get(ctx, id)
		if err != nil {
			t.Fatalf("Failed to fetch listing : %s", err)
		}
		if l.Quantity != 5 || !l.Active {
			t.Errorf("after revert : got quantity %d active %v, want 5 true", l.Quantity, l.Active)
		}
	})

	t.Run("emptying fill reverted reactivates", func(t *testing.T) {
		if err := test.Book.ApplyFill(ctx, id, 5); err != nil {
			t.Fatalf("Failed to apply fill : %s", err)
		}
		if err := test.Book.RevertFill(ctx, id, 5); err != nil {
			t.Fatalf("Failed to revert fill : %s", err)
		}

		l, err := test.Book.Get(ctx, id)
		if err != nil {
			t.Fatalf("Failed to fetch listing : %s", err)
		}
		if l.Quantity != 5 || !l.Active {
			t.Errorf("after revert : got quantity %d active %v, want 5 true", l.Quantity, l.Active)
		}
	})

	t.Run("cancelled listing stays cancelled", func(t *testing.T) {
		if err := test.Book.ApplyFill(ctx, id, 2); err != nil {
			t.Fatalf("Failed to apply fill : %s", err)
		}
		if err := test.Book.Cancel(ctx, test.Creator, id, 500); err != nil {
			t.Fatalf("Failed to cancel listing : %s", err)
		}
		if err := test.Book.RevertFill(ctx, id, 2); err != nil {
			t.Fatalf("Failed to revert fill : %s", err)
		}

		l, err := test.Book.Get(ctx, id)
		if err != nil {
			t.Fatalf("Failed to fetch listing : %s", err)
		}
		if l.Quantity != 5 || l.Active {
			t.Errorf("after revert of cancelled : got quantity %d active %v, want 5 false", l.Quantity, l.Active)
		}
	})
}
