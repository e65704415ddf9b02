package indexer_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"

	"github.com/tokenizedart/settlement/internal/indexer"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/internal/platform/tests"
)

func TestSync(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	ix, err := indexer.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Failed to open index : %s", err)
	}
	defer ix.Close()

	// Mint, list, sell partially, and cancel nothing. The journal then holds
	// the full history for the read model.
	editionID, err := test.Editions.CreateEdition(ctx, test.Creator, "Waves", "print",
		100, tests.RandomHash(), 500, 20, 200)
	if err != nil {
		t.Fatalf("Failed to create edition : %s", err)
	}
	if err := test.Editions.MintEdition(ctx, test.Collector, editionID, 5, 300); err != nil {
		t.Fatalf("Failed to mint edition units : %s", err)
	}
	if err := test.Editions.SetApprovalForAll(ctx, test.Collector, test.Operator, true); err != nil {
		t.Fatalf("Failed to approve operator : %s", err)
	}

	ref := state.AssetRef{Standard: state.StandardEdition, ID: editionID}
	listingID, err := test.Book.Create(ctx, test.Collector, ref, uint256.NewInt(200000), 5, 400)
	if err != nil {
		t.Fatalf("Failed to create listing : %s", err)
	}

	if err := test.Fund(ctx, test.Buyer, 600000); err != nil {
		t.Fatalf("Failed to fund buyer : %s", err)
	}
	if _, err := test.Engine.Buy(ctx, test.Buyer, listingID, 3, uint256.NewInt(600000), 500); err != nil {
		t.Fatalf("Failed to settle : %s", err)
	}

	applied, err := ix.Sync(ctx, test.Journal)
	if err != nil {
		t.Fatalf("Failed to sync : %s", err)
	}
	if applied == 0 {
		t.Fatal("sync applied nothing")
	}

	t.Run("listings projected", func(t *testing.T) {
		rows, err := ix.Listings(ctx, state.StatusActive)
		if err != nil {
			t.Fatalf("Failed to query listings : %s", err)
		}
		if len(rows) != 1 {
			t.Fatalf("active listings : got %d, want 1", len(rows))
		}
		if rows[0].Quantity != 2 {
			t.Errorf("remaining quantity : got %d, want 2", rows[0].Quantity)
		}
		if rows[0].UnitPrice != "200000" {
			t.Errorf("unit price : got %q, want 200000", rows[0].UnitPrice)
		}
	})

	t.Run("sales projected", func(t *testing.T) {
		rows, err := ix.Sales(ctx)
		if err != nil {
			t.Fatalf("Failed to query sales : %s", err)
		}
		if len(rows) != 1 {
			t.Fatalf("sales : got %d, want 1", len(rows))
		}
		if rows[0].Paid != "600000" || rows[0].Quantity != 3 {
			t.Errorf("sale : got paid %q quantity %d, want 600000/3", rows[0].Paid, rows[0].Quantity)
		}
	})

	t.Run("provenance trail", func(t *testing.T) {
		rows, err := ix.Provenance(ctx, string(state.StandardEdition), editionID)
		if err != nil {
			t.Fatalf("Failed to query provenance : %s", err)
		}

		// mint, list, and the settlement transfer.
		if len(rows) != 3 {
			t.Fatalf("provenance rows : got %d, want 3", len(rows))
		}
		last := rows[len(rows)-1]
		if last.Type != "transfer" || last.To != test.Buyer.String() || last.Amount != 3 {
			t.Errorf("last provenance row : got %+v", last)
		}
	})

	t.Run("resync applies nothing", func(t *testing.T) {
		applied, err := ix.Sync(ctx, test.Journal)
		if err != nil {
			t.Fatalf("Failed to resync : %s", err)
		}
		if applied != 0 {
			t.Errorf("resync applied %d records, want 0", applied)
		}
	})
}
