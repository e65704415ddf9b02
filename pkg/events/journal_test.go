package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tokenizedart/settlement/internal/platform/db"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbConn, err := db.New(&db.StorageConfig{
		Bucket: "standalone",
		Root:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to create DB : %v", err)
	}
	return dbConn
}

func TestJournalAppendReplay(t *testing.T) {
	ctx := context.Background()
	dbConn := newTestDB(t)

	j, err := OpenJournal(ctx, dbConn)
	if err != nil {
		t.Fatalf("Failed to open journal : %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := j.Append(ctx, TypeEditionMinted, EditionMinted{ID: i, Amount: i * 10}, 1700000000); err != nil {
			t.Fatalf("Failed to append : %v", err)
		}
	}

	var seqs []uint64
	var amounts []uint64
	err = j.Replay(ctx, func(rec Record) error {
		seqs = append(seqs, rec.Seq)

		// Every record carries a generated id.
		if rec.ID == "" || rec.ID == "00000000-0000-0000-0000-000000000000" {
			t.Errorf("Got empty record id at seq %d", rec.Seq)
		}

		var p EditionMinted
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		amounts = append(amounts, p.Amount)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to replay : %v", err)
	}

	for i, seq := range seqs {
		if seq != uint64(i) {
			t.Errorf("Got seq %d at position %d", seq, i)
		}
	}
	for i, amount := range amounts {
		if amount != uint64(i+1)*10 {
			t.Errorf("Got amount %d at position %d", amount, i)
		}
	}
}

func TestJournalReopen(t *testing.T) {
	ctx := context.Background()
	dbConn := newTestDB(t)

	j, err := OpenJournal(ctx, dbConn)
	if err != nil {
		t.Fatalf("Failed to open journal : %v", err)
	}
	if err := j.Append(ctx, TypeListingCancelled, ListingCancelled{ID: 1}, 1700000000); err != nil {
		t.Fatalf("Failed to append : %v", err)
	}

	// Reopen against the same storage; sequence numbers must continue.
	j2, err := OpenJournal(ctx, dbConn)
	if err != nil {
		t.Fatalf("Failed to reopen journal : %v", err)
	}
	if err := j2.Append(ctx, TypeListingCancelled, ListingCancelled{ID: 2}, 1700000001); err != nil {
		t.Fatalf("Failed to append after reopen : %v", err)
	}

	count := 0
	lastSeq := uint64(0)
	err = j2.Replay(ctx, func(rec Record) error {
		count++
		lastSeq = rec.Seq
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to replay : %v", err)
	}

	if count != 2 {
		t.Errorf("Got %d records, want 2", count)
	}
	if lastSeq != 1 {
		t.Errorf("Got last seq %d, want 1", lastSeq)
	}
}
