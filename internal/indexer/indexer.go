// Package indexer replays the notification journal into a sqlite read model.
// It mirrors what an external indexer does with the emitted events: artworks,
// editions, listings, sales, and a provenance trail become queryable tables.
// The read model is derived state and can always be rebuilt from the journal.
package indexer

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/tokenizedart/settlement/internal/platform/logger"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS artworks (
	id           INTEGER PRIMARY KEY,
	creator      TEXT NOT NULL,
	title        TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	royalty_bps  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS editions (
	id           INTEGER PRIMARY KEY,
	creator      TEXT NOT NULL,
	title        TEXT NOT NULL,
	max_supply   INTEGER NOT NULL,
	minted       INTEGER NOT NULL DEFAULT 0,
	content_hash TEXT NOT NULL,
	royalty_bps  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS listings (
	id         INTEGER PRIMARY KEY,
	seller     TEXT NOT NULL,
	standard   TEXT NOT NULL,
	asset_id   INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	quantity   INTEGER NOT NULL,
	status     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sales (
	record_id  TEXT PRIMARY KEY,
	listing_id INTEGER NOT NULL,
	buyer      TEXT NOT NULL,
	seller     TEXT NOT NULL,
	paid       TEXT NOT NULL,
	royalty    TEXT NOT NULL,
	fee        TEXT NOT NULL,
	quantity   INTEGER NOT NULL,
	at         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS provenance (
	record_id TEXT PRIMARY KEY,
	seq       INTEGER NOT NULL,
	type      TEXT NOT NULL,
	standard  TEXT NOT NULL,
	asset_id  INTEGER NOT NULL,
	from_addr TEXT NOT NULL,
	to_addr   TEXT NOT NULL,
	amount    INTEGER NOT NULL,
	at        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_state (
	k TEXT PRIMARY KEY,
	v INTEGER NOT NULL
);
`

// Index is the sqlite backed read model.
type Index struct {
	db *sql.DB
}

// Open opens (and if needed creates) the read model database.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Sync replays journal records newer than the last applied sequence number
// and returns how many were applied. Re-running against an unchanged journal
// applies nothing.
func (ix *Index) Sync(ctx context.Context, j *events.Journal) (int, error) {
	ctx, span := trace.StartSpan(ctx, "internal.indexer.Sync")
	defer span.End()

	last, err := ix.lastSeq(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	err = j.Replay(ctx, func(rec events.Record) error {
		if last >= 0 && rec.Seq <= uint64(last) {
			return nil
		}
		if err := ix.apply(ctx, rec); err != nil {
			return errors.Wrapf(err, "apply seq %d", rec.Seq)
		}
		if err := ix.setLastSeq(ctx, rec.Seq); err != nil {
			return err
		}
		applied++
		return nil
	})
	if err != nil {
		return applied, err
	}

	logger.NewLoggerFromContext(ctx).Info("Synced read model",
		zap.Int("applied", applied))

	return applied, nil
}

func (ix *Index) apply(ctx context.Context, rec events.Record) error {
	switch rec.Type {
	case events.TypeAssetMinted:
		var p events.AssetMinted
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		if _, err := ix.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO artworks (id, creator, title, content_hash, royalty_bps)
			 VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.Creator.String(), p.Title, p.ContentHash.String(), p.RoyaltyBps); err != nil {
			return err
		}
		return ix.addProvenance(ctx, rec, "mint", string(state.StandardUnique), p.ID, "", p.Creator.String(), 1)

	case events.TypeEditionCreated:
		var p events.EditionCreated
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		_, err := ix.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO editions (id, creator, title, max_supply, minted, content_hash, royalty_bps)
			 VALUES (?, ?, ?, ?, 0, ?, ?)`,
			p.ID, p.Creator.String(), p.Title, p.MaxSupply, p.ContentHash.String(), p.RoyaltyBps)
		return err

	case events.TypeEditionMinted:
		var p events.EditionMinted
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		if _, err := ix.db.ExecContext(ctx,
			`UPDATE editions SET minted = minted + ? WHERE id = ?`,
			p.Amount, p.ID); err != nil {
			return err
		}
		return ix.addProvenance(ctx, rec, "mint", string(state.StandardEdition), p.ID, "", p.To.String(), p.Amount)

	case events.TypeListingCreated:
		var p events.ListingCreated
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		if _, err := ix.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO listings (id, seller, standard, asset_id, unit_price, quantity, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Seller.String(), string(p.Asset.Standard), p.Asset.ID,
			p.UnitPrice.Dec(), p.Quantity, state.StatusActive); err != nil {
			return err
		}
		return ix.addProvenance(ctx, rec, "list", string(p.Asset.Standard), p.Asset.ID, p.Seller.String(), "", p.Quantity)

	case events.TypeListingCancelled:
		var p events.ListingCancelled
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		_, err := ix.db.ExecContext(ctx,
			`UPDATE listings SET status = ? WHERE id = ?`,
			state.StatusCancelled, p.ID)
		return err

	case events.TypeSale:
		var p events.Sale
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		if _, err := ix.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO sales (record_id, listing_id, buyer, seller, paid, royalty, fee, quantity, at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, p.ListingID, p.Buyer.String(), p.Seller.String(),
			p.PaidAmount.Dec(), p.RoyaltyAmount.Dec(), p.FeeAmount.Dec(),
			p.Quantity, rec.Timestamp); err != nil {
			return err
		}
		if _, err := ix.db.ExecContext(ctx,
			`UPDATE listings SET quantity = quantity - ? WHERE id = ?`,
			p.Quantity, p.ListingID); err != nil {
			return err
		}
		_, err := ix.db.ExecContext(ctx,
			`UPDATE listings SET status = ? WHERE id = ? AND quantity <= 0 AND status = ?`,
			state.StatusSold, p.ListingID, state.StatusActive)
		return err

	case events.TypeOwnershipTransferred:
		var p events.OwnershipTransferred
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}
		return ix.addProvenance(ctx, rec, "transfer", string(p.Asset.Standard), p.Asset.ID,
			p.From.String(), p.To.String(), p.Amount)

	case events.TypePlatformFeeUpdated:
		// Fee history is not part of the read model.
		return nil
	}

	return nil
}

func (ix *Index) addProvenance(ctx context.Context, rec events.Record, typ, standard string,
	assetID uint64, from, to string, amount uint64) error {

	_, err := ix.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO provenance (record_id, seq, type, standard, asset_id, from_addr, to_addr, amount, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Seq, typ, standard, assetID, from, to, amount, rec.Timestamp)
	return err
}

// lastSeq returns the last applied sequence number, or -1 when nothing has
// been applied yet.
func (ix *Index) lastSeq(ctx context.Context) (int64, error) {
	var v int64
	err := ix.db.QueryRowContext(ctx,
		`SELECT v FROM sync_state WHERE k = 'last_seq'`).Scan(&v)
	if err == sql.ErrNoRows {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (ix *Index) setLastSeq(ctx context.Context, seq uint64) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sync_state (k, v) VALUES ('last_seq', ?)`, seq)
	return err
}
