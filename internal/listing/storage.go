package listing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/state"
)

const (
	storageKey = "listings"
	counterKey = "counters/listings"
)

type counter struct {
	NextID uint64 `json:"NextID"`
}

// Fetch a single listing from storage.
func Fetch(ctx context.Context, dbConn *db.DB, listingID uint64) (*state.Listing, error) {
	key := buildStoragePath(listingID)

	data, err := dbConn.Fetch(ctx, key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "fetch %s", key)
	}

	l := state.Listing{}
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", key)
	}

	return &l, nil
}

// Save a single listing to storage.
func Save(ctx context.Context, dbConn *db.DB, l *state.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(err, "marshal listing")
	}

	return dbConn.Put(ctx, buildStoragePath(l.ID), data)
}

func fetchCounter(ctx context.Context, dbConn *db.DB) (uint64, error) {
	data, err := dbConn.Fetch(ctx, counterKey)
	if err != nil {
		if errors.Cause(err) == db.ErrNotFound {
			return 1, nil // ids start at 1
		}
		return 0, err
	}

	c := counter{}
	if err := json.Unmarshal(data, &c); err != nil {
		return 0, err
	}

	return c.NextID, nil
}

func saveCounter(ctx context.Context, dbConn *db.DB, next uint64) error {
	data, err := json.Marshal(&counter{NextID: next})
	if err != nil {
		return err
	}

	return dbConn.Put(ctx, counterKey, data)
}

func buildStoragePath(listingID uint64) string {
	return fmt.Sprintf("%s/%010d", storageKey, listingID)
}
