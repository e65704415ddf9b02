package artwork

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/state"
)

const (
	storageKey = "artworks"
	counterKey = "counters/artworks"
)

type counter struct {
	NextID uint64 `json:"NextID"`
}

// Fetch a single artwork from storage.
func Fetch(ctx context.Context, dbConn *db.DB, tokenID uint64) (*state.Artwork, error) {
	key := buildStoragePath(tokenID)

	data, err := dbConn.Fetch(ctx, key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "fetch %s", key)
	}

	a := state.Artwork{}
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", key)
	}

	return &a, nil
}

// Save a single artwork to storage.
func Save(ctx context.Context, dbConn *db.DB, a *state.Artwork) error {
	data, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "marshal artwork")
	}

	return dbConn.Put(ctx, buildStoragePath(a.ID), data)
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

func buildStoragePath(tokenID uint64) string {
	return fmt.Sprintf("%s/%010d", storageKey, tokenID)
}
