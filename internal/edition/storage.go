package edition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

const (
	storageKey  = "editions"
	counterKey  = "counters/editions"
	approvalKey = "editions/approvals"
)

type counter struct {
	NextID uint64 `json:"NextID"`
}

// Fetch a single edition from storage.
func Fetch(ctx context.Context, dbConn *db.DB, editionID uint64) (*state.Edition, error) {
	key := buildStoragePath(editionID)

	data, err := dbConn.Fetch(ctx, key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "fetch %s", key)
	}

	e := state.Edition{}
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", key)
	}
	if e.Holdings == nil {
		e.Holdings = make(map[ethaddr.Address]uint64)
	}

	return &e, nil
}

// Save a single edition to storage.
func Save(ctx context.Context, dbConn *db.DB, e *state.Edition) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal edition")
	}

	return dbConn.Put(ctx, buildStoragePath(e.ID), data)
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

func fetchApprovals(ctx context.Context, dbConn *db.DB) (map[string]bool, error) {
	data, err := dbConn.Fetch(ctx, approvalKey)
	if err != nil {
		if errors.Cause(err) == db.ErrNotFound {
			return make(map[string]bool), nil
		}
		return nil, err
	}

	approvals := make(map[string]bool)
	if err := json.Unmarshal(data, &approvals); err != nil {
		return nil, err
	}

	return approvals, nil
}

func saveApproval(ctx context.Context, dbConn *db.DB, owner, operator ethaddr.Address, approved bool) error {
	approvals, err := fetchApprovals(ctx, dbConn)
	if err != nil {
		return err
	}

	k := approvalMapKey(owner, operator)
	if approved {
		approvals[k] = true
	} else {
		delete(approvals, k)
	}

	data, err := json.Marshal(approvals)
	if err != nil {
		return err
	}

	return dbConn.Put(ctx, approvalKey, data)
}

func isApprovedForAll(ctx context.Context, dbConn *db.DB, owner, operator ethaddr.Address) (bool, error) {
	approvals, err := fetchApprovals(ctx, dbConn)
	if err != nil {
		return false, err
	}

	return approvals[approvalMapKey(owner, operator)], nil
}

func approvalMapKey(owner, operator ethaddr.Address) string {
	return fmt.Sprintf("%s/%s", owner.String(), operator.String())
}

func buildTokenURI(baseURI string, editionID uint64) string {
	if len(baseURI) == 0 {
		return ""
	}
	return fmt.Sprintf("%s%d", baseURI, editionID)
}

func buildStoragePath(editionID uint64) string {
	return fmt.Sprintf("%s/%010d", storageKey, editionID)
}
