package settlement

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/state"
)

const storageKey = "sales"

// saveReceipt stores one sale receipt. Receipts are keyed by a random id;
// ordered history lives in the event journal.
func saveReceipt(ctx context.Context, dbConn *db.DB, receipt *state.SaleReceipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return errors.Wrap(err, "marshal receipt")
	}

	uid, _ := uuid.NewRandom()
	key := fmt.Sprintf("%s/%s", storageKey, uid.String())

	return dbConn.Put(ctx, key, data)
}

// ListReceipts returns every stored sale receipt.
func ListReceipts(ctx context.Context, dbConn *db.DB) ([]*state.SaleReceipt, error) {
	keys, err := dbConn.List(ctx, storageKey)
	if err != nil {
		return nil, errors.Wrap(err, "list receipts")
	}

	receipts := make([]*state.SaleReceipt, 0, len(keys))
	for _, key := range keys {
		data, err := dbConn.Fetch(ctx, key)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch %s", key)
		}

		r := &state.SaleReceipt{}
		if err := json.Unmarshal(data, r); err != nil {
			return nil, errors.Wrapf(err, "unmarshal %s", key)
		}
		receipts = append(receipts, r)
	}

	return receipts, nil
}
