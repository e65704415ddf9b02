package indexer

import (
	"context"
)

// ListingRow is one projected listing.
type ListingRow struct {
	ID        uint64
	Seller    string
	Standard  string
	AssetID   uint64
	UnitPrice string
	Quantity  uint64
	Status    string
}

// SaleRow is one projected sale.
type SaleRow struct {
	ListingID uint64
	Buyer     string
	Seller    string
	Paid      string
	Royalty   string
	Fee       string
	Quantity  uint64
	At        int64
}

// ProvenanceRow is one entry in an asset's provenance trail.
type ProvenanceRow struct {
	Type   string
	From   string
	To     string
	Amount uint64
	At     int64
}

// Listings returns all projected listings, optionally filtered by status.
func (ix *Index) Listings(ctx context.Context, status string) ([]ListingRow, error) {
	q := `SELECT id, seller, standard, asset_id, unit_price, quantity, status
	      FROM listings ORDER BY id`
	args := []interface{}{}
	if status != "" {
		q = `SELECT id, seller, standard, asset_id, unit_price, quantity, status
		     FROM listings WHERE status = ? ORDER BY id`
		args = append(args, status)
	}

	rows, err := ix.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListingRow
	for rows.Next() {
		var r ListingRow
		if err := rows.Scan(&r.ID, &r.Seller, &r.Standard, &r.AssetID,
			&r.UnitPrice, &r.Quantity, &r.Status); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Sales returns all projected sales in settlement order.
func (ix *Index) Sales(ctx context.Context) ([]SaleRow, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT listing_id, buyer, seller, paid, royalty, fee, quantity, at
		 FROM sales ORDER BY at, listing_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SaleRow
	for rows.Next() {
		var r SaleRow
		if err := rows.Scan(&r.ListingID, &r.Buyer, &r.Seller, &r.Paid,
			&r.Royalty, &r.Fee, &r.Quantity, &r.At); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Provenance returns the trail for one asset in journal order.
func (ix *Index) Provenance(ctx context.Context, standard string, assetID uint64) ([]ProvenanceRow, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT type, from_addr, to_addr, amount, at
		 FROM provenance WHERE standard = ? AND asset_id = ?
		 ORDER BY seq`,
		standard, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProvenanceRow
	for rows.Next() {
		var r ProvenanceRow
		if err := rows.Scan(&r.Type, &r.From, &r.To, &r.Amount, &r.At); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
