// Package listing owns the lifecycle of sale offers. Listings reference
// registry assets, are validated against holdings and marketplace approval at
// creation, and are only ever deactivated, never reactivated.
package listing

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"github.com/tokenizedart/settlement/internal/artwork"
	"github.com/tokenizedart/settlement/internal/edition"
	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/logger"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Listing not found")

	// ErrNotOwner occurs when the caller does not hold the asset being listed.
	ErrNotOwner = errors.New("Not the owner")

	// ErrInsufficientHolding occurs when the caller holds fewer units than
	// the listed quantity.
	ErrInsufficientHolding = errors.New("Insufficient holdings")

	// ErrNotApproved occurs when the caller has not authorized the
	// marketplace operator to move the asset.
	ErrNotApproved = errors.New("Marketplace not approved")

	// ErrPriceMustBePositive occurs when the unit price is zero.
	ErrPriceMustBePositive = errors.New("Price must be greater than 0")

	// ErrQuantityInvalid occurs when the listed quantity is zero, or not one
	// for a unique asset.
	ErrQuantityInvalid = errors.New("Quantity invalid")

	// ErrNotSeller occurs when cancellation is attempted by a non-seller.
	ErrNotSeller = errors.New("Not the seller")

	// ErrAlreadyInactive occurs when cancelling a listing that is already
	// sold out or cancelled. The repeat fails; it does not succeed silently.
	ErrAlreadyInactive = errors.New("Listing already inactive")

	// ErrInactive occurs when filling a listing that is no longer active.
	ErrInactive = errors.New("Listing inactive")

	// ErrQuantityExceedsRemaining occurs when a fill asks for more units than
	// the listing has left.
	ErrQuantityExceedsRemaining = errors.New("Quantity exceeds remaining")
)

// Book owns listing state and the incrementing listing id counter. operator
// is the settlement engine's address; sellers must have approved it in the
// relevant registry before listing.
type Book struct {
	dbConn   *db.DB
	journal  *events.Journal
	unique   *artwork.Registry
	editions *edition.Registry
	operator ethaddr.Address

	mu     sync.Mutex
	nextID uint64
}

// OpenBook loads the book counter from storage. Listing ids start at 1.
func OpenBook(ctx context.Context, dbConn *db.DB, journal *events.Journal,
	unique *artwork.Registry, editions *edition.Registry,
	operator ethaddr.Address) (*Book, error) {

	ctx, span := trace.StartSpan(ctx, "internal.listing.OpenBook")
	defer span.End()

	next, err := fetchCounter(ctx, dbConn)
	if err != nil {
		return nil, errors.Wrap(err, "fetch counter")
	}

	return &Book{
		dbConn:   dbConn,
		journal:  journal,
		unique:   unique,
		editions: editions,
		operator: operator,
		nextID:   next,
	}, nil
}

// Create records a new sale offer after validating holdings, approval, price,
// and quantity. Returns the new listing id.
func (b *Book) Create(ctx context.Context, caller ethaddr.Address, ref state.AssetRef,
	unitPrice *uint256.Int, quantity uint64, now int64) (uint64, error) {

	ctx, span := trace.StartSpan(ctx, "internal.listing.Create")
	defer span.End()

	if unitPrice == nil || unitPrice.IsZero() {
		return 0, ErrPriceMustBePositive
	}
	if quantity == 0 {
		return 0, ErrQuantityInvalid
	}

	switch ref.Standard {
	case state.StandardUnique:
		if quantity != 1 {
			return 0, ErrQuantityInvalid
		}

		owner, err := b.unique.OwnerOf(ctx, ref.ID)
		if err != nil {
			return 0, err
		}
		if !owner.Equal(caller) {
			return 0, ErrNotOwner
		}

		approved, err := b.unique.IsApproved(ctx, b.operator, ref.ID)
		if err != nil {
			return 0, err
		}
		if !approved {
			return 0, ErrNotApproved
		}

	case state.StandardEdition:
		balance, err := b.editions.BalanceOf(ctx, caller, ref.ID)
		if err != nil {
			return 0, err
		}
		if balance < quantity {
			return 0, ErrInsufficientHolding
		}

		approved, err := b.editions.IsApprovedForAll(ctx, caller, b.operator)
		if err != nil {
			return 0, err
		}
		if !approved {
			return 0, ErrNotApproved
		}

	default:
		return 0, errors.Errorf("Unknown token standard : %s", ref.Standard)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l := state.Listing{
		ID:        b.nextID,
		Seller:    caller,
		Asset:     ref,
		UnitPrice: unitPrice.Clone(),
		Quantity:  quantity,
		Active:    true,
		CreatedAt: now,
	}

	if err := Save(ctx, b.dbConn, &l); err != nil {
		return 0, errors.Wrap(err, "save listing")
	}
	if err := saveCounter(ctx, b.dbConn, b.nextID+1); err != nil {
		return 0, errors.Wrap(err, "save counter")
	}
	b.nextID++

	logger.NewLoggerFromContext(ctx).Info("Created listing",
		zap.Uint64("listing_id", l.ID),
		zap.String("seller", caller.String()),
		zap.Uint64("quantity", quantity))

	if err := b.journal.Append(ctx, events.TypeListingCreated, events.ListingCreated{
		ID:        l.ID,
		Seller:    caller,
		Asset:     ref,
		UnitPrice: l.UnitPrice,
		Quantity:  quantity,
	}, now); err != nil {
		return 0, errors.Wrap(err, "append event")
	}

	return l.ID, nil
}

// Cancel permanently deactivates a listing. Only the seller may cancel, and
// cancelling an inactive listing is an error, not a no-op success.
func (b *Book) Cancel(ctx context.Context, caller ethaddr.Address, listingID uint64, now int64) error {
	ctx, span := trace.StartSpan(ctx, "internal.listing.Cancel")
	defer span.End()

	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := Fetch(ctx, b.dbConn, listingID)
	if err != nil {
		return err
	}

	if !l.Seller.Equal(caller) {
		return ErrNotSeller
	}
	if !l.Active {
		return ErrAlreadyInactive
	}

	l.Active = false
	if err := Save(ctx, b.dbConn, l); err != nil {
		return errors.Wrap(err, "save listing")
	}

	return b.journal.Append(ctx, events.TypeListingCancelled, events.ListingCancelled{
		ID: listingID,
	}, now)
}

// ApplyFill decrements a listing's remaining quantity after a settlement,
// deactivating it permanently once it reaches zero. Only the settlement
// engine calls this.
func (b *Book) ApplyFill(ctx context.Context, listingID, quantity uint64) error {
	ctx, span := trace.StartSpan(ctx, "internal.listing.ApplyFill")
	defer span.End()

	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := Fetch(ctx, b.dbConn, listingID)
	if err != nil {
		return err
	}

	if !l.Active {
		return ErrInactive
	}
	if quantity > l.Quantity {
		return ErrQuantityExceedsRemaining
	}

	l.Quantity -= quantity
	if l.Quantity == 0 {
		l.Active = false
	}

	return Save(ctx, b.dbConn, l)
}

// RevertFill restores quantity to a listing whose fill could not settle,
// reactivating it if the fill had deactivated it. Only the settlement engine
// calls this, to unwind an ApplyFill it applied in the same purchase.
func (b *Book) RevertFill(ctx context.Context, listingID, quantity uint64) error {
	ctx, span := trace.StartSpan(ctx, "internal.listing.RevertFill")
	defer span.End()

	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := Fetch(ctx, b.dbConn, listingID)
	if err != nil {
		return err
	}

	// Reactivate only when the fill itself emptied the listing; a listing
	// cancelled in the meantime stays cancelled.
	if l.Quantity == 0 {
		l.Active = true
	}
	l.Quantity += quantity

	return Save(ctx, b.dbConn, l)
}

// Get returns a listing by id.
func (b *Book) Get(ctx context.Context, listingID uint64) (*state.Listing, error) {
	return Fetch(ctx, b.dbConn, listingID)
}

// IsActive reports whether a listing is still open for purchase.
func (b *Book) IsActive(ctx context.Context, listingID uint64) (bool, error) {
	l, err := Fetch(ctx, b.dbConn, listingID)
	if err != nil {
		return false, err
	}

	return l.Active, nil
}

// Total returns the number of listings ever created. It only grows.
func (b *Book) Total() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextID - 1
}

// Operator returns the marketplace operator address sellers approve.
func (b *Book) Operator() ethaddr.Address {
	return b.operator
}
