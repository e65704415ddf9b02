// Package edition is the ownership registry for fungible assets. An edition
// has a fixed maximum supply and its units are spread across many holders.
// The sum of all holdings of an edition always equals its current supply.
package edition

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/logger"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

const (
	// MaxRoyaltyBps caps the royalty rate at 100%.
	MaxRoyaltyBps = 10000
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Edition not found")

	// ErrInvalidAddress occurs when a participant address is the null address.
	ErrInvalidAddress = errors.New("Invalid address")

	// ErrEmptyTitle occurs when creating an edition without a title.
	ErrEmptyTitle = errors.New("Title cannot be empty")

	// ErrRoyaltyTooHigh occurs when the royalty rate exceeds 100%.
	ErrRoyaltyTooHigh = errors.New("Royalty percentage too high")

	// ErrMaxSupplyInvalid occurs when creating an edition with no supply.
	ErrMaxSupplyInvalid = errors.New("Max supply must be greater than 0")

	// ErrAmountMustBePositive occurs when minting or transferring zero units.
	ErrAmountMustBePositive = errors.New("Amount must be greater than 0")

	// ErrSupplyExceeded occurs when a mint would push the current supply past
	// the maximum.
	ErrSupplyExceeded = errors.New("Exceeds max supply")

	// ErrInsufficientHolding occurs when the from address holds fewer units
	// than the operation requires.
	ErrInsufficientHolding = errors.New("Insufficient holdings")

	// ErrNotApproved occurs when the caller is neither the holder nor an
	// approved operator.
	ErrNotApproved = errors.New("Not approved")
)

// Registry owns the edition state: metadata, supplies, holdings, operator
// approvals, and the incrementing edition id counter.
type Registry struct {
	dbConn  *db.DB
	journal *events.Journal
	baseURI string

	mu     sync.Mutex
	nextID uint64
}

// OpenRegistry loads the registry counter from storage. Edition ids start
// at 1. baseURI prefixes the token URI reported for each edition.
func OpenRegistry(ctx context.Context, dbConn *db.DB, journal *events.Journal, baseURI string) (*Registry, error) {
	ctx, span := trace.StartSpan(ctx, "internal.edition.OpenRegistry")
	defer span.End()

	next, err := fetchCounter(ctx, dbConn)
	if err != nil {
		return nil, errors.Wrap(err, "fetch counter")
	}

	return &Registry{
		dbConn:  dbConn,
		journal: journal,
		baseURI: baseURI,
		nextID:  next,
	}, nil
}

// CreateEdition registers a new edition with zero current supply and returns
// its id. No units exist until MintEdition is called.
func (r *Registry) CreateEdition(ctx context.Context, creator ethaddr.Address, title, medium string,
	createdAt int64, contentHash state.Hash32, royaltyBps uint32, maxSupply uint64,
	now int64) (uint64, error) {

	ctx, span := trace.StartSpan(ctx, "internal.edition.CreateEdition")
	defer span.End()

	if creator.IsZero() {
		return 0, ErrInvalidAddress
	}
	if len(title) == 0 {
		return 0, ErrEmptyTitle
	}
	if royaltyBps > MaxRoyaltyBps {
		return 0, ErrRoyaltyTooHigh
	}
	if maxSupply == 0 {
		return 0, ErrMaxSupplyInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := state.Edition{
		ID:          r.nextID,
		Creator:     creator,
		Title:       title,
		Medium:      medium,
		CreatedAt:   createdAt,
		ContentHash: contentHash,
		TokenURI:    buildTokenURI(r.baseURI, r.nextID),
		RoyaltyBps:  royaltyBps,
		MaxSupply:   maxSupply,
		Holdings:    make(map[ethaddr.Address]uint64),
		MintedAt:    now,
	}

	if err := Save(ctx, r.dbConn, &e); err != nil {
		return 0, errors.Wrap(err, "save edition")
	}
	if err := saveCounter(ctx, r.dbConn, r.nextID+1); err != nil {
		return 0, errors.Wrap(err, "save counter")
	}
	r.nextID++

	logger.NewLoggerFromContext(ctx).Info("Created edition",
		zap.Uint64("edition_id", e.ID),
		zap.Uint64("max_supply", maxSupply),
		zap.String("creator", creator.String()))

	if err := r.journal.Append(ctx, events.TypeEditionCreated, events.EditionCreated{
		ID:          e.ID,
		Creator:     creator,
		Title:       title,
		MaxSupply:   maxSupply,
		ContentHash: contentHash,
		RoyaltyBps:  royaltyBps,
	}, now); err != nil {
		return 0, errors.Wrap(err, "append event")
	}

	return e.ID, nil
}

// MintEdition issues amount new units of the edition to the recipient. The
// current supply only ever increases.
func (r *Registry) MintEdition(ctx context.Context, to ethaddr.Address, editionID, amount uint64,
	now int64) error {

	ctx, span := trace.StartSpan(ctx, "internal.edition.MintEdition")
	defer span.End()

	if to.IsZero() {
		return ErrInvalidAddress
	}
	if amount == 0 {
		return ErrAmountMustBePositive
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := Fetch(ctx, r.dbConn, editionID)
	if err != nil {
		return err
	}

	// Compare against the remaining headroom so the sum can never wrap.
	if amount > e.MaxSupply-e.CurrentSupply {
		return ErrSupplyExceeded
	}

	e.CurrentSupply += amount
	e.Holdings[to] += amount

	if err := Save(ctx, r.dbConn, e); err != nil {
		return errors.Wrap(err, "save edition")
	}

	return r.journal.Append(ctx, events.TypeEditionMinted, events.EditionMinted{
		ID:     editionID,
		To:     to,
		Amount: amount,
	}, now)
}

// Transfer moves amount units from one holder to another. The caller must be
// the holder or an operator the holder approved for all assets.
func (r *Registry) Transfer(ctx context.Context, caller, from, to ethaddr.Address,
	editionID, amount uint64, now int64) error {

	ctx, span := trace.StartSpan(ctx, "internal.edition.Transfer")
	defer span.End()

	if to.IsZero() {
		return ErrInvalidAddress
	}
	if amount == 0 {
		return ErrAmountMustBePositive
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := Fetch(ctx, r.dbConn, editionID)
	if err != nil {
		return err
	}

	if e.Holdings[from] < amount {
		return ErrInsufficientHolding
	}

	if !caller.Equal(from) {
		approved, err := isApprovedForAll(ctx, r.dbConn, from, caller)
		if err != nil {
			return err
		}
		if !approved {
			return ErrNotApproved
		}
	}

	e.Holdings[from] -= amount
	if e.Holdings[from] == 0 {
		delete(e.Holdings, from)
	}
	e.Holdings[to] += amount

	if err := Save(ctx, r.dbConn, e); err != nil {
		return errors.Wrap(err, "save edition")
	}

	return r.journal.Append(ctx, events.TypeOwnershipTransferred, events.OwnershipTransferred{
		Asset:  state.AssetRef{Standard: state.StandardEdition, ID: editionID},
		From:   from,
		To:     to,
		Amount: amount,
	}, now)
}

// SetApprovalForAll grants or revokes an operator's right to move all of the
// owner's editions.
func (r *Registry) SetApprovalForAll(ctx context.Context, owner, operator ethaddr.Address, approved bool) error {
	ctx, span := trace.StartSpan(ctx, "internal.edition.SetApprovalForAll")
	defer span.End()

	if operator.IsZero() {
		return ErrInvalidAddress
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return saveApproval(ctx, r.dbConn, owner, operator, approved)
}

// IsApprovedForAll reports whether operator may move the owner's editions.
func (r *Registry) IsApprovedForAll(ctx context.Context, owner, operator ethaddr.Address) (bool, error) {
	return isApprovedForAll(ctx, r.dbConn, owner, operator)
}

// BalanceOf returns the units of an edition held by an address.
func (r *Registry) BalanceOf(ctx context.Context, holder ethaddr.Address, editionID uint64) (uint64, error) {
	e, err := Fetch(ctx, r.dbConn, editionID)
	if err != nil {
		return 0, err
	}

	return e.Holdings[holder], nil
}

// Metadata returns the edition record including supplies and holdings.
func (r *Registry) Metadata(ctx context.Context, editionID uint64) (*state.Edition, error) {
	return Fetch(ctx, r.dbConn, editionID)
}

// RemainingSupply returns how many units can still be minted.
func (r *Registry) RemainingSupply(ctx context.Context, editionID uint64) (uint64, error) {
	e, err := Fetch(ctx, r.dbConn, editionID)
	if err != nil {
		return 0, err
	}

	return e.MaxSupply - e.CurrentSupply, nil
}

// CanMintMore reports whether the edition has unminted supply left.
func (r *Registry) CanMintMore(ctx context.Context, editionID uint64) (bool, error) {
	remaining, err := r.RemainingSupply(ctx, editionID)
	if err != nil {
		return false, err
	}

	return remaining > 0, nil
}

// TotalEditions returns the number of created editions.
func (r *Registry) TotalEditions() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextID - 1
}

// SupportsRoyalty reports the royalty capability of this registry.
func (r *Registry) SupportsRoyalty() bool {
	return true
}
