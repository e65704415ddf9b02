// Package artwork is the ownership registry for unique assets. Each token has
// exactly one owner at any time and its metadata is immutable after mint.
package artwork

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
	ErrNotFound = errors.New("Artwork not found")

	// ErrInvalidAddress occurs when a participant address is the null address.
	ErrInvalidAddress = errors.New("Invalid address")

	// ErrEmptyTitle occurs when minting without a title.
	ErrEmptyTitle = errors.New("Title cannot be empty")

	// ErrRoyaltyTooHigh occurs when the royalty rate exceeds 100%.
	ErrRoyaltyTooHigh = errors.New("Royalty percentage too high")

	// ErrNotOwner occurs when the from address does not hold the token.
	ErrNotOwner = errors.New("Not the owner")

	// ErrNotApproved occurs when the caller is neither the owner nor the
	// approved operator.
	ErrNotApproved = errors.New("Not approved")
)

// Registry owns the unique asset state: metadata, current ownership, and the
// incrementing token id counter. Counters are instance state so separate
// deployments stay independent.
type Registry struct {
	dbConn  *db.DB
	journal *events.Journal

	mu     sync.Mutex
	nextID uint64
}

// OpenRegistry loads the registry counter from storage. Token ids start at 1.
func OpenRegistry(ctx context.Context, dbConn *db.DB, journal *events.Journal) (*Registry, error) {
	ctx, span := trace.StartSpan(ctx, "internal.artwork.OpenRegistry")
	defer span.End()

	next, err := fetchCounter(ctx, dbConn)
	if err != nil {
		return nil, errors.Wrap(err, "fetch counter")
	}

	return &Registry{
		dbConn:  dbConn,
		journal: journal,
		nextID:  next,
	}, nil
}

// Mint creates a new unique asset owned by owner and returns its token id.
func (r *Registry) Mint(ctx context.Context, owner ethaddr.Address, title, medium string,
	createdAt int64, contentHash state.Hash32, tokenURI string, royaltyBps uint32,
	now int64) (uint64, error) {

	ctx, span := trace.StartSpan(ctx, "internal.artwork.Mint")
	defer span.End()

	if owner.IsZero() {
		return 0, ErrInvalidAddress
	}
	if len(title) == 0 {
		return 0, ErrEmptyTitle
	}
	if royaltyBps > MaxRoyaltyBps {
		return 0, ErrRoyaltyTooHigh
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := state.Artwork{
		ID:          r.nextID,
		Creator:     owner,
		Title:       title,
		Medium:      medium,
		CreatedAt:   createdAt,
		ContentHash: contentHash,
		TokenURI:    tokenURI,
		RoyaltyBps:  royaltyBps,
		Owner:       owner,
		MintedAt:    now,
	}

	if err := Save(ctx, r.dbConn, &a); err != nil {
		return 0, errors.Wrap(err, "save artwork")
	}
	if err := saveCounter(ctx, r.dbConn, r.nextID+1); err != nil {
		return 0, errors.Wrap(err, "save counter")
	}
	r.nextID++

	logger.NewLoggerFromContext(ctx).Info("Minted artwork",
		zap.Uint64("token_id", a.ID),
		zap.String("creator", owner.String()))

	if err := r.journal.Append(ctx, events.TypeAssetMinted, events.AssetMinted{
		ID:          a.ID,
		Creator:     owner,
		Title:       title,
		ContentHash: contentHash,
		RoyaltyBps:  royaltyBps,
	}, now); err != nil {
		return 0, errors.Wrap(err, "append event")
	}

	return a.ID, nil
}

// Transfer atomically moves the token from one owner to another. The caller
// must be the current owner or the approved operator. The per-token approval
// is cleared on transfer.
func (r *Registry) Transfer(ctx context.Context, caller, from, to ethaddr.Address,
	tokenID uint64, now int64) error {

	ctx, span := trace.StartSpan(ctx, "internal.artwork.Transfer")
	defer span.End()

	if to.IsZero() {
		return ErrInvalidAddress
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := Fetch(ctx, r.dbConn, tokenID)
	if err != nil {
		return err
	}

	if !a.Owner.Equal(from) {
		return ErrNotOwner
	}
	if !caller.Equal(a.Owner) && !caller.Equal(a.Approved) {
		return ErrNotApproved
	}

	a.Owner = to
	a.Approved = ethaddr.Zero

	if err := Save(ctx, r.dbConn, a); err != nil {
		return errors.Wrap(err, "save artwork")
	}

	return r.journal.Append(ctx, events.TypeOwnershipTransferred, events.OwnershipTransferred{
		Asset:  state.AssetRef{Standard: state.StandardUnique, ID: tokenID},
		From:   from,
		To:     to,
		Amount: 1,
	}, now)
}

// Approve authorizes one operator to move the token on the owner's behalf.
func (r *Registry) Approve(ctx context.Context, owner, operator ethaddr.Address, tokenID uint64) error {
	ctx, span := trace.StartSpan(ctx, "internal.artwork.Approve")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := Fetch(ctx, r.dbConn, tokenID)
	if err != nil {
		return err
	}

	if !a.Owner.Equal(owner) {
		return ErrNotOwner
	}

	a.Approved = operator
	return Save(ctx, r.dbConn, a)
}

// IsApproved reports whether operator may move the token.
func (r *Registry) IsApproved(ctx context.Context, operator ethaddr.Address, tokenID uint64) (bool, error) {
	a, err := Fetch(ctx, r.dbConn, tokenID)
	if err != nil {
		return false, err
	}

	return a.Approved.Equal(operator), nil
}

// OwnerOf returns the current owner of the token.
func (r *Registry) OwnerOf(ctx context.Context, tokenID uint64) (ethaddr.Address, error) {
	a, err := Fetch(ctx, r.dbConn, tokenID)
	if err != nil {
		return ethaddr.Zero, err
	}

	return a.Owner, nil
}

// Metadata returns the immutable asset record.
func (r *Registry) Metadata(ctx context.Context, tokenID uint64) (*state.Artwork, error) {
	return Fetch(ctx, r.dbConn, tokenID)
}

// TotalSupply returns the number of minted tokens.
func (r *Registry) TotalSupply() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextID - 1
}

// SupportsRoyalty reports the royalty capability of this registry. Resolvers
// probe this instead of inspecting types.
func (r *Registry) SupportsRoyalty() bool {
	return true
}
