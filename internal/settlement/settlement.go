// Package settlement orchestrates purchases. A buy validates the listing and
// payment, moves ownership, updates the listing, and splits the payment among
// seller, royalty beneficiary, and treasury as one indivisible unit.
//
// Ordering discipline: the payment capture is the only fund transfer allowed
// before internal state is final, and every check is re-run after it in case
// control left the core; any rejection past that point refunds the capture
// and unwinds whatever effect had landed. A one-shot busy marker rejects
// reentrant calls for the whole settlement.
package settlement

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"github.com/tokenizedart/settlement/internal/artwork"
	"github.com/tokenizedart/settlement/internal/edition"
	"github.com/tokenizedart/settlement/internal/fees"
	"github.com/tokenizedart/settlement/internal/funds"
	"github.com/tokenizedart/settlement/internal/listing"
	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/logger"
	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/internal/royalty"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

var (
	// ErrInsufficientPayment occurs when the payment does not cover the
	// purchase price.
	ErrInsufficientPayment = errors.New("Insufficient payment")

	// ErrReentrantCall occurs when buy is re-entered while a settlement is
	// disbursing funds.
	ErrReentrantCall = errors.New("Reentrant settlement call")

	// ErrInvalidAddress occurs when the buyer is the null address.
	ErrInvalidAddress = errors.New("Invalid address")

	// ErrSplitExceedsPrice occurs when royalty plus platform fee would exceed
	// the purchase price.
	ErrSplitExceedsPrice = errors.New("Split exceeds sale price")

	// ErrPriceOverflow occurs when unit price times quantity does not fit in
	// 256 bits.
	ErrPriceOverflow = errors.New("Price overflow")
)

// Engine executes purchases against the registries, listing book, fee
// configuration, and the external currency ledger. escrow is the engine's
// own address; payments are captured there before disbursement.
type Engine struct {
	dbConn    *db.DB
	journal   *events.Journal
	unique    *artwork.Registry
	editions  *edition.Registry
	book      *listing.Book
	royalties *royalty.Resolver
	fees      *fees.Admin
	ledger    funds.Ledger
	escrow    ethaddr.Address

	mu   sync.Mutex
	busy int32
}

// NewEngine wires the settlement engine to its collaborators. escrow is the
// marketplace address: it holds captured payments during settlement and acts
// as the approved operator when moving sold assets, so it must match the
// operator sellers approve in the registries.
func NewEngine(dbConn *db.DB, journal *events.Journal, unique *artwork.Registry,
	editions *edition.Registry, book *listing.Book, royalties *royalty.Resolver,
	feeAdmin *fees.Admin, ledger funds.Ledger, escrow ethaddr.Address) *Engine {

	return &Engine{
		dbConn:    dbConn,
		journal:   journal,
		unique:    unique,
		editions:  editions,
		book:      book,
		royalties: royalties,
		fees:      feeAdmin,
		ledger:    ledger,
		escrow:    escrow,
	}
}

// Buy settles a purchase of quantity units from a listing, paying
// paymentAmount. Either every step completes or none do: any rejection
// leaves holdings, the listing, and all balances exactly as they were.
func (e *Engine) Buy(ctx context.Context, buyer ethaddr.Address, listingID, quantity uint64,
	paymentAmount *uint256.Int, now int64) (*state.SaleReceipt, error) {

	ctx, span := trace.StartSpan(ctx, "internal.settlement.Buy")
	defer span.End()

	// Reject reentry before touching the engine lock; a reentrant call holds
	// the lock already and would deadlock on it.
	if atomic.LoadInt32(&e.busy) != 0 {
		return nil, ErrReentrantCall
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	atomic.StoreInt32(&e.busy, 1)
	defer atomic.StoreInt32(&e.busy, 0)

	if buyer.IsZero() {
		return nil, ErrInvalidAddress
	}
	if paymentAmount == nil {
		paymentAmount = uint256.NewInt(0)
	}

	// Checks. Nothing below mutates state until every one has passed.
	l, err := e.book.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.Active {
		return nil, listing.ErrInactive
	}
	if quantity == 0 {
		return nil, listing.ErrQuantityInvalid
	}
	if quantity > l.Quantity {
		return nil, listing.ErrQuantityExceedsRemaining
	}

	required, overflow := new(uint256.Int).MulOverflow(l.UnitPrice, uint256.NewInt(quantity))
	if overflow {
		return nil, ErrPriceOverflow
	}
	if paymentAmount.Lt(required) {
		return nil, ErrInsufficientPayment
	}

	beneficiary, royaltyAmount, err := e.royalties.RoyaltyInfo(ctx, l.Asset, required)
	if err != nil {
		return nil, errors.Wrap(err, "royalty info")
	}

	feeAmount := royalty.Split(required, e.fees.Bps())

	split := new(uint256.Int).Add(royaltyAmount, feeAmount)
	if split.Gt(required) {
		return nil, ErrSplitExceedsPrice
	}
	// The integer division remainder stays with the seller.
	sellerProceeds := new(uint256.Int).Sub(required, split)

	// The seller must still hold the asset; listings are validated at
	// creation, not kept in sync with later transfers.
	if err := e.checkSellerHolding(ctx, l, quantity); err != nil {
		return nil, err
	}

	// Capture the payment into escrow. Nothing else has changed yet, so a
	// failed capture rejects the purchase outright. This is the first point
	// where control can leave the core, so the checks run again below.
	if err := e.ledger.Transfer(ctx, buyer, e.escrow, paymentAmount); err != nil {
		return nil, errors.Wrap(err, "capture payment")
	}

	// The capture may have handed control to outside code. Re-validate
	// against current state; from here on, every rejection hands the
	// captured payment back before returning.
	l, err = e.book.Get(ctx, listingID)
	if err != nil {
		return nil, e.rejectCaptured(ctx, buyer, paymentAmount, err)
	}
	if !l.Active {
		return nil, e.rejectCaptured(ctx, buyer, paymentAmount, listing.ErrInactive)
	}
	if quantity > l.Quantity {
		return nil, e.rejectCaptured(ctx, buyer, paymentAmount, listing.ErrQuantityExceedsRemaining)
	}
	if err := e.checkSellerHolding(ctx, l, quantity); err != nil {
		return nil, e.rejectCaptured(ctx, buyer, paymentAmount, err)
	}

	// Effects. The fill lands first so the listing cannot change under the
	// purchase once ownership moves; a failed asset transfer unwinds it.
	if err := e.book.ApplyFill(ctx, listingID, quantity); err != nil {
		return nil, e.rejectCaptured(ctx, buyer, paymentAmount, errors.Wrap(err, "apply fill"))
	}

	if err := e.transferAsset(ctx, l, buyer, quantity, now); err != nil {
		if revertErr := e.book.RevertFill(ctx, listingID, quantity); revertErr != nil {
			return nil, errors.Wrap(revertErr, "revert fill")
		}
		return nil, e.rejectCaptured(ctx, buyer, paymentAmount, err)
	}

	// Interactions. Internal state is final; control may now leave the core.
	if err := e.disburse(ctx, l.Seller, beneficiary, royaltyAmount, feeAmount, sellerProceeds); err != nil {
		return nil, err
	}

	refund := new(uint256.Int).Sub(paymentAmount, required)
	if !refund.IsZero() {
		if err := e.ledger.Transfer(ctx, e.escrow, buyer, refund); err != nil {
			return nil, errors.Wrap(err, "refund overpayment")
		}
	}

	receipt := state.SaleReceipt{
		ListingID: listingID,
		Buyer:     buyer,
		Seller:    l.Seller,
		Paid:      required,
		Royalty:   royaltyAmount,
		Fee:       feeAmount,
		Proceeds:  sellerProceeds,
		Refund:    refund,
		Quantity:  quantity,
		Timestamp: now,
	}
	if err := saveReceipt(ctx, e.dbConn, &receipt); err != nil {
		return nil, errors.Wrap(err, "save receipt")
	}

	logger.NewLoggerFromContext(ctx).Info("Settled sale",
		zap.Uint64("listing_id", listingID),
		zap.String("buyer", buyer.String()),
		zap.Uint64("quantity", quantity),
		zap.String("paid", required.Dec()))

	if err := e.journal.Append(ctx, events.TypeSale, events.Sale{
		ListingID:     listingID,
		Buyer:         buyer,
		Seller:        l.Seller,
		PaidAmount:    required,
		RoyaltyAmount: royaltyAmount,
		FeeAmount:     feeAmount,
		Quantity:      quantity,
	}, now); err != nil {
		return nil, errors.Wrap(err, "append event")
	}

	return &receipt, nil
}

// rejectCaptured returns a captured payment to the buyer and passes the
// rejection through. A failed refund takes precedence over the cause; it
// means the payment is stranded in escrow.
func (e *Engine) rejectCaptured(ctx context.Context, buyer ethaddr.Address,
	captured *uint256.Int, cause error) error {

	if err := e.ledger.Transfer(ctx, e.escrow, buyer, captured); err != nil {
		return errors.Wrap(err, "refund captured payment")
	}
	return cause
}

func (e *Engine) checkSellerHolding(ctx context.Context, l *state.Listing, quantity uint64) error {
	switch l.Asset.Standard {
	case state.StandardUnique:
		owner, err := e.unique.OwnerOf(ctx, l.Asset.ID)
		if err != nil {
			return err
		}
		if !owner.Equal(l.Seller) {
			return artwork.ErrNotOwner
		}
	case state.StandardEdition:
		balance, err := e.editions.BalanceOf(ctx, l.Seller, l.Asset.ID)
		if err != nil {
			return err
		}
		if balance < quantity {
			return edition.ErrInsufficientHolding
		}
	}
	return nil
}

func (e *Engine) transferAsset(ctx context.Context, l *state.Listing, buyer ethaddr.Address,
	quantity uint64, now int64) error {

	switch l.Asset.Standard {
	case state.StandardUnique:
		return e.unique.Transfer(ctx, e.escrow, l.Seller, buyer, l.Asset.ID, now)
	case state.StandardEdition:
		return e.editions.Transfer(ctx, e.escrow, l.Seller, buyer, l.Asset.ID, quantity, now)
	}
	return errors.Errorf("Unknown token standard : %s", l.Asset.Standard)
}

func (e *Engine) disburse(ctx context.Context, seller, beneficiary ethaddr.Address,
	royaltyAmount, feeAmount, sellerProceeds *uint256.Int) error {

	if !royaltyAmount.IsZero() {
		if err := e.ledger.Transfer(ctx, e.escrow, beneficiary, royaltyAmount); err != nil {
			return errors.Wrap(err, "pay royalty")
		}
	}
	if !feeAmount.IsZero() {
		if err := e.ledger.Transfer(ctx, e.escrow, e.fees.Treasury(), feeAmount); err != nil {
			return errors.Wrap(err, "pay platform fee")
		}
	}
	if !sellerProceeds.IsZero() {
		if err := e.ledger.Transfer(ctx, e.escrow, seller, sellerProceeds); err != nil {
			return errors.Wrap(err, "pay seller")
		}
	}

	return nil
}
