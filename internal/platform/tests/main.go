package tests

import (
	"context"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/artwork"
	"github.com/tokenizedart/settlement/internal/edition"
	"github.com/tokenizedart/settlement/internal/fees"
	"github.com/tokenizedart/settlement/internal/funds"
	"github.com/tokenizedart/settlement/internal/listing"
	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/logger"
	"github.com/tokenizedart/settlement/internal/royalty"
	"github.com/tokenizedart/settlement/internal/settlement"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

// Test wires a full marketplace stack against a throwaway filesystem store.
type Test struct {
	DB        *db.DB
	Journal   *events.Journal
	Artworks  *artwork.Registry
	Editions  *edition.Registry
	Book      *listing.Book
	Royalties *royalty.Resolver
	Fees      *fees.Admin
	Ledger    *funds.MemLedger
	Engine    *settlement.Engine

	Admin ethaddr.Address

	// Operator is the marketplace address. It is both the operator sellers
	// approve in the registries and the escrow account payments pass through.
	Operator ethaddr.Address

	Treasury  ethaddr.Address
	Creator   ethaddr.Address
	Collector ethaddr.Address
	Buyer     ethaddr.Address

	root string
}

func (test *Test) Setup(ctx context.Context) error {
	root, err := os.MkdirTemp("", "settlement-test")
	if err != nil {
		return errors.Wrap(err, "Failed to create temp dir")
	}
	test.root = root

	test.DB, err = db.New(&db.StorageConfig{
		Bucket: "standalone",
		Root:   root,
	})
	if err != nil {
		return errors.Wrap(err, "Failed to create DB")
	}

	test.Admin = NamedAddress(0x0a)
	test.Operator = NamedAddress(0x0b)
	test.Treasury = NamedAddress(0x0d)
	test.Creator = NamedAddress(0x11)
	test.Collector = NamedAddress(0x22)
	test.Buyer = NamedAddress(0x33)

	test.Journal, err = events.OpenJournal(ctx, test.DB)
	if err != nil {
		return errors.Wrap(err, "Failed to open journal")
	}

	test.Artworks, err = artwork.OpenRegistry(ctx, test.DB, test.Journal)
	if err != nil {
		return errors.Wrap(err, "Failed to open artwork registry")
	}

	test.Editions, err = edition.OpenRegistry(ctx, test.DB, test.Journal,
		"https://api.test.local/metadata/")
	if err != nil {
		return errors.Wrap(err, "Failed to open edition registry")
	}

	test.Book, err = listing.OpenBook(ctx, test.DB, test.Journal,
		test.Artworks, test.Editions, test.Operator)
	if err != nil {
		return errors.Wrap(err, "Failed to open listing book")
	}

	test.Fees, err = fees.Open(ctx, test.DB, test.Journal, test.Admin, test.Treasury)
	if err != nil {
		return errors.Wrap(err, "Failed to open fee admin")
	}

	test.Royalties = royalty.NewResolver(test.Artworks, test.Editions)
	test.Ledger = funds.NewMemLedger()

	test.Engine = settlement.NewEngine(test.DB, test.Journal, test.Artworks,
		test.Editions, test.Book, test.Royalties, test.Fees, test.Ledger, test.Operator)

	return nil
}

func (test *Test) Close(ctx context.Context) {
	if test.root != "" {
		os.RemoveAll(test.root)
	}
}

// Context returns a request-scoped context the way the daemon builds one.
func (test *Test) Context(ctx context.Context, requestID string) context.Context {
	return logger.ContextWithRequestID(ctx, requestID)
}

// Fund credits amount to addr on the in-memory ledger.
func (test *Test) Fund(ctx context.Context, addr ethaddr.Address, amount uint64) error {
	return test.Ledger.Deposit(ctx, addr, uint256.NewInt(amount))
}
