package bootstrap

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/tokenizedart/settlement/internal/artwork"
	"github.com/tokenizedart/settlement/internal/edition"
	"github.com/tokenizedart/settlement/internal/fees"
	"github.com/tokenizedart/settlement/internal/funds"
	"github.com/tokenizedart/settlement/internal/listing"
	"github.com/tokenizedart/settlement/internal/platform/config"
	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/internal/platform/logger"
	"github.com/tokenizedart/settlement/internal/royalty"
	"github.com/tokenizedart/settlement/internal/settlement"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
	"github.com/tokenizedart/settlement/pkg/events"
)

func NewContextWithDevelopmentLogger() context.Context {
	os.Setenv("MARKET_LOG_FORMAT", "DEVELOPMENT")
	return logger.NewContext()
}

func NewConfigFromEnv(ctx context.Context) *config.Config {
	log := logger.NewLoggerFromContext(ctx)

	cfg, err := config.Environment()
	if err != nil {
		log.Fatal("Parsing config", zap.Error(err))
	}

	// Mask sensitive values
	cfgSafe := config.SafeConfig(*cfg)
	cfgJSON, err := json.MarshalIndent(cfgSafe, "", "    ")
	if err != nil {
		log.Fatal("Marshalling config to JSON", zap.Error(err))
	}
	log.Info("Config", zap.String("config", string(cfgJSON)))

	return cfg
}

func NewMasterDB(ctx context.Context, cfg *config.Config) *db.DB {
	log := logger.NewLoggerFromContext(ctx)

	masterDB, err := db.New(&db.StorageConfig{
		Bucket: cfg.Storage.Bucket,
		Root:   cfg.Storage.Root,
	})
	if err != nil {
		log.Fatal("Register DB", zap.Error(err))
	}

	return masterDB
}

// Market is the fully wired settlement stack the commands operate on.
type Market struct {
	DB        *db.DB
	Journal   *events.Journal
	Artworks  *artwork.Registry
	Editions  *edition.Registry
	Book      *listing.Book
	Royalties *royalty.Resolver
	Fees      *fees.Admin
	Ledger    *funds.StoredLedger
	Engine    *settlement.Engine

	Operator ethaddr.Address
	Admin    ethaddr.Address
	Treasury ethaddr.Address
}

// NewMarket opens every component against the master DB. The operator address
// doubles as the settlement escrow, so sellers approve a single marketplace
// address.
func NewMarket(ctx context.Context, cfg *config.Config, masterDB *db.DB) *Market {
	log := logger.NewLoggerFromContext(ctx)

	m := &Market{DB: masterDB}

	var err error
	if m.Operator, err = ethaddr.Decode(cfg.Market.OperatorAddress); err != nil {
		log.Fatal("Invalid operator address", zap.Error(err))
	}
	if m.Admin, err = ethaddr.Decode(cfg.Market.AdminAddress); err != nil {
		log.Fatal("Invalid admin address", zap.Error(err))
	}
	if m.Treasury, err = ethaddr.Decode(cfg.Market.TreasuryAddress); err != nil {
		log.Fatal("Invalid treasury address", zap.Error(err))
	}

	if m.Journal, err = events.OpenJournal(ctx, masterDB); err != nil {
		log.Fatal("Open journal", zap.Error(err))
	}
	if m.Artworks, err = artwork.OpenRegistry(ctx, masterDB, m.Journal); err != nil {
		log.Fatal("Open artwork registry", zap.Error(err))
	}
	if m.Editions, err = edition.OpenRegistry(ctx, masterDB, m.Journal, cfg.Market.BaseTokenURI); err != nil {
		log.Fatal("Open edition registry", zap.Error(err))
	}
	if m.Book, err = listing.OpenBook(ctx, masterDB, m.Journal, m.Artworks, m.Editions, m.Operator); err != nil {
		log.Fatal("Open listing book", zap.Error(err))
	}
	if m.Fees, err = fees.Open(ctx, masterDB, m.Journal, m.Admin, m.Treasury); err != nil {
		log.Fatal("Open fee admin", zap.Error(err))
	}
	if m.Ledger, err = funds.OpenStoredLedger(ctx, masterDB); err != nil {
		log.Fatal("Open ledger", zap.Error(err))
	}

	m.Royalties = royalty.NewResolver(m.Artworks, m.Editions)
	m.Engine = settlement.NewEngine(masterDB, m.Journal, m.Artworks, m.Editions,
		m.Book, m.Royalties, m.Fees, m.Ledger, m.Operator)

	return m
}
