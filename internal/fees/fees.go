// Package fees holds the platform fee configuration and gates changes to the
// single admin address.
package fees

import (
	"context"
	"encoding/json"
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
	// DefaultBps is the platform fee applied when no configuration has been
	// stored yet. 250 bps = 2.5%.
	DefaultBps = 250

	// MaxBps is the hard cap enforced on every update. 1000 bps = 10%.
	MaxBps = 1000

	storageKey = "config/fees"
)

var (
	// ErrUnauthorized occurs when a caller other than the admin attempts an
	// update.
	ErrUnauthorized = errors.New("Unauthorized caller")

	// ErrFeeTooHigh occurs when an update exceeds the hard cap.
	ErrFeeTooHigh = errors.New("Fee too high")
)

// Admin owns the fee configuration. The admin address is explicit state, not
// a role derived elsewhere.
type Admin struct {
	dbConn  *db.DB
	journal *events.Journal
	admin   ethaddr.Address

	mu  sync.Mutex
	cfg state.FeeConfig
}

// Open loads the stored fee configuration, initializing the default rate and
// the given treasury when none exists yet.
func Open(ctx context.Context, dbConn *db.DB, journal *events.Journal,
	admin, treasury ethaddr.Address) (*Admin, error) {

	ctx, span := trace.StartSpan(ctx, "internal.fees.Open")
	defer span.End()

	a := &Admin{
		dbConn:  dbConn,
		journal: journal,
		admin:   admin,
	}

	data, err := dbConn.Fetch(ctx, storageKey)
	if err != nil {
		if errors.Cause(err) != db.ErrNotFound {
			return nil, errors.Wrap(err, "fetch fee config")
		}

		a.cfg = state.FeeConfig{
			Bps:      DefaultBps,
			Treasury: treasury,
		}
		if err := a.save(ctx); err != nil {
			return nil, errors.Wrap(err, "save fee config")
		}
		return a, nil
	}

	if err := json.Unmarshal(data, &a.cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal fee config")
	}

	return a, nil
}

// UpdatePlatformFee replaces the fee rate. Only the admin may call it and the
// new rate must not exceed the cap.
func (a *Admin) UpdatePlatformFee(ctx context.Context, caller ethaddr.Address, newBps uint32,
	now int64) error {

	ctx, span := trace.StartSpan(ctx, "internal.fees.UpdatePlatformFee")
	defer span.End()

	if !caller.Equal(a.admin) {
		return ErrUnauthorized
	}
	if newBps > MaxBps {
		return ErrFeeTooHigh
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.Bps = newBps
	a.cfg.UpdatedAt = now

	if err := a.save(ctx); err != nil {
		return errors.Wrap(err, "save fee config")
	}

	logger.NewLoggerFromContext(ctx).Info("Updated platform fee",
		zap.Uint32("bps", newBps))

	return a.journal.Append(ctx, events.TypePlatformFeeUpdated, events.PlatformFeeUpdated{
		NewBps: newBps,
	}, now)
}

// Bps returns the current platform fee rate in basis points.
func (a *Admin) Bps() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Bps
}

// Treasury returns the treasury address fees are paid to.
func (a *Admin) Treasury() ethaddr.Address {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Treasury
}

// save must be called with the lock held, except during Open.
func (a *Admin) save(ctx context.Context) error {
	data, err := json.Marshal(&a.cfg)
	if err != nil {
		return err
	}

	return a.dbConn.Put(ctx, storageKey, data)
}
