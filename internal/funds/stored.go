package funds

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/tokenizedart/settlement/internal/platform/db"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

const storageKey = "ledger/balances"

// StoredLedger persists balances as a single JSON document. It exists so the
// CLI can exercise full settlements against local storage; production
// deployments point the engine at the real currency system instead.
type StoredLedger struct {
	dbConn *db.DB

	mu       sync.Mutex
	balances map[ethaddr.Address]*uint256.Int
}

// OpenStoredLedger loads the balance document, starting empty when absent.
func OpenStoredLedger(ctx context.Context, dbConn *db.DB) (*StoredLedger, error) {
	ctx, span := trace.StartSpan(ctx, "internal.funds.OpenStoredLedger")
	defer span.End()

	l := &StoredLedger{
		dbConn:   dbConn,
		balances: make(map[ethaddr.Address]*uint256.Int),
	}

	data, err := dbConn.Fetch(ctx, storageKey)
	if err != nil {
		if errors.Cause(err) == db.ErrNotFound {
			return l, nil
		}
		return nil, errors.Wrap(err, "fetch balances")
	}

	if err := json.Unmarshal(data, &l.balances); err != nil {
		return nil, errors.Wrap(err, "unmarshal balances")
	}

	return l, nil
}

func (l *StoredLedger) Balance(ctx context.Context, addr ethaddr.Address) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, exists := l.balances[addr]; exists {
		return b.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

func (l *StoredLedger) Deposit(ctx context.Context, to ethaddr.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return ErrInvalidAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b, exists := l.balances[to]; exists {
		b.Add(b, amount)
	} else {
		l.balances[to] = amount.Clone()
	}

	return l.save(ctx)
}

func (l *StoredLedger) Transfer(ctx context.Context, from, to ethaddr.Address, amount *uint256.Int) error {
	ctx, span := trace.StartSpan(ctx, "internal.funds.StoredLedger.Transfer")
	defer span.End()

	if from.IsZero() || to.IsZero() {
		return ErrInvalidAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, exists := l.balances[from]
	if !exists || balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "from %s", from.String())
	}

	balance.Sub(balance, amount)
	if b, exists := l.balances[to]; exists {
		b.Add(b, amount)
	} else {
		l.balances[to] = amount.Clone()
	}

	return l.save(ctx)
}

// save must be called with the lock held.
func (l *StoredLedger) save(ctx context.Context) error {
	data, err := json.Marshal(l.balances)
	if err != nil {
		return errors.Wrap(err, "marshal balances")
	}

	return l.dbConn.Put(ctx, storageKey, data)
}
