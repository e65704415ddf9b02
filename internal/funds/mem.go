package funds

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

// MemLedger is an in-memory Ledger used by tests.
type MemLedger struct {
	mu       sync.Mutex
	balances map[ethaddr.Address]*uint256.Int

	// TransferHook, when set, runs after every successful transfer. Tests use
	// it to simulate outside code regaining control during disbursement.
	TransferHook func(from, to ethaddr.Address, amount *uint256.Int)
}

// NewMemLedger returns an empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		balances: make(map[ethaddr.Address]*uint256.Int),
	}
}

func (l *MemLedger) Balance(ctx context.Context, addr ethaddr.Address) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, exists := l.balances[addr]; exists {
		return b.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

func (l *MemLedger) Deposit(ctx context.Context, to ethaddr.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return ErrInvalidAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.credit(to, amount)
	return nil
}

func (l *MemLedger) Transfer(ctx context.Context, from, to ethaddr.Address, amount *uint256.Int) error {
	if from.IsZero() || to.IsZero() {
		return ErrInvalidAddress
	}

	l.mu.Lock()

	balance, exists := l.balances[from]
	if !exists || balance.Lt(amount) {
		l.mu.Unlock()
		return errors.Wrapf(ErrInsufficientFunds, "from %s", from.String())
	}

	balance.Sub(balance, amount)
	l.credit(to, amount)
	hook := l.TransferHook
	l.mu.Unlock()

	if hook != nil {
		hook(from, to, amount.Clone())
	}
	return nil
}

// credit must be called with the lock held.
func (l *MemLedger) credit(to ethaddr.Address, amount *uint256.Int) {
	if b, exists := l.balances[to]; exists {
		b.Add(b, amount)
		return
	}
	l.balances[to] = amount.Clone()
}
