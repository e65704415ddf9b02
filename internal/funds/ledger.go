// Package funds defines the native currency port consumed by the settlement
// engine. Balances and transfers are owned by an external system; the engine
// only needs to move value between addresses during disbursement. Two
// implementations are provided: an in-memory ledger for tests and a document
// backed ledger for standalone deployments.
package funds

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

var (
	// ErrInsufficientFunds occurs when a transfer exceeds the source balance.
	ErrInsufficientFunds = errors.New("Insufficient funds")

	// ErrInvalidAddress occurs when a transfer involves the null address.
	ErrInvalidAddress = errors.New("Invalid address")
)

// Ledger is the external balance/transfer primitive.
type Ledger interface {
	Balance(ctx context.Context, addr ethaddr.Address) (*uint256.Int, error)
	Transfer(ctx context.Context, from, to ethaddr.Address, amount *uint256.Int) error
	Deposit(ctx context.Context, to ethaddr.Address, amount *uint256.Int) error
}
