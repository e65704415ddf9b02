// Package events defines the notifications emitted by the settlement core and
// the append-only journal they are written to. The journal is the input to
// the read-model indexer and is not part of core state.
package events

import (
	"encoding/json"

	"github.com/holiman/uint256"

	"github.com/tokenizedart/settlement/internal/platform/state"
	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

// Type names a notification kind.
type Type string

const (
	TypeAssetMinted          Type = "AssetMinted"
	TypeEditionCreated       Type = "EditionCreated"
	TypeEditionMinted        Type = "EditionMinted"
	TypeListingCreated       Type = "ListingCreated"
	TypeListingCancelled     Type = "ListingCancelled"
	TypeSale                 Type = "Sale"
	TypePlatformFeeUpdated   Type = "PlatformFeeUpdated"
	TypeOwnershipTransferred Type = "OwnershipTransferred"
)

// Record is one journal entry. Seq is assigned by the journal and records are
// totally ordered by it.
type Record struct {
	ID        string          `json:"ID"`
	Seq       uint64          `json:"Seq"`
	Type      Type            `json:"Type"`
	Timestamp int64           `json:"Timestamp"`
	Payload   json.RawMessage `json:"Payload"`
}

type AssetMinted struct {
	ID          uint64          `json:"ID"`
	Creator     ethaddr.Address `json:"Creator"`
	Title       string          `json:"Title"`
	ContentHash state.Hash32    `json:"ContentHash"`
	RoyaltyBps  uint32          `json:"RoyaltyBps"`
}

type EditionCreated struct {
	ID          uint64          `json:"ID"`
	Creator     ethaddr.Address `json:"Creator"`
	Title       string          `json:"Title"`
	MaxSupply   uint64          `json:"MaxSupply"`
	ContentHash state.Hash32    `json:"ContentHash"`
	RoyaltyBps  uint32          `json:"RoyaltyBps"`
}

type EditionMinted struct {
	ID     uint64          `json:"ID"`
	To     ethaddr.Address `json:"To"`
	Amount uint64          `json:"Amount"`
}

type ListingCreated struct {
	ID        uint64          `json:"ID"`
	Seller    ethaddr.Address `json:"Seller"`
	Asset     state.AssetRef  `json:"Asset"`
	UnitPrice *uint256.Int    `json:"UnitPrice"`
	Quantity  uint64          `json:"Quantity"`
}

type ListingCancelled struct {
	ID uint64 `json:"ID"`
}

type Sale struct {
	ListingID     uint64          `json:"ListingID"`
	Buyer         ethaddr.Address `json:"Buyer"`
	Seller        ethaddr.Address `json:"Seller"`
	PaidAmount    *uint256.Int    `json:"PaidAmount"`
	RoyaltyAmount *uint256.Int    `json:"RoyaltyAmount"`
	FeeAmount     *uint256.Int    `json:"FeeAmount"`
	Quantity      uint64          `json:"Quantity"`
}

type PlatformFeeUpdated struct {
	NewBps uint32 `json:"NewBps"`
}

type OwnershipTransferred struct {
	Asset  state.AssetRef  `json:"Asset"`
	From   ethaddr.Address `json:"From"`
	To     ethaddr.Address `json:"To"`
	Amount uint64          `json:"Amount"`
}
