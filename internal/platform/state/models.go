// Package state defines the persisted entity models for the settlement core.
package state

import (
	"github.com/holiman/uint256"

	"github.com/tokenizedart/settlement/pkg/ethaddr"
)

// TokenStandard discriminates the two registry variants. The wire names match
// the vocabulary used by the read model and frontend.
type TokenStandard string

const (
	StandardUnique  TokenStandard = "ERC721"
	StandardEdition TokenStandard = "ERC1155"
)

// Listing status vocabulary shared with the read model. StatusExpired exists
// for compatibility only; the core never assigns it.
const (
	StatusActive    = "active"
	StatusSold      = "sold"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// AssetRef identifies an asset across the two registry variants.
type AssetRef struct {
	Standard TokenStandard `json:"Standard"`
	ID       uint64        `json:"ID"`
}

// Artwork is a unique asset. Exactly one address owns it at any time.
// Metadata fields are immutable after mint.
type Artwork struct {
	ID          uint64         `json:"ID"`
	Creator     ethaddr.Address `json:"Creator"`
	Title       string         `json:"Title"`
	Medium      string         `json:"Medium"`
	CreatedAt   int64          `json:"CreatedAt"`
	ContentHash Hash32         `json:"ContentHash"`
	TokenURI    string         `json:"TokenURI,omitempty"`
	RoyaltyBps  uint32         `json:"RoyaltyBps"`

	Owner ethaddr.Address `json:"Owner"`

	// Approved is the single operator allowed to move this token besides the
	// owner. Cleared on transfer.
	Approved ethaddr.Address `json:"Approved,omitempty"`

	MintedAt int64 `json:"MintedAt"`
}

// Edition is a fungible asset with a capped supply shared across holders.
// The sum of Holdings always equals CurrentSupply.
type Edition struct {
	ID          uint64         `json:"ID"`
	Creator     ethaddr.Address `json:"Creator"`
	Title       string         `json:"Title"`
	Medium      string         `json:"Medium"`
	CreatedAt   int64          `json:"CreatedAt"`
	ContentHash Hash32         `json:"ContentHash"`
	TokenURI    string         `json:"TokenURI,omitempty"`
	RoyaltyBps  uint32         `json:"RoyaltyBps"`

	MaxSupply     uint64 `json:"MaxSupply"`
	CurrentSupply uint64 `json:"CurrentSupply"`

	Holdings map[ethaddr.Address]uint64 `json:"Holdings"`

	MintedAt int64 `json:"MintedAt"`
}

// Listing is an open offer to sell a quantity of an asset at a fixed unit
// price. Quantity is the remaining quantity; it only decreases. A listing id
// is never reused and an inactive listing never reactivates.
type Listing struct {
	ID        uint64          `json:"ID"`
	Seller    ethaddr.Address `json:"Seller"`
	Asset     AssetRef        `json:"Asset"`
	UnitPrice *uint256.Int    `json:"UnitPrice"`
	Quantity  uint64          `json:"Quantity"`
	Active    bool            `json:"Active"`
	CreatedAt int64           `json:"CreatedAt"`
}

// FeeConfig is the platform fee state owned by the fee admin.
type FeeConfig struct {
	Bps      uint32          `json:"Bps"`
	Treasury ethaddr.Address `json:"Treasury"`

	UpdatedAt int64 `json:"UpdatedAt"`
}

// SaleReceipt records one completed settlement.
type SaleReceipt struct {
	ListingID uint64          `json:"ListingID"`
	Buyer     ethaddr.Address `json:"Buyer"`
	Seller    ethaddr.Address `json:"Seller"`

	Paid     *uint256.Int `json:"Paid"`
	Royalty  *uint256.Int `json:"Royalty"`
	Fee      *uint256.Int `json:"Fee"`
	Proceeds *uint256.Int `json:"Proceeds"`
	Refund   *uint256.Int `json:"Refund"`

	Quantity  uint64 `json:"Quantity"`
	Timestamp int64  `json:"Timestamp"`
}
