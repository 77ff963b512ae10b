package model

import "time"

// ProductStatus defines the custody milestones of a product, in forward order.
type ProductStatus string

const (
	StatusRegistered ProductStatus = "REGISTERED" // Product registered by its farmer
	StatusHarvested  ProductStatus = "HARVESTED"  // Harvest/production recorded by the farmer
	StatusInTransit  ProductStatus = "IN_TRANSIT" // Picked up by a distributor
	StatusInStorage  ProductStatus = "IN_STORAGE" // Received by a retailer
	StatusSold       ProductStatus = "SOLD"       // Sold to a consumer
)

var statusOrder = []ProductStatus{StatusRegistered, StatusHarvested, StatusInTransit, StatusInStorage, StatusSold}

// Rank returns the position of s in the forward order, or -1 for an unknown status.
func (s ProductStatus) Rank() int {
	for i, known := range statusOrder {
		if s == known {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s ProductStatus) Valid() bool {
	return s.Rank() >= 0
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle moving forward.
// Staying on the same status is allowed; log-only operations do that.
func (s ProductStatus) CanAdvanceTo(next ProductStatus) bool {
	from, to := s.Rank(), next.Rank()
	return from >= 0 && to >= from
}

// Statuses returns every status in forward order.
func Statuses() []ProductStatus {
	out := make([]ProductStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Product is the traced physical good.
type Product struct {
	ObjectType    string        `json:"objectType"` // "Product"
	ID            uint64        `json:"id"`
	Farmer        string        `json:"farmer"`   // Identity of the registering farmer; owner for farm-stage ops
	DataHash      string        `json:"dataHash"` // Commitment to off-chain product data
	Status        ProductStatus `json:"status"`
	CurrentHolder string        `json:"currentHolder"` // Last participant to take custody
	RegisteredAt  time.Time     `json:"registeredAt"`
	LastUpdatedAt time.Time     `json:"lastUpdatedAt"`
	ActivityIDs   []uint64      `json:"activityIds"` // Append-only, in record order
}

// Activity is one immutable, attributed event concerning a product.
type Activity struct {
	ObjectType string        `json:"objectType"` // "Activity"
	ID         uint64        `json:"id"`
	ProductID  uint64        `json:"productId"`
	Actor      string        `json:"actor"`     // Caller identity, never the product's farmer by default
	ActorRole  Role          `json:"actorRole"` // Role the actor held when recording
	Action     string        `json:"action"`    // Operation that produced the entry, e.g. "ReceiveFromFarmer"
	DataHash   string        `json:"dataHash"`
	Status     ProductStatus `json:"status"` // Product status right after this activity
	Timestamp  time.Time     `json:"timestamp"`
}

// ProductTrace is the public projection returned by TraceProduct.
type ProductTrace struct {
	ProductID    uint64        `json:"productId"`
	Farmer       string        `json:"farmer"`
	DataHash     string        `json:"dataHash"`
	Status       ProductStatus `json:"status"`
	RegisteredAt time.Time     `json:"registeredAt"`
	ActivityIDs  []uint64      `json:"activityIds"`
}

// LedgerMeta holds the ledger-wide counters. It is written once per mutating transaction.
type LedgerMeta struct {
	ObjectType      string    `json:"objectType"` // "LedgerMeta"
	Admin           string    `json:"admin"`      // Identity that initialized the ledger
	TotalProducts   uint64    `json:"totalProducts"`
	TotalActivities uint64    `json:"totalActivities"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
	InitializedAt   time.Time `json:"initializedAt"`
}
