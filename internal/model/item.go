package model

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a lost or found physical object report.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ItemType    string    `json:"itemType"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ImageHint   string    `json:"imageHint,omitempty"`
	Location    string    `json:"location"`
	ReportedAt  time.Time `json:"reportedAt"`
	ReportedBy  string    `json:"reportedBy"`
	Status      string    `json:"status"`
}

// Item types. The type is fixed at report time and never changes.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses. Open items may become claimed (via an approved claim)
// or archived; claimed and archived are terminal.
const (
	ItemStatusOpen     = "open"
	ItemStatusClaimed  = "claimed"
	ItemStatusArchived = "archived"
)

// Item categories.
const (
	CategoryWaterBottle = "Water Bottle"
	CategoryIDCard      = "ID Card"
	CategoryBag         = "Bag"
	CategoryBook        = "Book"
	CategoryGadget      = "Gadget"
	CategoryOther       = "Other"
)

// Categories lists all valid item categories.
var Categories = []string{
	CategoryWaterBottle,
	CategoryIDCard,
	CategoryBag,
	CategoryBook,
	CategoryGadget,
	CategoryOther,
}

// ValidCategory reports whether category is a known item category.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidStatusTransition reports whether an item may move from one status
// to another. Only open items may transition; staying put is always fine.
func ValidStatusTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == ItemStatusOpen && (to == ItemStatusClaimed || to == ItemStatusArchived)
}

// NewItemID generates a unique item identifier.
func NewItemID() string {
	return "item-" + uuid.NewString()
}
