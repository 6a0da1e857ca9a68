package domain

import "time"

// ModerationStatus represents the review state of a submitted catalog item
type ModerationStatus string

// Moderation states
const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// SortOrder determines how search results are ordered
type SortOrder string

// Sort orders accepted by the catalog service
const (
	SortByName   SortOrder = "name"
	SortByNewest SortOrder = "newest"
	SortByWeight SortOrder = "weight"
)

// SearchFilters is the filter set a list view passes through to the search
// collaborator. The list controller treats it as opaque.
type SearchFilters struct {
	Query    string
	Category string
	Status   ModerationStatus
	Sort     SortOrder
}

// GearItem represents an entry in the gear catalog
type GearItem struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Category    string           `json:"category"` // e.g. "radio", "charger", "fpv"
	WeightGrams int              `json:"weight_grams"`
	PriceCents  int              `json:"price_cents"`
	Status      ModerationStatus `json:"status"`
	Submitter   string           `json:"submitter"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Battery represents a battery pack in the inventory
type Battery struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Chemistry   string    `json:"chemistry"` // e.g. "LiPo", "Li-Ion", "NiMH"
	CapacityMAh int       `json:"capacity_mah"`
	CellCount   int       `json:"cell_count"`
	CycleCount  int       `json:"cycle_count"`
	WeightGrams int       `json:"weight_grams"`
	Health      string    `json:"health"` // "good", "puffy", "retired"
	CreatedAt   time.Time `json:"created_at"`
}

// Aircraft represents an airframe in the inventory
type Aircraft struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Frame       string    `json:"frame"` // e.g. "quad", "wing", "glider", "heli"
	WingspanMM  int       `json:"wingspan_mm"`
	MotorCount  int       `json:"motor_count"`
	WeightGrams int       `json:"weight_grams"`
	FlightCount int       `json:"flight_count"`
	CreatedAt   time.Time `json:"created_at"`
}
