package request

import "time"

// Category classifies what kind of waste a pickup handles.
type Category string

const (
	CategoryOrganic    Category = "organic"
	CategoryRecyclable Category = "recyclable"
	CategoryHazardous  Category = "hazardous"
	CategoryEWaste     Category = "e-waste"
	CategoryBulk       Category = "bulk"
	CategoryOther      Category = "other"
)

// Address is the pickup location supplied by the citizen.
type Address struct {
	Line1   string   `json:"line1" validate:"required,min=3"`
	Line2   string   `json:"line2,omitempty"`
	City    string   `json:"city" validate:"required,min=2"`
	Pincode string   `json:"pincode" validate:"required,min=4"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// SlotWindow is one bookable pickup window. Start/End are the server's
// ISO-8601 timestamps and are treated as opaque identifiers client-side.
type SlotWindow struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// Event is one entry of a request's server-recorded lifecycle history.
type Event struct {
	Type string         `json:"type"`
	At   time.Time      `json:"at"`
	By   string         `json:"by"`
	Data map[string]any `json:"data,omitempty"`
}

// PickupRequest mirrors the server's request record. The client only ever
// stores records the server confirmed; it never advances Status itself.
type PickupRequest struct {
	ID             int64        `json:"id" validate:"required"`
	UserID         int64        `json:"user_id"`
	Category       Category     `json:"category" validate:"required"`
	IsSpecial      bool         `json:"is_special"`
	Description    string       `json:"description"`
	Quantity       int          `json:"quantity"`
	Photos         []string     `json:"photos"`
	Address        Address      `json:"address"`
	PreferredSlots []SlotWindow `json:"preferred_slots"`
	AssignedSlot   *SlotWindow  `json:"assigned_slot,omitempty"`
	Status         Status       `json:"status" validate:"required"`
	RewardPoints   int          `json:"reward_points"`
	Events         []Event      `json:"events,omitempty"`
	CreatedAt      *time.Time   `json:"created_at,omitempty"`
	UpdatedAt      *time.Time   `json:"updated_at,omitempty"`
}

// Page is one fetched page of requests.
type Page struct {
	Items []PickupRequest `json:"items"`
	Total int             `json:"total"`
	Skip  int             `json:"skip"`
	Limit int             `json:"limit"`
}

// Payload is the creation DTO assembled by the wizard and validated before
// it is ever sent.
type Payload struct {
	Category       Category     `json:"category" validate:"required,oneof=organic recyclable hazardous e-waste bulk other"`
	IsSpecial      bool         `json:"is_special"`
	Description    string       `json:"description" validate:"required,min=5"`
	Quantity       int          `json:"quantity" validate:"required,min=1"`
	Address        Address      `json:"address" validate:"required"`
	PreferredSlots []SlotWindow `json:"preferred_slots" validate:"required,min=1,dive"`
	Photos         []string     `json:"photos"`
}

// Filters narrows a request-list fetch. Page is 1-based.
type Filters struct {
	Status   string
	Category string
	Page     int
}
