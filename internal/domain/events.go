package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
	EventConfigChanged    EventType = "ConfigChanged"
	EventItemModerated    EventType = "ItemModerated"
	EventRefreshRequested EventType = "RefreshRequested"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	ServerURL string
	PageSize  int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when configuration needs to be saved
type ConfigChangedEvent struct {
	DefaultSort SortOrder
	PageSize    int
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }

// ItemModeratedEvent is emitted after a gear item was approved or rejected.
// List views refresh with a forced reset so the visible list reflects the
// mutation even if a background fetch was in flight.
type ItemModeratedEvent struct {
	ItemID   string
	Approved bool
}

func (e ItemModeratedEvent) Type() EventType { return EventItemModerated }

// RefreshRequestedEvent is emitted to request a forced refresh of a list view
type RefreshRequestedEvent struct {
	View string // "gear", "batteries", "aircraft" or "" for all
}

func (e RefreshRequestedEvent) Type() EventType { return EventRefreshRequested }
