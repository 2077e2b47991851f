package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventItemsScanned    EventType = "ItemsScanned"
	EventFocusMoved      EventType = "FocusMoved"
	EventItemActivated   EventType = "ItemActivated"
	EventNavigationState EventType = "NavigationState"
	EventAdsRemoved      EventType = "AdsRemoved"
	EventRequestBlocked  EventType = "RequestBlocked"
	EventNotification    EventType = "Notification"
	EventPlayerChanged   EventType = "PlayerChanged"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventConfigChanged   EventType = "ConfigChanged"
	EventAppReady        EventType = "AppReady"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ItemsScannedEvent is emitted after the classifier produced a new item snapshot
type ItemsScannedEvent struct {
	Count int
}

func (e ItemsScannedEvent) Type() EventType { return EventItemsScanned }

// FocusMovedEvent is emitted when the focused item changes
type FocusMovedEvent struct {
	FromID    string // empty when nothing was focused
	ToID      string
	Direction string
}

func (e FocusMovedEvent) Type() EventType { return EventFocusMoved }

// ItemActivatedEvent is emitted when the focused item is selected
type ItemActivatedEvent struct {
	ItemID string
	Kind   string // "navigate" or "click"
	URL    string
}

func (e ItemActivatedEvent) Type() EventType { return EventItemActivated }

// NavigationStateEvent is emitted when spatial navigation is enabled or disabled
type NavigationStateEvent struct {
	Enabled bool
}

func (e NavigationStateEvent) Type() EventType { return EventNavigationState }

// AdsRemovedEvent is emitted when the ad sweep removed elements from the page
type AdsRemovedEvent struct {
	IDs []string
}

func (e AdsRemovedEvent) Type() EventType { return EventAdsRemoved }

// RequestBlockedEvent is emitted when a page request was failed by the ad filter
type RequestBlockedEvent struct {
	URL string
}

func (e RequestBlockedEvent) Type() EventType { return EventRequestBlocked }

// NotificationEvent is emitted when a toast is shown
type NotificationEvent struct {
	ID      string
	Message string
}

func (e NotificationEvent) Type() EventType { return EventNotification }

// PlayerChangedEvent is emitted after a player action was committed
type PlayerChangedEvent struct {
	Action string
	Paused bool
	Time   float64
	Volume float64
}

func (e PlayerChangedEvent) Type() EventType { return EventPlayerChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded or reloaded from disk
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when a single configuration key is written
type ConfigChangedEvent struct {
	Key   string
	Value interface{}
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }

// AppReadyEvent is emitted when the app is fully initialized and ready
type AppReadyEvent struct {
	Live bool
}

func (e AppReadyEvent) Type() EventType { return EventAppReady }
