package models

// Interaction types (like, pass)
const (
	InteractionTypeLike = "like"
	InteractionTypePass = "pass"
)

// Interaction statuses
const (
	InteractionStatusPending  = "pending"
	InteractionStatusMatch    = "match"
	InteractionStatusDeclined = "declined"
)

// Realtime event names pushed to device rooms
const (
	EventMatchInserted   = "matchInserted"
	EventMatchPopup      = "matchPopup"
	EventMatchPopupClear = "matchPopupClear"
	EventNavigateToChat  = "navigateToChat"
	EventNewMessage      = "newMessage"
)
