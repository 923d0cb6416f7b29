package model

// Record is implemented by every synced entity type. The type parameter is
// the implementing type itself, so collections and controllers can copy
// records without reflection.
type Record[T any] interface {
	// GetID returns the store-assigned identifier, or "" before insert.
	GetID() string

	// SetID stamps the store-assigned identifier onto the record.
	SetID(id string)

	// Validate reports whether the record's required fields are present
	// after trimming whitespace. Errors wrap ErrValidation.
	Validate() error

	// Clone returns an independent copy of the record.
	Clone() T
}

// Collection name constants. Each maps to one screen of the app.
const (
	CollectionNotes    = "notes"
	CollectionEvents   = "events"
	CollectionPlans    = "plans"
	CollectionSessions = "focusSessions"

	// CollectionTasks is device-scoped: it is stored locally under
	// DeviceIdentity and never syncs.
	CollectionTasks = "tasks"
)
