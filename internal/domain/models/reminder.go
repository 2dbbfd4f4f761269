package models

// Reminder statuses. The only transition is pending to completed; there is
// no way back.
const (
	ReminderPending   = "pending"
	ReminderCompleted = "completed"
)

// Reminder is a scheduled maintenance action, typically fertilizing a plot.
type Reminder struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Estate string `bson:"estate" json:"-"`
	Date   string `bson:"date" json:"date"`
	Status string `bson:"status" json:"status"`
}
