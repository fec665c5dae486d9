package domain

import "time"

// ReminderType identifies why a reminder fires.
type ReminderType string

// ReminderLongTimeNoDrink fires after an interval without intake.
const ReminderLongTimeNoDrink ReminderType = "long_time_no_drink"

// ReminderItem is a computed reminder. Items are recomputed on demand and never stored.
type ReminderItem struct {
	Type   ReminderType `json:"type"`
	FireAt time.Time    `json:"fire_at"`
}
