package reminder

import "time"

// Params bounds the reminder computation.
type Params struct {
	// MaxItems caps the number of reminders returned.
	MaxItems int
	// Horizon is how far past now reminders are computed.
	Horizon time.Duration
	// MinLead is the earliest a reminder may fire relative to now.
	MinLead time.Duration
}

// NewDefaultParams creates Params with a 64 item cap over a 24 hour horizon,
// never firing sooner than a minute from now.
func NewDefaultParams() *Params {
	return &Params{
		MaxItems: 64,
		Horizon:  24 * time.Hour,
		MinLead:  time.Minute,
	}
}
