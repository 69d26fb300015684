package backup

import "time"

// Trigger asks for one backup run. Watch and schedule modes produce
// triggers; the run loop consumes them.
type Trigger struct {
	Reason string // "watch", "schedule", ...
	At     time.Time
}
