package repository

import "time"

// RateWindow is the state of one sliding window right after a hit.
// Count includes the hit when Allowed; Oldest is zero for an empty window.
type RateWindow struct {
	Count   int
	Allowed bool
	Oldest  time.Time
}
