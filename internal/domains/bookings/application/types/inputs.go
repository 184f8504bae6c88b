// Package types holds the command inputs of the bookings application layer.
package types

import "time"

// CreateHoldInput reserves capacity against a departure. TTL of zero means the
// engine default.
type CreateHoldInput struct {
	OrderID      string
	DepartureID  string
	ResourceType string
	Units        int
	TTL          time.Duration
}

// CreateDepartureInput opens a new draft departure.
type CreateDepartureInput struct {
	Name      string
	DepartsAt time.Time
	Capacity  int
}
