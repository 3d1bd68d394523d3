// Package domain contains the core data types for the trip packs application.
// This package has zero external dependencies and is imported by every other
// internal package (store, repo, service, handler, cli).
package domain

import "strconv"

// TripState is the lifecycle state stored in trips.state.
// The persistence layer only checks membership; it does not order transitions.
type TripState int

const (
	StateAssigned  TripState = 100
	StateOpen      TripState = 101
	StateClosed    TripState = 102
	StateSubmitted TripState = 103
)

// TripStates lists every accepted state value.
var TripStates = []TripState{StateAssigned, StateOpen, StateClosed, StateSubmitted}

func (s TripState) String() string {
	switch s {
	case StateAssigned:
		return "assigned"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateSubmitted:
		return "submitted"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Trip is one logistics run. TripNumber is an integer kept as text.
// FromTo is a summary of the trip's stops computed when the trip was written;
// it is not refreshed when stops change later.
type Trip struct {
	ID            int64     `json:"id" yaml:"id"`
	TripNumber    string    `json:"trip_number" yaml:"trip_number"`
	FromTo        string    `json:"from_to" yaml:"from_to"`
	ReceivedDate  string    `json:"received_date" yaml:"received_date"`
	SubmittedDate *string   `json:"submitted_date,omitempty" yaml:"submitted_date,omitempty"` // nil until submitted
	State         TripState `json:"state" yaml:"state"`
	HubStart      int64     `json:"hub_start" yaml:"hub_start"`
	HubEnd        int64     `json:"hub_end" yaml:"hub_end"`
}

// Values returns the writable columns of t. ID is never included.
func (t Trip) Values() Values {
	v := Values{
		ColTripNumber:   t.TripNumber,
		ColFromTo:       t.FromTo,
		ColReceivedDate: t.ReceivedDate,
		ColState:        int64(t.State),
		ColHubStart:     t.HubStart,
		ColHubEnd:       t.HubEnd,
	}
	if t.SubmittedDate != nil {
		v[ColSubmittedDate] = *t.SubmittedDate
	}
	return v
}

// TripFromRow maps a full trips row into a Trip.
// Columns missing from the row are left at their zero value.
func TripFromRow(r Row) Trip {
	t := Trip{
		ID:           r.Int(ColID),
		TripNumber:   r.String(ColTripNumber),
		FromTo:       r.String(ColFromTo),
		ReceivedDate: r.String(ColReceivedDate),
		State:        TripState(r.Int(ColState)),
		HubStart:     r.Int(ColHubStart),
		HubEnd:       r.Int(ColHubEnd),
	}
	if v, ok := r[ColSubmittedDate]; ok && v != nil {
		sd := r.String(ColSubmittedDate)
		t.SubmittedDate = &sd
	}
	return t
}
