package domain

// Stop is one waypoint of a trip. It belongs to a trip only through a matching
// TripNumber; nothing in the store enforces that the trip exists.
type Stop struct {
	ID            int64  `json:"id" yaml:"id"`
	TripNumber    string `json:"trip_number" yaml:"trip_number"`
	Location      string `json:"location" yaml:"location"`
	StopIndex     int64  `json:"stop_index" yaml:"stop_index"`
	ArrivalHub    int64  `json:"arrival_hub" yaml:"arrival_hub"`
	DateCompleted string `json:"date_completed" yaml:"date_completed"`
}

// Values returns the writable columns of s.
func (s Stop) Values() Values {
	return Values{
		ColTripNumber:    s.TripNumber,
		ColLocation:      s.Location,
		ColStopIndex:     s.StopIndex,
		ColArrivalHub:    s.ArrivalHub,
		ColDateCompleted: s.DateCompleted,
	}
}

// StopFromRow maps a full stops row into a Stop.
func StopFromRow(r Row) Stop {
	return Stop{
		ID:            r.Int(ColID),
		TripNumber:    r.String(ColTripNumber),
		Location:      r.String(ColLocation),
		StopIndex:     r.Int(ColStopIndex),
		ArrivalHub:    r.Int(ColArrivalHub),
		DateCompleted: r.String(ColDateCompleted),
	}
}
