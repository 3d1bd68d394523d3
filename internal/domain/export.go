package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per stop, with trip fields repeated
// for every stop of that trip. Trips with no stops yield one row with zero
// values for all stop fields. Stops whose trip_number matches no trip are not
// exported.
type ExportRow struct {
	// Trip fields, repeated for every stop on the trip.
	TripID        int64  `json:"trip_id" yaml:"trip_id"`
	TripNumber    string `json:"trip_number" yaml:"trip_number"`
	FromTo        string `json:"from_to" yaml:"from_to"`
	State         string `json:"state" yaml:"state"`
	ReceivedDate  string `json:"received_date" yaml:"received_date"`
	SubmittedDate string `json:"submitted_date" yaml:"submitted_date"` // empty when nil
	HubStart      int64  `json:"hub_start" yaml:"hub_start"`
	HubEnd        int64  `json:"hub_end" yaml:"hub_end"`

	// Stop fields, zero values when the trip has no stops.
	StopIndex     int64  `json:"stop_index" yaml:"stop_index"`
	Location      string `json:"location" yaml:"location"`
	ArrivalHub    int64  `json:"arrival_hub" yaml:"arrival_hub"`
	DateCompleted string `json:"date_completed" yaml:"date_completed"`
}
