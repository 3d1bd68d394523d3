package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Entity is one of the two record kinds the store holds.
type Entity int

const (
	EntityTrip Entity = iota + 1
	EntityStop
)

// Table returns the SQL table name of e.
func (e Entity) Table() string {
	switch e {
	case EntityTrip:
		return "trips"
	case EntityStop:
		return "stops"
	default:
		return ""
	}
}

// Columns returns every column of e's table, id first.
func (e Entity) Columns() []string {
	switch e {
	case EntityTrip:
		return tripColumns
	case EntityStop:
		return stopColumns
	default:
		return nil
	}
}

// HasColumn reports whether e's table has a column named col.
func (e Entity) HasColumn(col string) bool {
	for _, c := range e.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

func (e Entity) String() string { return e.Table() }

// Match identifies which of the four addressable targets a path resolved to.
// The set is closed; NoMatch is the zero value.
type Match int

const (
	NoMatch Match = iota
	TripCollection
	TripItem
	StopCollection
	StopItem
)

// TargetType is the MIME-like tag returned by type resolution.
type TargetType string

const (
	TypeTripList TargetType = "vnd.android.cursor.dir/vnd.trippacks.trips"
	TypeTripItem TargetType = "vnd.android.cursor.item/vnd.trippacks.trips"
	TypeStopList TargetType = "vnd.android.cursor.dir/vnd.trippacks.stops"
	TypeStopItem TargetType = "vnd.android.cursor.item/vnd.trippacks.stops"
)

// Target addresses either every row of one entity (a collection) or a single
// row by identifier (an item). ID is only meaningful for item targets.
type Target struct {
	Match Match
	ID    int64
}

// TripsTarget addresses the trips collection.
func TripsTarget() Target { return Target{Match: TripCollection} }

// TripTarget addresses one trip by id.
func TripTarget(id int64) Target { return Target{Match: TripItem, ID: id} }

// StopsTarget addresses the stops collection.
func StopsTarget() Target { return Target{Match: StopCollection} }

// StopTarget addresses one stop by id.
func StopTarget(id int64) Target { return Target{Match: StopItem, ID: id} }

// IsZero reports whether t is unresolved.
func (t Target) IsZero() bool { return t.Match == NoMatch }

// IsItem reports whether t names a single row.
func (t Target) IsItem() bool { return t.Match == TripItem || t.Match == StopItem }

// Entity returns the record kind t addresses, or 0 for an unresolved target.
func (t Target) Entity() Entity {
	switch t.Match {
	case TripCollection, TripItem:
		return EntityTrip
	case StopCollection, StopItem:
		return EntityStop
	default:
		return 0
	}
}

// Collection returns the collection target of t's entity.
func (t Target) Collection() Target {
	switch t.Entity() {
	case EntityTrip:
		return TripsTarget()
	case EntityStop:
		return StopsTarget()
	default:
		return Target{}
	}
}

// WithID returns the item target for id within t's entity.
func (t Target) WithID(id int64) Target {
	switch t.Entity() {
	case EntityTrip:
		return TripTarget(id)
	case EntityStop:
		return StopTarget(id)
	default:
		return Target{}
	}
}

// Path renders t as "/trips", "/trips/7", "/stops", or "/stops/7".
func (t Target) Path() string {
	switch t.Match {
	case TripCollection, StopCollection:
		return "/" + t.Entity().Table()
	case TripItem, StopItem:
		return "/" + t.Entity().Table() + "/" + strconv.FormatInt(t.ID, 10)
	default:
		return ""
	}
}

func (t Target) String() string {
	if t.IsZero() {
		return "<unresolved>"
	}
	return t.Path()
}

// targetTable maps a path segment to its collection and item matches.
// It is built once and never mutated.
var targetTable = map[string][2]Match{
	"trips": {TripCollection, TripItem},
	"stops": {StopCollection, StopItem},
}

// ParseTarget resolves path against the four addressable targets.
// Item identifiers must be plain decimal digits. Anything else returns an
// unresolved Target and an error wrapping ErrUnsupportedTarget.
func ParseTarget(path string) (Target, error) {
	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if !strings.HasPrefix(path, "/") || len(segs) > 2 {
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedTarget, path)
	}
	m, ok := targetTable[segs[0]]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedTarget, path)
	}
	if len(segs) == 1 {
		return Target{Match: m[0]}, nil
	}
	id, ok := parseDigits(segs[1])
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedTarget, path)
	}
	return Target{Match: m[1], ID: id}, nil
}

// parseDigits accepts only ASCII digits, so signs and spaces do not match.
func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
