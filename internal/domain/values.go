package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Column names shared by the trips and stops tables.
const (
	ColID         = "id"
	ColTripNumber = "trip_number"

	ColFromTo        = "from_to"
	ColReceivedDate  = "received_date"
	ColSubmittedDate = "submitted_date"
	ColState         = "state"
	ColHubStart      = "hub_start"
	ColHubEnd        = "hub_end"

	ColLocation      = "location"
	ColStopIndex     = "stop_index"
	ColArrivalHub    = "arrival_hub"
	ColDateCompleted = "date_completed"
)

var tripColumns = []string{
	ColID, ColTripNumber, ColFromTo, ColReceivedDate, ColSubmittedDate,
	ColState, ColHubStart, ColHubEnd,
}

var stopColumns = []string{
	ColID, ColTripNumber, ColLocation, ColStopIndex, ColArrivalHub, ColDateCompleted,
}

// Values maps column names to the values of a single write.
// A key that is present with a nil value writes NULL.
type Values map[string]any

// Keys returns the column names of v in sorted order so generated SQL is stable.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringOf renders the value stored under col the way it would be read back
// as text. The second result is false when col is absent.
// A nil value yields (nil, true).
func (v Values) StringOf(col string) (*string, bool) {
	raw, ok := v[col]
	if !ok {
		return nil, false
	}
	if raw == nil {
		return nil, true
	}
	s := FormatValue(raw)
	return &s, true
}

// FormatValue converts a column value to its text form.
// Whole float64 values, which is how JSON numbers arrive, print without a
// fractional part.
func FormatValue(raw any) string {
	switch x := raw.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case TripState:
		return strconv.Itoa(int(x))
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

// Row is one result row keyed by column name.
type Row map[string]any

// String returns the text form of the column, or "" when absent or NULL.
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	return FormatValue(v)
}

// Int returns the column as an integer, or 0 when absent, NULL, or not numeric.
func (r Row) Int(col string) int64 {
	switch x := r[col].(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(x), 10, 64)
		return n
	default:
		return 0
	}
}

// Filter selects rows whose columns equal the given values. Conditions are ANDed.
// An empty filter selects every row.
type Filter map[string]any

// Sort orders query results by one column. Numeric casts text columns such as
// trip_number to integers so "10" sorts after "9".
type Sort struct {
	Column  string
	Desc    bool
	Numeric bool
}

// Query describes a list request. Columns is the projection; empty means every
// column. Page is optional.
type Query struct {
	Columns []string
	Filter  Filter
	Sort    []Sort
	Page    *PaginationParams
}
