package repo_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/notify"
	"github.com/pkordes/trippacks/internal/repo"
	"github.com/pkordes/trippacks/internal/validation"
	"github.com/pkordes/trippacks/testutil"
)

// recorder is a notify.Publisher that remembers every published target.
type recorder struct {
	mu      sync.Mutex
	targets []string
}

var _ notify.Publisher = (*recorder)(nil)

func (r *recorder) Publish(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

func (r *recorder) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}

func newRecords(t *testing.T) (*repo.Records, *recorder) {
	t.Helper()
	pub := &recorder{}
	s := testutil.NewStore(t)
	return repo.NewRecords(s.DB(), repo.WithPublisher(pub), repo.WithLogger(testutil.DiscardLogger())), pub
}

func tripValues(number string) domain.Values {
	return domain.Trip{
		TripNumber:   number,
		FromTo:       "Depot to Yard (2 stops)",
		ReceivedDate: "2018-01-01",
		State:        domain.StateAssigned,
	}.Values()
}

func stopValues(number string, index int64) domain.Values {
	return domain.Stop{
		TripNumber:    number,
		Location:      "Stop " + strconv.FormatInt(index, 10),
		StopIndex:     index,
		DateCompleted: "2018-01-01",
	}.Values()
}

func mustInsert(t *testing.T, r *repo.Records, target domain.Target, v domain.Values) domain.Target {
	t.Helper()
	got, ok, err := r.Insert(context.Background(), target, v)
	require.NoError(t, err)
	require.True(t, ok, "insert into %v rejected", target)
	return got
}

func countAll(t *testing.T, r *repo.Records, target domain.Target) int {
	t.Helper()
	rows, err := r.Query(context.Background(), target, domain.Query{})
	require.NoError(t, err)
	return len(rows)
}

// ── Type ────────────────────────────────────────────────────────────────────

func TestType(t *testing.T) {
	r, _ := newRecords(t)

	cases := []struct {
		path string
		want domain.TargetType
	}{
		{"/trips", domain.TypeTripList},
		{"/trips/3", domain.TypeTripItem},
		{"/stops", domain.TypeStopList},
		{"/stops/9", domain.TypeStopItem},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			target, err := domain.ParseTarget(tc.path)
			require.NoError(t, err)
			got, err := r.Type(target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestType_Unresolved(t *testing.T) {
	r, _ := newRecords(t)
	_, err := r.Type(domain.Target{})
	assert.ErrorIs(t, err, domain.ErrUnknownTarget)
}

// ── Insert ──────────────────────────────────────────────────────────────────

func TestInsert_Trip(t *testing.T) {
	r, pub := newRecords(t)
	ctx := context.Background()

	got, ok, err := r.Insert(ctx, domain.TripsTarget(), tripValues("1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.TripItem, got.Match)
	assert.Equal(t, int64(1), got.ID)

	rows, err := r.Query(ctx, got, domain.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	trip := domain.TripFromRow(rows[0])
	assert.Equal(t, "1", trip.TripNumber)
	assert.Equal(t, domain.StateAssigned, trip.State)
	assert.Nil(t, trip.SubmittedDate)

	assert.Equal(t, []string{"/trips"}, pub.published())
}

func TestInsert_JSONNumbersStoredAsIntegers(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	v := stopValues("4", 1)
	v[domain.ColTripNumber] = float64(4)
	v[domain.ColStopIndex] = float64(1)
	got := mustInsert(t, r, domain.StopsTarget(), v)

	rows, err := r.Query(ctx, got, domain.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4", rows[0].String(domain.ColTripNumber))
}

func TestInsert_EmptyValuesRejected(t *testing.T) {
	r, pub := newRecords(t)

	got, ok, err := r.Insert(context.Background(), domain.TripsTarget(), domain.Values{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, got.IsZero())
	assert.Zero(t, countAll(t, r, domain.TripsTarget()))
	assert.Empty(t, pub.published())
}

func TestInsert_InvalidDateRejected(t *testing.T) {
	r, pub := newRecords(t)

	var msgs validation.Collector
	ctx := validation.NewContext(context.Background(), &msgs)

	v := tripValues("1")
	v[domain.ColReceivedDate] = "2018-13-45"

	_, ok, err := r.Insert(ctx, domain.TripsTarget(), v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"invalid value for RECEIVED_DATE"}, msgs.Messages)
	assert.Zero(t, countAll(t, r, domain.TripsTarget()))
	assert.Empty(t, pub.published())
}

func TestInsert_ReportsEveryInvalidField(t *testing.T) {
	r, _ := newRecords(t)

	var msgs validation.Collector
	ctx := validation.NewContext(context.Background(), &msgs)

	v := stopValues("x", 1)
	v[domain.ColLocation] = "  "
	v[domain.ColDateCompleted] = "2018-02-30"

	_, ok, err := r.Insert(ctx, domain.StopsTarget(), v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{
		"invalid value for TRIP_NUMBER",
		"invalid value for LOCATION",
		"invalid value for DATE_COMPLETED",
	}, msgs.Messages)
}

func TestInsert_StateMembership(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	for _, state := range []any{int64(99), int64(104), "open", nil} {
		v := tripValues("1")
		v[domain.ColState] = state
		_, ok, err := r.Insert(ctx, domain.TripsTarget(), v)
		require.NoError(t, err)
		assert.False(t, ok, "state %v accepted", state)
	}
	for _, state := range domain.TripStates {
		v := tripValues("1")
		v[domain.ColState] = state
		_, ok, err := r.Insert(ctx, domain.TripsTarget(), v)
		require.NoError(t, err)
		assert.True(t, ok, "state %v rejected", state)
	}
}

func TestInsert_LargeIntegers(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	for _, number := range []string{"9999999", "10000000", "123456789012"} {
		v := tripValues(number)
		v[domain.ColHubStart] = int64(12345678)
		v[domain.ColHubEnd] = float64(87654321)
		mustInsert(t, r, domain.TripsTarget(), v)
	}

	max, err := r.MaxTripNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789012), max)

	stop := stopValues("10000000", 1)
	stop[domain.ColArrivalHub] = int64(99999999)
	mustInsert(t, r, domain.StopsTarget(), stop)
}

func TestInsert_IntegerColumnsRejectFractions(t *testing.T) {
	r, _ := newRecords(t)

	var msgs validation.Collector
	ctx := validation.NewContext(context.Background(), &msgs)

	v := tripValues("1.5")
	v[domain.ColHubStart] = 4.2
	v[domain.ColHubEnd] = "12e3"

	_, ok, err := r.Insert(ctx, domain.TripsTarget(), v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{
		"invalid value for TRIP_NUMBER",
		"invalid value for HUB_START",
		"invalid value for HUB_END",
	}, msgs.Messages)
}

// TestInsert_AbsentColumnsNotValidated checks that only the columns a write
// carries are validated; a missing NOT NULL column is refused by the schema.
func TestInsert_AbsentColumnsNotValidated(t *testing.T) {
	r, pub := newRecords(t)

	var msgs validation.Collector
	ctx := validation.NewContext(context.Background(), &msgs)

	v := stopValues("1", 1)
	delete(v, domain.ColDateCompleted)

	_, ok, err := r.Insert(ctx, domain.StopsTarget(), v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, msgs.Messages)
	assert.Zero(t, countAll(t, r, domain.StopsTarget()))
	assert.Empty(t, pub.published())
}

func TestInsert_SubmittedDateOptional(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	v := tripValues("1")
	v[domain.ColSubmittedDate] = nil
	_, ok, err := r.Insert(ctx, domain.TripsTarget(), v)
	require.NoError(t, err)
	assert.True(t, ok)

	v[domain.ColSubmittedDate] = "2018-02-30"
	_, ok, err = r.Insert(ctx, domain.TripsTarget(), v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsert_ColumnNotWritable(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	withID := tripValues("1")
	withID[domain.ColID] = int64(50)
	_, ok, err := r.Insert(ctx, domain.TripsTarget(), withID)
	require.NoError(t, err)
	assert.False(t, ok, "id is assigned by the store")

	unknown := stopValues("1", 1)
	unknown["colour"] = "red"
	_, ok, err = r.Insert(ctx, domain.StopsTarget(), unknown)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsert_ItemTargetUnsupported(t *testing.T) {
	r, _ := newRecords(t)

	_, ok, err := r.Insert(context.Background(), domain.TripTarget(1), tripValues("1"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedTarget)
	assert.False(t, ok)

	_, _, err = r.Insert(context.Background(), domain.Target{}, tripValues("1"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedTarget)
}

// ── Query ───────────────────────────────────────────────────────────────────

func TestQuery_TripsSortedByNumberDescending(t *testing.T) {
	r, _ := newRecords(t)
	for _, n := range []string{"9", "10", "2"} {
		mustInsert(t, r, domain.TripsTarget(), tripValues(n))
	}

	rows, err := r.Query(context.Background(), domain.TripsTarget(), domain.Query{})
	require.NoError(t, err)

	var got []string
	for _, row := range rows {
		got = append(got, row.String(domain.ColTripNumber))
	}
	assert.Equal(t, []string{"10", "9", "2"}, got)
}

func TestQuery_StopsSortedByIndex(t *testing.T) {
	r, _ := newRecords(t)
	for _, i := range []int64{3, 1, 2} {
		mustInsert(t, r, domain.StopsTarget(), stopValues("1", i))
	}

	rows, err := r.Query(context.Background(), domain.StopsTarget(), domain.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, int64(i+1), row.Int(domain.ColStopIndex))
	}
}

func TestQuery_FilterProjectionAndSort(t *testing.T) {
	r, _ := newRecords(t)
	for _, i := range []int64{1, 2, 3} {
		mustInsert(t, r, domain.StopsTarget(), stopValues("1", i))
	}
	mustInsert(t, r, domain.StopsTarget(), stopValues("2", 1))

	rows, err := r.Query(context.Background(), domain.StopsTarget(), domain.Query{
		Columns: []string{domain.ColLocation},
		Filter:  domain.Filter{domain.ColTripNumber: "1"},
		Sort:    []domain.Sort{{Column: domain.ColStopIndex, Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.Row{domain.ColLocation: "Stop 3"}, rows[0])
	assert.Equal(t, domain.Row{domain.ColLocation: "Stop 1"}, rows[2])
}

func TestQuery_ItemIgnoresFilter(t *testing.T) {
	r, _ := newRecords(t)
	item := mustInsert(t, r, domain.TripsTarget(), tripValues("5"))

	rows, err := r.Query(context.Background(), item, domain.Query{
		Filter: domain.Filter{domain.ColTripNumber: "999"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "5", rows[0].String(domain.ColTripNumber))
}

func TestQuery_Page(t *testing.T) {
	r, _ := newRecords(t)
	for i := int64(1); i <= 5; i++ {
		mustInsert(t, r, domain.StopsTarget(), stopValues("1", i))
	}

	page, limit := 2, 2
	p := domain.NewPaginationParams(&page, &limit)
	rows, err := r.Query(context.Background(), domain.StopsTarget(), domain.Query{Page: &p})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].Int(domain.ColStopIndex))
}

func TestQuery_UnknownColumn(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	_, err := r.Query(ctx, domain.TripsTarget(), domain.Query{Columns: []string{"location"}})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)

	_, err = r.Query(ctx, domain.TripsTarget(), domain.Query{Filter: domain.Filter{"nope": 1}})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)

	_, err = r.Query(ctx, domain.StopsTarget(), domain.Query{Sort: []domain.Sort{{Column: "state"}}})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

func TestQuery_Unresolved(t *testing.T) {
	r, _ := newRecords(t)
	_, err := r.Query(context.Background(), domain.Target{}, domain.Query{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedTarget)
}

// ── MaxTripNumber ───────────────────────────────────────────────────────────

func TestMaxTripNumber(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	max, err := r.MaxTripNumber(ctx)
	require.NoError(t, err)
	assert.Zero(t, max)

	mustInsert(t, r, domain.TripsTarget(), tripValues("9"))
	mustInsert(t, r, domain.TripsTarget(), tripValues("10"))

	max, err = r.MaxTripNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), max, "compared as integers, not text")
}

// ── Update ──────────────────────────────────────────────────────────────────

func TestUpdate_Item(t *testing.T) {
	r, pub := newRecords(t)
	ctx := context.Background()
	item := mustInsert(t, r, domain.TripsTarget(), tripValues("1"))

	n, err := r.Update(ctx, item, domain.Values{
		domain.ColState:         domain.StateSubmitted,
		domain.ColSubmittedDate: "2018-03-04",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := r.Query(ctx, item, domain.Query{})
	require.NoError(t, err)
	trip := domain.TripFromRow(rows[0])
	assert.Equal(t, domain.StateSubmitted, trip.State)
	require.NotNil(t, trip.SubmittedDate)
	assert.Equal(t, "2018-03-04", *trip.SubmittedDate)

	assert.Equal(t, []string{"/trips", "/trips/1"}, pub.published())
}

func TestUpdate_CollectionWithFilter(t *testing.T) {
	r, pub := newRecords(t)
	ctx := context.Background()
	mustInsert(t, r, domain.StopsTarget(), stopValues("1", 1))
	mustInsert(t, r, domain.StopsTarget(), stopValues("1", 2))
	mustInsert(t, r, domain.StopsTarget(), stopValues("2", 1))

	n, err := r.Update(ctx, domain.StopsTarget(),
		domain.Values{domain.ColArrivalHub: int64(7)},
		domain.Filter{domain.ColTripNumber: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Contains(t, pub.published(), "/stops")
}

func TestUpdate_Rejected(t *testing.T) {
	r, pub := newRecords(t)
	ctx := context.Background()
	item := mustInsert(t, r, domain.TripsTarget(), tripValues("1"))

	n, err := r.Update(ctx, item, domain.Values{}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.Update(ctx, item, domain.Values{domain.ColReceivedDate: "2018-13-45"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.Update(ctx, item, domain.Values{domain.ColID: int64(9)}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{"/trips"}, pub.published(), "only the insert notified")
}

func TestUpdate_MissingItemChangesNothing(t *testing.T) {
	r, pub := newRecords(t)

	n, err := r.Update(context.Background(), domain.TripTarget(42), domain.Values{domain.ColHubEnd: int64(3)}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, pub.published())
}

func TestUpdate_UnknownFilterColumn(t *testing.T) {
	r, _ := newRecords(t)
	_, err := r.Update(context.Background(), domain.StopsTarget(),
		domain.Values{domain.ColArrivalHub: int64(1)}, domain.Filter{"state": 100})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

// ── Delete ──────────────────────────────────────────────────────────────────

func TestDelete_Item(t *testing.T) {
	r, pub := newRecords(t)
	ctx := context.Background()
	item := mustInsert(t, r, domain.StopsTarget(), stopValues("1", 1))

	n, err := r.Delete(ctx, item, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.Delete(ctx, item, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "second delete finds nothing")

	assert.Equal(t, []string{"/stops", "/stops/1"}, pub.published())
}

func TestDelete_CollectionFilter(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()
	mustInsert(t, r, domain.StopsTarget(), stopValues("1", 1))
	mustInsert(t, r, domain.StopsTarget(), stopValues("2", 1))

	n, err := r.Delete(ctx, domain.StopsTarget(), domain.Filter{domain.ColTripNumber: "2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, countAll(t, r, domain.StopsTarget()))
}

func TestDeleteAll(t *testing.T) {
	r, _ := newRecords(t)
	ctx := context.Background()

	mustInsert(t, r, domain.TripsTarget(), tripValues("1"))
	mustInsert(t, r, domain.TripsTarget(), tripValues("2"))
	for i := int64(1); i <= 5; i++ {
		mustInsert(t, r, domain.StopsTarget(), stopValues("1", i))
	}

	trips, stops, err := r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), trips)
	assert.Equal(t, int64(5), stops)
	assert.Zero(t, countAll(t, r, domain.TripsTarget()))
	assert.Zero(t, countAll(t, r, domain.StopsTarget()))

	trips, stops, err = r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, trips)
	assert.Zero(t, stops)
}
