package repo

import (
	"context"
	"strconv"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/validation"
)

// rule is the check applied to one column before a write.
type rule struct {
	column string
	flags  []validation.Flag
	// nullable lets NULL pass without running flags.
	nullable bool
	// extra runs only after every flag passed.
	extra func(v validation.Validator, col string, s string) bool
}

var tripRules = []rule{
	{column: domain.ColTripNumber, flags: []validation.Flag{validation.NotNull}, extra: validation.CheckInteger},
	{column: domain.ColFromTo, flags: []validation.Flag{validation.NotNull}},
	{column: domain.ColReceivedDate, flags: []validation.Flag{validation.NotNull, validation.IsDate}},
	{column: domain.ColSubmittedDate, flags: []validation.Flag{validation.IsDate}, nullable: true},
	{column: domain.ColState, flags: []validation.Flag{validation.NotNull}, extra: knownState},
	{column: domain.ColHubStart, flags: []validation.Flag{validation.NotNull}, extra: validation.CheckInteger},
	{column: domain.ColHubEnd, flags: []validation.Flag{validation.NotNull}, extra: validation.CheckInteger},
}

var stopRules = []rule{
	{column: domain.ColTripNumber, flags: []validation.Flag{validation.NotNull}, extra: validation.CheckInteger},
	{column: domain.ColLocation, flags: []validation.Flag{validation.NotEmpty}},
	{column: domain.ColStopIndex, flags: []validation.Flag{validation.NotNull}, extra: validation.CheckInteger},
	{column: domain.ColArrivalHub, flags: []validation.Flag{validation.NotNull}, extra: validation.CheckInteger},
	{column: domain.ColDateCompleted, flags: []validation.Flag{validation.NotNull, validation.IsDate}},
}

func rulesFor(e domain.Entity) []rule {
	switch e {
	case domain.EntityTrip:
		return tripRules
	case domain.EntityStop:
		return stopRules
	default:
		return nil
	}
}

// knownState accepts only the four trip states. Text that is not an integer
// fails the same way an unknown number does.
func knownState(v validation.Validator, col string, s string) bool {
	state := domain.TripState(-1)
	if n, err := strconv.Atoi(s); err == nil {
		state = domain.TripState(n)
	}
	return validation.CheckOneOf(v, col, state, domain.TripStates...)
}

// validate runs the rule of every column present in values and reports each
// failing field to the Display carried by ctx, if any. Absent columns are left
// to the schema's NOT NULL constraints.
func validate(ctx context.Context, entity domain.Entity, values domain.Values) bool {
	v := validation.Validator{Display: validation.FromContext(ctx)}

	ok := true
	for _, r := range rulesFor(entity) {
		s, present := values.StringOf(r.column)
		if !present {
			continue
		}
		if r.nullable && s == nil {
			continue
		}
		if !v.Check(r.column, s, r.flags...) {
			ok = false
			continue
		}
		if r.extra != nil && !r.extra(v, r.column, *s) {
			ok = false
		}
	}
	return ok
}
