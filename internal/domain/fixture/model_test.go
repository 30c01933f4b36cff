package fixture

import "testing"

func TestMapProviderStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"NS":              StatusScheduled,
		"ns":              StatusScheduled,
		" FT ":            StatusFinished,
		"AET":             StatusFinished,
		"INPLAY_1ST_HALF": StatusLive,
		"HT":              StatusLive,
		"POSTPONED":       StatusPostponed,
		"SUSPENDED":       StatusSuspended,
		"INTERRUPTED":     StatusSuspended,
		"ABANDONED":       StatusCancelled,
		"CANCELLED":       StatusCancelled,
	}
	for input, want := range cases {
		if got := MapProviderStatus(input); got != want {
			t.Errorf("MapProviderStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMapProviderStatusTotality(t *testing.T) {
	t.Parallel()

	canonical := make(map[string]bool, 6)
	for _, status := range CanonicalStatuses() {
		canonical[status] = true
	}

	inputs := []string{"", "GIBBERISH", "FT", "something-new", "TO_FINISH", "NS"}
	for state := range statusByProviderState {
		inputs = append(inputs, state)
	}

	for _, input := range inputs {
		got := MapProviderStatus(input)
		if !canonical[got] {
			t.Fatalf("MapProviderStatus(%q) produced non-canonical %q", input, got)
		}
	}

	if got := MapProviderStatus("NEVER_SEEN_BEFORE"); got != StatusScheduled {
		t.Fatalf("unknown state mapped to %q, want scheduled", got)
	}
}

func TestFixtureValidateRejectsSameTeams(t *testing.T) {
	t.Parallel()

	f := Fixture{HomeTeamID: 7, AwayTeamID: 7}
	if err := f.Validate(); err == nil {
		t.Fatal("expected validation error for identical team references")
	}
}
