package outcome

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		in     Input
		cap    int
		want   Outcome
		rounds int
	}{
		{
			name:   "harmless monsters fall in one round",
			in:     Input{PartyOffense: 30, PartyHP: 40, MonsterHP: 21},
			want:   Victory,
			rounds: 1,
		},
		{
			name:   "no offense on either side",
			in:     Input{PartyHP: 40, MonsterHP: 20},
			cap:    12,
			want:   Undecided,
			rounds: 12,
		},
		{
			name:   "monsters outpace party",
			in:     Input{PartyOffense: 5, MonsterOffense: 10, PartyHP: 30, MonsterHP: 30},
			want:   Defeat,
			rounds: 3,
		},
		{
			name:   "both drop same round",
			in:     Input{PartyOffense: 10, MonsterOffense: 10, PartyHP: 30, MonsterHP: 30},
			want:   Undecided,
			rounds: 3,
		},
		{
			name:   "healing outpaces damage",
			in:     Input{PartyOffense: 8, MonsterOffense: 4, MonsterHealing: 10, PartyHP: 30, MonsterHP: 30},
			cap:    20,
			want:   Defeat,
			rounds: 8,
		},
		{
			name:   "party healing offsets monsters",
			in:     Input{PartyOffense: 6, PartyHealing: 5, MonsterOffense: 8, PartyHP: 20, MonsterHP: 30},
			want:   Victory,
			rounds: 5,
		},
		{
			name:   "harmless monsters outlast the cap",
			in:     Input{PartyOffense: 1, PartyHP: 10, MonsterHP: 100},
			cap:    50,
			want:   Victory,
			rounds: 100,
		},
		{
			name:   "harmless party falls slowly",
			in:     Input{MonsterOffense: 3, PartyHP: 200, MonsterHP: 10},
			cap:    20,
			want:   Defeat,
			rounds: 67,
		},
		{
			name:   "stalemate reaches the cap",
			in:     Input{PartyOffense: 1, MonsterOffense: 1, PartyHP: 500, MonsterHP: 400},
			cap:    30,
			want:   Undecided,
			rounds: 30,
		},
		{
			name:   "monsters already down",
			in:     Input{PartyOffense: 1, PartyHP: 10, MonsterHP: 0},
			want:   Victory,
			rounds: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.in, tt.cap)
			if got.Outcome != tt.want || got.TotalRounds != tt.rounds {
				t.Fatalf("Resolve = %s in %d rounds, want %s in %d", got.Outcome, got.TotalRounds, tt.want, tt.rounds)
			}
			if got.Details == "" {
				t.Fatal("expected details")
			}
		})
	}
}

func TestResolveOneSidedDetails(t *testing.T) {
	got := Resolve(Input{PartyOffense: 1, PartyHP: 10, MonsterHP: 100}, 50)
	if !strings.Contains(got.Details, "party won in 100 rounds with 10.0 hp left") {
		t.Fatalf("details = %q", got.Details)
	}
}

func TestResolveDefaultCap(t *testing.T) {
	got := Resolve(Input{PartyHP: 1, MonsterHP: 1}, 0)
	if got.Outcome != Undecided || got.TotalRounds != DefaultRoundCap {
		t.Fatalf("Resolve = %+v", got)
	}
	if !strings.Contains(got.Details, "round cap of 50") {
		t.Fatalf("details = %q", got.Details)
	}
}

func TestResolveDeterministic(t *testing.T) {
	in := Input{PartyOffense: 12.5, PartyHealing: 2, MonsterOffense: 9.25, MonsterHealing: 1, PartyHP: 88, MonsterHP: 140}
	first := Resolve(in, 30)
	for i := 0; i < 10; i++ {
		if got := Resolve(in, 30); got != first {
			t.Fatalf("run %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestParseOutcome(t *testing.T) {
	for _, o := range []Outcome{Undecided, Victory, Defeat} {
		got, err := ParseOutcome(strings.ToUpper(o.String()))
		if err != nil || got != o {
			t.Fatalf("ParseOutcome(%q) = %v, %v", o, got, err)
		}
	}
	if _, err := ParseOutcome("draw"); !errors.Is(err, ErrInvalidOutcome) {
		t.Fatalf("err = %v, want ErrInvalidOutcome", err)
	}
}
