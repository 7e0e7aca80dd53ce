package dice

import (
	"errors"
	"math"
	"testing"
)

func TestExpectedValue(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2d6+3", 10},
		{"1d4", 2.5},
		{"", 0},
		{"   ", 0},
		{"7", 7},
		{"d20", 10.5},
		{"1D8 + 1d6", 8},
		{"2d6-1", 6},
		{"-2", -2},
		{"3d10+2d4+5", 16.5 + 5 + 5},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ExpectedValue(tt.expr)
			if err != nil {
				t.Fatalf("ExpectedValue(%q) returned error: %v", tt.expr, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("ExpectedValue(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestExpectedValueRejectsMalformed(t *testing.T) {
	tests := []struct {
		expr      string
		wantToken string
	}{
		{"2d", "2d"},
		{"xd6", "xd6"},
		{"0d6", "0d6"},
		{"2d6++3", "++"},
		{"2d6+", "+"},
		{"fireball", "fireball"},
		{"2d6+abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ExpectedValue(tt.expr)
			if !errors.Is(err, ErrDiceParse) {
				t.Fatalf("error = %v, want %v", err, ErrDiceParse)
			}
			var parseErr *DiceParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *DiceParseError, got %T", err)
			}
			if parseErr.Token != tt.wantToken {
				t.Fatalf("token = %q, want %q", parseErr.Token, tt.wantToken)
			}
			if parseErr.Expr != tt.expr {
				t.Fatalf("expr = %q, want %q", parseErr.Expr, tt.expr)
			}
		})
	}
}

func TestExpressionBounds(t *testing.T) {
	expr, err := Parse("2d6+3")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if expr.Max() != 15 {
		t.Fatalf("max = %d, want 15", expr.Max())
	}
	if len(expr.Terms) != 2 {
		t.Fatalf("terms = %d, want 2", len(expr.Terms))
	}
	penalty, err := Parse("1d4-5")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if penalty.Max() != -1 {
		t.Fatalf("max = %d, want -1", penalty.Max())
	}
}

func TestRollSuccessProbabilityExtremes(t *testing.T) {
	for _, dieSize := range []int{6, 20} {
		for bonus := -5; bonus <= 15; bonus++ {
			natMax := RollSuccessProbability(dieSize+bonus, bonus, dieSize)
			if math.Abs(natMax-1/float64(dieSize)) > 1e-9 {
				t.Fatalf("d%d bonus %d: natural max only = %v, want %v", dieSize, bonus, natMax, 1/float64(dieSize))
			}
			natOneFails := RollSuccessProbability(bonus+1, bonus, dieSize)
			want := float64(dieSize-1) / float64(dieSize)
			if math.Abs(natOneFails-want) > 1e-9 {
				t.Fatalf("d%d bonus %d: only natural 1 fails = %v, want %v", dieSize, bonus, natOneFails, want)
			}
		}
	}
}

func TestRollSuccessProbabilityMonotonic(t *testing.T) {
	prev := 1.0
	for target := -10; target <= 40; target++ {
		got := RollSuccessProbability(target, 5, 20)
		if got > prev {
			t.Fatalf("probability rose from %v to %v at target %d", prev, got, target)
		}
		prev = got
	}
}

func TestRollSuccessProbabilityClamps(t *testing.T) {
	if got := RollSuccessProbability(100, 0, 20); got != 0.05 {
		t.Fatalf("unreachable target = %v, want 0.05", got)
	}
	if got := RollSuccessProbability(-100, 0, 20); got != 0.95 {
		t.Fatalf("trivial target = %v, want 0.95", got)
	}
	if got := RollSuccessProbability(15, 4, 20); got != 0.5 {
		t.Fatalf("AC 15 with +4 = %v, want 0.5", got)
	}
	if got := RollSuccessProbability(5, 0, 6); math.Abs(got-2.0/6.0) > 1e-9 {
		t.Fatalf("recharge 5-6 = %v, want %v", got, 2.0/6.0)
	}
	if got := RollSuccessProbability(15, 4, 0); got != 0.5 {
		t.Fatalf("zero die size should default to d20, got %v", got)
	}
}

func TestRollSuccessProbabilityFMatchesIntegers(t *testing.T) {
	for target := 2; target <= 25; target++ {
		whole := RollSuccessProbability(target, 3, 20)
		frac := RollSuccessProbabilityF(float64(target), 3, 20)
		if math.Abs(whole-frac) > 1e-9 {
			t.Fatalf("target %d: int %v != float %v", target, whole, frac)
		}
	}
	mid := RollSuccessProbabilityF(13.5, 4, 20)
	if math.Abs(mid-0.575) > 1e-9 {
		t.Fatalf("fractional AC 13.5 = %v, want 0.575", mid)
	}
}
