// Package dice implements the probability math used by the encounter estimator:
// d20-style success chances and dice-expression expectations.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultDieSize is the die used for attack rolls and saving throws.
const DefaultDieSize = 20

// ErrDiceParse indicates a dice expression could not be parsed.
var ErrDiceParse = errors.New("invalid dice expression")

// DiceParseError names the expression and the token that failed to parse.
type DiceParseError struct {
	Expr  string
	Token string
}

// Error implements the error interface.
func (e *DiceParseError) Error() string {
	return fmt.Sprintf("parse dice %q: bad token %q", e.Expr, e.Token)
}

// Is reports ErrDiceParse as the sentinel for all parse failures.
func (e *DiceParseError) Is(target error) bool {
	return target == ErrDiceParse
}

// Term is one summand of an expression: Count dice of Sides faces, or a flat
// value when Sides is zero. Sign is +1 or -1.
type Term struct {
	Count int
	Sides int
	Flat  int
	Sign  int
}

// Expected returns the average value of the term.
func (t Term) Expected() float64 {
	if t.Sides == 0 {
		return float64(t.Sign * t.Flat)
	}
	return float64(t.Sign) * float64(t.Count) * float64(t.Sides+1) / 2
}

func (t Term) max() int {
	if t.Sides == 0 {
		return t.Sign * t.Flat
	}
	if t.Sign < 0 {
		return -t.Count
	}
	return t.Count * t.Sides
}

// Expression is a parsed dice expression such as "2d6+3" or "1d8+1d6".
type Expression struct {
	Source string
	Terms  []Term
}

// Expected returns the average total of the expression.
func (e Expression) Expected() float64 {
	total := 0.0
	for _, term := range e.Terms {
		total += term.Expected()
	}
	return total
}

// Max returns the highest possible total.
func (e Expression) Max() int {
	total := 0
	for _, term := range e.Terms {
		total += term.max()
	}
	return total
}

// Parse parses a compact dice expression.
//
// Accepted forms are bare integers ("7"), dice ("1d4", "d20"), and sums or
// differences of those ("2d6+3", "1d8 + 1d6 - 1"). The die letter is
// case-insensitive and whitespace is ignored. An empty expression parses to an
// Expression with no terms.
func Parse(expr string) (Expression, error) {
	compact := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	parsed := Expression{Source: expr}
	if compact == "" {
		return parsed, nil
	}

	sign := 1
	start := 0
	for i := 0; i <= len(compact); i++ {
		if i < len(compact) && compact[i] != '+' && compact[i] != '-' {
			continue
		}
		token := compact[start:i]
		if token == "" {
			// A leading sign is allowed once, doubled operators are not.
			if i != 0 || i == len(compact) {
				return Expression{}, &DiceParseError{Expr: expr, Token: compact[i-1 : min(i+1, len(compact))]}
			}
		} else {
			term, err := parseTerm(token)
			if err != nil {
				return Expression{}, &DiceParseError{Expr: expr, Token: token}
			}
			term.Sign = sign
			parsed.Terms = append(parsed.Terms, term)
		}
		if i < len(compact) {
			sign = 1
			if compact[i] == '-' {
				sign = -1
			}
		}
		start = i + 1
	}
	return parsed, nil
}

func parseTerm(token string) (Term, error) {
	idx := strings.IndexByte(token, 'd')
	if idx == -1 {
		flat, err := strconv.Atoi(token)
		if err != nil || flat < 0 {
			return Term{}, ErrDiceParse
		}
		return Term{Flat: flat}, nil
	}

	count := 1
	if idx > 0 {
		n, err := strconv.Atoi(token[:idx])
		if err != nil || n <= 0 {
			return Term{}, ErrDiceParse
		}
		count = n
	}
	sides, err := strconv.Atoi(token[idx+1:])
	if err != nil || sides <= 0 {
		return Term{}, ErrDiceParse
	}
	return Term{Count: count, Sides: sides}, nil
}

// ExpectedValue returns numDice*(sides+1)/2 + flat for the given expression.
// Empty expressions contribute 0.
func ExpectedValue(expr string) (float64, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return parsed.Expected(), nil
}

// RollSuccessProbability returns the chance that a roll of a dieSize-sided die
// plus bonus meets or exceeds target.
//
// The result is clamped so the highest face always succeeds and a 1 always
// fails: it lies in [1/dieSize, (dieSize-1)/dieSize]. Die sizes below 2 fall
// back to DefaultDieSize.
func RollSuccessProbability(target, bonus, dieSize int) float64 {
	if dieSize < 2 {
		dieSize = DefaultDieSize
	}
	faces := dieSize + 1 - (target - bonus)
	if faces < 1 {
		faces = 1
	}
	if faces > dieSize-1 {
		faces = dieSize - 1
	}
	return float64(faces) / float64(dieSize)
}

// RollSuccessProbabilityF is RollSuccessProbability for fractional targets and
// bonuses, as produced by group averages. The fractional part is interpolated
// linearly between the neighbouring integer thresholds.
func RollSuccessProbabilityF(target, bonus float64, dieSize int) float64 {
	if dieSize < 2 {
		dieSize = DefaultDieSize
	}
	faces := float64(dieSize) + 1 - (target - bonus)
	if faces < 1 {
		faces = 1
	}
	if faces > float64(dieSize-1) {
		faces = float64(dieSize - 1)
	}
	return faces / float64(dieSize)
}
