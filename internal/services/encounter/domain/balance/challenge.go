package balance

import "math"

var challengeXP = map[float64]int{
	0: 10, 0.125: 25, 0.25: 50, 0.5: 100,
	1: 200, 2: 450, 3: 700, 4: 1100, 5: 1800,
	6: 2300, 7: 2900, 8: 3900, 9: 5000, 10: 5900,
	11: 7200, 12: 8400, 13: 10000, 14: 11500, 15: 13000,
	16: 15000, 17: 18000, 18: 20000, 19: 22000, 20: 25000,
	21: 33000, 22: 41000, 23: 50000, 24: 62000, 25: 75000,
	26: 90000, 27: 105000, 28: 120000, 29: 135000, 30: 155000,
}

// XPForChallengeRating returns the XP award of a challenge rating. Fractional
// ratings are 1/8, 1/4, and 1/2.
func XPForChallengeRating(cr float64) (int, bool) {
	if math.IsNaN(cr) || cr < 0 {
		return 0, false
	}
	xp, ok := challengeXP[cr]
	return xp, ok
}
