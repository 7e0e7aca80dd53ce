package balance

// multiplierScale is the encounter multiplier ladder, extended one step in
// each direction for small and large parties.
var multiplierScale = [...]float64{0.5, 1, 1.5, 2, 2.5, 3, 4, 5}

func multiplierStep(count int) int {
	switch {
	case count <= 1:
		return 1
	case count == 2:
		return 2
	case count <= 6:
		return 3
	case count <= 10:
		return 4
	case count <= 14:
		return 5
	default:
		return 6
	}
}

// Multiplier returns the XP multiplier for a roster of count monsters facing
// a party of partySize characters. Parties of fewer than three move one step
// up the ladder; parties of six or more move one step down.
func Multiplier(count, partySize int) float64 {
	step := multiplierStep(count)
	switch {
	case partySize > 0 && partySize < 3:
		step++
	case partySize >= 6:
		step--
	}
	return multiplierScale[step]
}
