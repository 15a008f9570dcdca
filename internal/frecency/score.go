// Package frecency implements the ranking score that blends how often a
// path has been visited with how recently it was last seen.
//
// The heuristic follows the one used by the command-line tool fasd, which
// in turn borrowed it from Mozilla: visits-per-second of age, boosted by a
// coarse recency tier.
package frecency

const (
	secondsPerMinute = 60
	secondsPerHour   = secondsPerMinute * 60
	secondsPerDay    = secondsPerHour * 24
	secondsPerWeek   = secondsPerDay * 7

	// minAge clamps the age so a just-visited file does not divide by a
	// near-zero age and dwarf everything else.
	minAge = 100
)

// Score ranks a path given its last-seen time, visit count, and the
// current time (all epoch seconds). Higher is better.
func Score(lastSeen int64, visits int, now int64) float64 {
	age := now - lastSeen
	if age < minAge {
		age = minAge
	}
	return (float64(visits) / float64(age)) * float64(recencyWeight(age))
}

// recencyWeight is a step function over age: newer tiers weigh more.
func recencyWeight(age int64) int {
	switch {
	case age < secondsPerMinute:
		return 8
	case age < secondsPerHour:
		return 6
	case age < secondsPerDay:
		return 4
	case age < secondsPerWeek:
		return 2
	default:
		return 1
	}
}
