package rules

// Contribution records which source categories corroborated a result,
// feeding the confidence score.
type Contribution struct {
	// Primary is true when the primary catalog returned a candidate.
	Primary bool
	// PrimaryPopularity is the primary catalog's popularity metric
	// (0-100), 0 when absent.
	PrimaryPopularity int
	// SecondaryYear is true when the secondary catalog supplied a year.
	SecondaryYear bool
	// AIGenre is true when the AI connector supplied a genre.
	AIGenre bool
}

// Confidence computes the normalized [0,1] corroboration score:
// +0.4 for a primary catalog hit (+0.1 when its popularity exceeds 70),
// +0.2 for a secondary catalog year, +0.2 for an AI genre, +0.2 when
// all three categories contributed. Zero contributing sources clamp to
// the 0.1 floor.
func Confidence(c Contribution) float64 {
	score := 0.0
	sources := 0

	if c.Primary {
		score += 0.4
		sources++
		if c.PrimaryPopularity > 70 {
			score += 0.1
		}
	}
	if c.SecondaryYear {
		score += 0.2
		sources++
	}
	if c.AIGenre {
		score += 0.2
		sources++
	}

	switch {
	case sources >= 3:
		score += 0.2
	case sources == 0:
		score = 0.1
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
