package scoring

import "math/rand/v2"

const MaxScore = 100

// Assessment is the machine side of an evaluation.
type Assessment struct {
	Score  int
	Reason string
}

// Scorer produces a machine score and rationale for a new upload.
type Scorer interface {
	Assess() Assessment
}

// RandomScorer draws a uniform score in [0,100] and a random rationale.
type RandomScorer struct{}

func NewRandomScorer() RandomScorer { return RandomScorer{} }

func (RandomScorer) Assess() Assessment {
	return Assessment{
		Score:  rand.IntN(MaxScore + 1),
		Reason: rationales[rand.IntN(len(rationales))],
	}
}

// FixedScorer always returns the same assessment.
type FixedScorer Assessment

func (f FixedScorer) Assess() Assessment { return Assessment(f) }
