package set

// Oracle decides which card combinations form legal sets. Implementations
// must be pure and safe for concurrent use; both the dealer and table hint
// printing call it without coordination.
type Oracle interface {
	// FindSets returns up to limit legal sets among the given cards.
	FindSets(cards []Card, limit int) [][]Card
	// TestSet reports whether the given cards form a legal set.
	TestSet(cards []Card) bool
	// CardsToFeatures returns the feature matrix of the given cards, one row
	// per card.
	CardsToFeatures(cards []Card) [][]int
}

type oracle struct {
	featureSize  int
	featureCount int
}

// NewOracle creates the default oracle for a deck of deckSize cards whose
// legal sets have featureSize members. A set is legal when every feature is
// either shared by all members or distinct across all of them.
func NewOracle(featureSize, deckSize int) Oracle {
	if featureSize < 2 {
		panic("set: feature size must be at least 2")
	}
	return &oracle{
		featureSize:  featureSize,
		featureCount: featureCountFor(featureSize, deckSize),
	}
}

func (o *oracle) TestSet(cards []Card) bool {
	if len(cards) != o.featureSize {
		return false
	}

	for f := 0; f < o.featureCount; f++ {
		seen := make(map[int]int, o.featureSize)
		for _, c := range cards {
			seen[c.features(o.featureSize, o.featureCount)[f]]++
		}

		// all same or all different
		if len(seen) != 1 && len(seen) != len(cards) {
			return false
		}
	}

	return true
}

func (o *oracle) FindSets(cards []Card, limit int) [][]Card {
	var found [][]Card
	pick := make([]Card, 0, o.featureSize)

	var combine func(start int) bool
	combine = func(start int) bool {
		if len(pick) == o.featureSize {
			if o.TestSet(pick) {
				set := make([]Card, len(pick))
				copy(set, pick)
				found = append(found, set)
			}
			return len(found) >= limit
		}

		for i := start; i < len(cards); i++ {
			pick = append(pick, cards[i])
			done := combine(i + 1)
			pick = pick[:len(pick)-1]
			if done {
				return true
			}
		}
		return false
	}

	combine(0)
	return found
}

func (o *oracle) CardsToFeatures(cards []Card) [][]int {
	features := make([][]int, len(cards))
	for i, c := range cards {
		features[i] = c.features(o.featureSize, o.featureCount)
	}
	return features
}
