package set

import "math/rand"

// Deck holds the cards that are not currently on the table.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a full deck of deckSize cards, shuffled with the given
// random number generator.
func NewDeck(deckSize int, rng *rand.Rand) *Deck {
	deck := &Deck{
		cards: make([]Card, 0, deckSize),
		rng:   rng,
	}

	for id := 0; id < deckSize; id++ {
		deck.cards = append(deck.cards, Card(id))
	}

	deck.Shuffle()

	return deck
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card of the deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Add returns a card to the bottom of the deck. Used when the table is
// cleared back into the deck on reshuffle.
func (d *Deck) Add(card Card) {
	d.cards = append(d.cards, card)
}

// Remove takes a specific card out of the deck. It reports whether the card
// was present. The dealer uses it to reserve an oracle-chosen set before
// dealing the rest of the table.
func (d *Deck) Remove(card Card) bool {
	for i, c := range d.cards {
		if c == card {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Size returns the number of cards remaining in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}
