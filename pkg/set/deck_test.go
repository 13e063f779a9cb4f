package set

import (
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	deck := NewDeck(81, rng)

	if deck.Size() != 81 {
		t.Errorf("Expected deck size 81, got %d", deck.Size())
	}

	// Check that all cards are present exactly once
	seen := make(map[Card]bool)
	for _, card := range deck.cards {
		if seen[card] {
			t.Errorf("Duplicate card found: %v", card)
		}
		if card < 0 || card >= 81 {
			t.Errorf("Card id %d out of range", card)
		}
		seen[card] = true
	}
}

func TestDeckShuffleDeterminism(t *testing.T) {
	deck1 := NewDeck(81, rand.New(rand.NewSource(42)))
	deck2 := NewDeck(81, rand.New(rand.NewSource(42)))

	for i := range deck1.cards {
		if deck1.cards[i] != deck2.cards[i] {
			t.Fatalf("Decks with same seed diverge at position %d", i)
		}
	}

	deck3 := NewDeck(81, rand.New(rand.NewSource(43)))
	sameOrder := true
	for i := range deck1.cards {
		if deck1.cards[i] != deck3.cards[i] {
			sameOrder = false
			break
		}
	}
	if sameOrder {
		t.Error("Decks with different seeds should have different orders")
	}
}

func TestDeckDraw(t *testing.T) {
	deck := NewDeck(3, rand.New(rand.NewSource(42)))

	for i := 0; i < 3; i++ {
		if _, ok := deck.Draw(); !ok {
			t.Fatalf("Draw %d failed on a non-empty deck", i)
		}
	}

	if _, ok := deck.Draw(); ok {
		t.Error("Expected Draw to fail on an empty deck")
	}
	if deck.Size() != 0 {
		t.Errorf("Expected empty deck, got size %d", deck.Size())
	}
}

func TestDeckAddRemove(t *testing.T) {
	deck := NewDeck(3, rand.New(rand.NewSource(42)))

	drawn, _ := deck.Draw()
	deck.Add(drawn)
	if deck.Size() != 3 {
		t.Errorf("Expected size 3 after returning a card, got %d", deck.Size())
	}

	if !deck.Remove(drawn) {
		t.Error("Expected Remove to find the returned card")
	}
	if deck.Remove(drawn) {
		t.Error("Expected Remove to fail on an absent card")
	}
	if deck.Size() != 2 {
		t.Errorf("Expected size 2 after removal, got %d", deck.Size())
	}
}

func TestDeckCardsIsCopy(t *testing.T) {
	deck := NewDeck(5, rand.New(rand.NewSource(42)))

	cards := deck.Cards()
	cards[0] = 99

	if deck.cards[0] == 99 {
		t.Error("Cards() must return a copy")
	}
}
