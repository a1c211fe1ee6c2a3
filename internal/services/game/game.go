package game

import (
	"math/rand/v2"
	"sync"
)

type Choice string

const (
	ChoiceSmall Choice = "small"
	ChoiceBig   Choice = "big"
)

type Status string

const (
	StatusWin  Status = "Win"
	StatusLose Status = "Lose"
	StatusDraw Status = "Draw"
)

const (
	MinRank  = 1
	MaxRank  = 13
	DrawRank = 7
)

type Suit struct {
	Name string
	Icon string
}

var Suits = [4]Suit{
	{Name: "Spade", Icon: "♠️"},
	{Name: "Heart", Icon: "❤️"},
	{Name: "Diamond", Icon: "♦️"},
	{Name: "Club", Icon: "♣️"},
}

type Card struct {
	Rank int
	Suit Suit
}

// Result is a single draw together with its classification for the
// choice it was resolved against.
type Result struct {
	Card   Card
	Status Status
}

type Resolver interface {
	Resolve(choice Choice) Result
}

// Classify maps a drawn rank to an outcome. Choices other than small/big
// are accepted and simply never hit a winning range.
func Classify(choice Choice, rank int) Status {
	switch {
	case choice == ChoiceSmall && rank >= 1 && rank <= 6:
		return StatusWin
	case choice == ChoiceBig && rank >= 8 && rank <= 13:
		return StatusWin
	case rank == DrawRank:
		return StatusDraw
	default:
		return StatusLose
	}
}

// RandomResolver draws rank and suit independently and uniformly.
// Safe for concurrent use.
type RandomResolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomResolver returns a resolver backed by src. A nil src uses the
// runtime's global generator.
func NewRandomResolver(src rand.Source) *RandomResolver {
	r := &RandomResolver{}
	if src != nil {
		r.rng = rand.New(src)
	}

	return r
}

func (r *RandomResolver) Resolve(choice Choice) Result {
	rank, suit := r.draw()

	card := Card{Rank: rank, Suit: Suits[suit]}

	return Result{Card: card, Status: Classify(choice, card.Rank)}
}

func (r *RandomResolver) draw() (int, int) {
	if r.rng == nil {
		return MinRank + rand.IntN(MaxRank), rand.IntN(len(Suits))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return MinRank + r.rng.IntN(MaxRank), r.rng.IntN(len(Suits))
}

// FixedResolver always draws the same card.
type FixedResolver struct {
	Card Card
}

func (f FixedResolver) Resolve(choice Choice) Result {
	return Result{Card: f.Card, Status: Classify(choice, f.Card.Rank)}
}

// Fixed returns a FixedResolver for the given rank, using the first suit.
func Fixed(rank int) FixedResolver {
	return FixedResolver{Card: Card{Rank: rank, Suit: Suits[0]}}
}
