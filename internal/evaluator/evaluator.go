// Package evaluator ranks 5-7 card poker hands into totally ordered scores.
//
// A Score is (category << 20) | detail, where detail packs the ordered
// tie-breaker ranks into 4-bit nibbles, high-order first. Two scores from
// the same category therefore compare lexicographically on their
// tie-breakers, and any score from a higher category beats every score
// from a lower one.
package evaluator

import (
	"math/bits"

	"github.com/sixseat/holdem/internal/deck"
)

// Category enumerates hand categories from weakest to strongest.
type Category int32

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

const categoryShift = 20

// Score is the totally ordered strength of a hand. Higher beats lower.
type Score int32

// Category returns the hand category encoded in the score.
func (s Score) Category() Category {
	return Category(s >> categoryShift)
}

// Evaluate scores the best five-card hand contained in the given cards.
// NoCard entries are ignored, so callers can pass community slots straight
// from the table.
func Evaluate(cards []deck.Card) Score {
	var rankCount [13]int8
	var suitCount [4]int8
	var suitMask [4]uint16
	var rankMask uint16

	for _, c := range cards {
		if !c.Valid() {
			continue
		}
		r, s := c.Rank(), c.Suit()
		rankCount[r]++
		suitCount[s]++
		suitMask[s] |= 1 << uint(r)
		rankMask |= 1 << uint(r)
	}

	flushSuit := -1
	for s := 0; s < 4; s++ {
		if suitCount[s] >= 5 {
			flushSuit = s
		}
	}

	if flushSuit >= 0 {
		if hi := straightHigh(suitMask[flushSuit]); hi >= 0 {
			return score(StraightFlush, hi)
		}
	}

	quad := highestWithCount(rankCount, 4)
	if quad >= 0 {
		kicker := topRanksExcluding(rankMask, quad, 1)
		return score(FourOfAKind, append([]int{quad}, kicker...)...)
	}

	trips := highestWithCount(rankCount, 3)
	if trips >= 0 {
		// Best pair under the trips; a second set plays as the pair.
		pair := -1
		for r := 12; r >= 0; r-- {
			if r != trips && rankCount[r] >= 2 {
				pair = r
				break
			}
		}
		if pair >= 0 {
			return score(FullHouse, trips, pair)
		}
	}

	if flushSuit >= 0 {
		top := topRanks(suitMask[flushSuit], 5)
		return score(Flush, top...)
	}

	if hi := straightHigh(rankMask); hi >= 0 {
		return score(Straight, hi)
	}

	if trips >= 0 {
		kickers := topRanksExcluding(rankMask, trips, 2)
		return score(ThreeOfAKind, append([]int{trips}, kickers...)...)
	}

	highPair := highestWithCount(rankCount, 2)
	if highPair >= 0 {
		lowPair := -1
		for r := highPair - 1; r >= 0; r-- {
			if rankCount[r] >= 2 {
				lowPair = r
				break
			}
		}
		if lowPair >= 0 {
			kickerMask := rankMask &^ (1<<uint(highPair) | 1<<uint(lowPair))
			kicker := topRanks(kickerMask, 1)
			return score(TwoPair, append([]int{highPair, lowPair}, kicker...)...)
		}
		kickers := topRanksExcluding(rankMask, highPair, 3)
		return score(OnePair, append([]int{highPair}, kickers...)...)
	}

	return score(HighCard, topRanks(rankMask, 5)...)
}

// Compare returns -1, 0 or 1 as a sorts before, equal to or after b.
func Compare(a, b Score) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func score(c Category, ranks ...int) Score {
	detail := int32(0)
	for _, r := range ranks {
		detail = detail<<4 | int32(r)
	}
	return Score(int32(c)<<categoryShift | detail)
}

// straightHigh returns the rank of the top card of the best straight in
// the rank mask, or -1. The ace plays low in A-2-3-4-5, making the five
// (rank 3) the high card of the wheel.
func straightHigh(mask uint16) int {
	for hi := 12; hi >= 4; hi-- {
		run := uint16(0x1f) << uint(hi-4)
		if mask&run == run {
			return hi
		}
	}
	const wheel = 1<<12 | 0x0f
	if mask&wheel == wheel {
		return int(deck.Five)
	}
	return -1
}

func highestWithCount(counts [13]int8, n int8) int {
	for r := 12; r >= 0; r-- {
		if counts[r] == n {
			return r
		}
	}
	return -1
}

// topRanks returns the n highest ranks set in the mask, descending.
func topRanks(mask uint16, n int) []int {
	out := make([]int, 0, n)
	for mask != 0 && len(out) < n {
		r := 15 - bits.LeadingZeros16(mask)
		out = append(out, r)
		mask &^= 1 << uint(r)
	}
	return out
}

func topRanksExcluding(mask uint16, exclude, n int) []int {
	return topRanks(mask&^(1<<uint(exclude)), n)
}
