package game

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/wordspy/wordspy/internal/domain"
)

// BoardCard is one generated (word, position, category) triple.
type BoardCard struct {
	Word     string
	Position int
	Category domain.CardCategory
}

// GenerateBoard builds a shuffled 25-card board from the word pool. The team
// moving first gets 9 cards, the other 8, plus 7 neutral and the assassin.
// Word selection and category placement are shuffled independently so word
// order carries no information about categories.
func GenerateBoard(pool []string, firstTeam domain.Team) ([]BoardCard, error) {
	if len(pool) < domain.BoardSize {
		return nil, domain.ErrNotEnoughWords
	}

	words := make([]string, len(pool))
	copy(words, pool)
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	words = words[:domain.BoardSize]

	categories := categoryDeck(firstTeam)
	rand.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	cards := make([]BoardCard, domain.BoardSize)
	for i, word := range words {
		cards[i] = BoardCard{
			Word:     strings.ToUpper(word),
			Position: i,
			Category: categories[i],
		}
	}

	sort.Slice(cards, func(i, j int) bool { return cards[i].Position < cards[j].Position })

	return cards, nil
}

func categoryDeck(firstTeam domain.Team) []domain.CardCategory {
	redCount := domain.SecondTeamCards
	blueCount := domain.SecondTeamCards
	if firstTeam == domain.TeamRed {
		redCount = domain.FirstTeamCards
	} else {
		blueCount = domain.FirstTeamCards
	}

	deck := make([]domain.CardCategory, 0, domain.BoardSize)
	for i := 0; i < redCount; i++ {
		deck = append(deck, domain.CategoryRed)
	}
	for i := 0; i < blueCount; i++ {
		deck = append(deck, domain.CategoryBlue)
	}
	for i := 0; i < domain.NeutralCards; i++ {
		deck = append(deck, domain.CategoryNeutral)
	}
	deck = append(deck, domain.CategoryAssassin)

	return deck
}

// PickFirstTeam randomly chooses which team moves first.
func PickFirstTeam() domain.Team {
	if rand.IntN(2) == 0 {
		return domain.TeamRed
	}
	return domain.TeamBlue
}
