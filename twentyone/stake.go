package twentyone

import "strings"

// DefaultStake is used when nothing is left of the stake text after cleaning.
const DefaultStake = "ничего"

// stakeFillers are conversational words people wrap a stake in
// ("играем на пиво", "ставлю кофе").
var stakeFillers = []string{"на", "сыграем", "играем", "ставлю", "поставлю", "играю", "ставим", "поставим"}

// CleanStake strips one leading and one trailing occurrence of each filler
// word, collapses whitespace and falls back to DefaultStake.
func CleanStake(text string) string {
	words := strings.Fields(text)
	for _, filler := range stakeFillers {
		if len(words) > 1 && strings.EqualFold(words[0], filler) {
			words = words[1:]
		}
	}
	for _, filler := range stakeFillers {
		if len(words) > 1 && strings.EqualFold(words[len(words)-1], filler) {
			words = words[:len(words)-1]
		}
	}
	stake := strings.Join(words, " ")
	if stake == "" {
		return DefaultStake
	}
	return stake
}
