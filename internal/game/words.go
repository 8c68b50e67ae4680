package game

import (
	"bufio"
	"os"
	"strings"
)

// DefaultWordPool is the built-in fallback used when no words file is
// configured. It comfortably exceeds a single board.
var DefaultWordPool = []string{
	"APPLE", "ANCHOR", "ARROW", "BADGE", "BANK", "BARREL", "BEACH", "BELL",
	"BERRY", "BRIDGE", "BUTTON", "CANDLE", "CANYON", "CASTLE", "CHAIN",
	"CIRCLE", "CLOUD", "COMET", "COMPASS", "CORAL", "CROWN", "CRYSTAL",
	"DESERT", "DIAMOND", "DRAGON", "EAGLE", "ENGINE", "FALCON", "FEATHER",
	"FOREST", "FOUNTAIN", "GARDEN", "GHOST", "GLACIER", "GLOBE", "HAMMER",
	"HARBOR", "HELMET", "HORIZON", "ISLAND", "JACKET", "JUNGLE", "KETTLE",
	"KNIGHT", "LADDER", "LANTERN", "LEMON", "LIBRARY", "LIGHTHOUSE", "MAGNET",
	"MARBLE", "MEADOW", "MIRROR", "MOUNTAIN", "NEEDLE", "OCEAN", "ORBIT",
	"ORCHARD", "PALACE", "PARROT", "PEARL", "PENGUIN", "PILOT", "PLANET",
	"PRISM", "PYRAMID", "RABBIT", "RIVER", "ROCKET", "SADDLE", "SHADOW",
	"SHIELD", "SIGNAL", "SILVER", "SPIDER", "SPIRAL", "STATUE", "STORM",
	"SUMMIT", "TEMPLE", "THUNDER", "TIGER", "TORCH", "TOWER", "TRAIL",
	"TUNNEL", "TURTLE", "VALLEY", "VELVET", "VIOLIN", "VOLCANO", "WAGON",
	"WALNUT", "WHALE", "WHISTLE", "WINDOW", "WINTER", "WIZARD", "YACHT",
	"ZEPHYR",
}

// LoadWordPool reads a newline-separated word list. Blank lines and lines
// starting with '#' are skipped; words are uppercased and deduplicated.
func LoadWordPool(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var words []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}

		word = strings.ToUpper(word)
		if _, ok := seen[word]; ok {
			continue
		}

		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
