// Package wordpack serves words for board generation from packs compiled
// into the binary. The postgres repo offers a database-backed alternative
// with the same interface.
package wordpack

import (
	"embed"
	"math/rand/v2"
	"strings"

	"api/domain"
)

//go:embed english.txt
var packFiles embed.FS

// Supply draws unique uppercase words from named packs.
type Supply struct {
	packs map[string][]string
}

func NewSupply() *Supply {
	return &Supply{
		packs: map[string][]string{
			domain.DefaultWordPack: loadPack("english.txt"),
		},
	}
}

func loadPack(filename string) []string {
	raw, err := packFiles.ReadFile(filename)
	if err != nil {
		panic(err) // embedded file, cannot be missing
	}
	lines := strings.Split(string(raw), "\n")
	words := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		word := strings.ToUpper(strings.TrimSpace(line))
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

// Draw returns count unique uppercase words from the named pack.
func (s *Supply) Draw(pack string, count int) ([]string, error) {
	words, ok := s.packs[pack]
	if !ok {
		return nil, domain.ErrUnknownWordPack
	}
	if len(words) < count {
		return nil, domain.ErrNotEnoughWords
	}
	picked := make([]string, len(words))
	copy(picked, words)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:count], nil
}
