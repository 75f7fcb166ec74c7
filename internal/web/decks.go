package web

import (
	"os"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
)

// DeckInfo is the JSON representation of a loadout for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Cards  []string `json:"cards"`
}

func loadDecks(path string) ([]DeckInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	df, err := catalog.ParseDecks(data)
	if err != nil {
		return nil, err
	}
	decks := make([]DeckInfo, 0, len(df.Decks))
	for i, d := range df.Decks {
		di := DeckInfo{Number: i + 1, Name: d.Name}
		for _, c := range d.Cards {
			di.Cards = append(di.Cards, c.ID)
			di.Size += c.Count
		}
		decks = append(decks, di)
	}
	return decks, nil
}
