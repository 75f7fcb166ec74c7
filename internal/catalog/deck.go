package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile is the YAML layout of a loadout file.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks" json:"decks"`
}

// DeckEntry is a named loadout.
type DeckEntry struct {
	Name  string      `yaml:"name" json:"name"`
	Cards []CardEntry `yaml:"cards" json:"cards"`
}

// CardEntry is a card id and how many copies to equip.
type CardEntry struct {
	ID    string `yaml:"id" json:"id"`
	Count int    `yaml:"count" json:"count"`
}

// ParseDecks decodes a loadout file.
func ParseDecks(data []byte) (DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// Expand flattens a loadout into card ids, rejecting ids the catalog lacks.
func (c *Catalog) Expand(deck DeckEntry) ([]string, error) {
	var ids []string
	for _, entry := range deck.Cards {
		if c.Card(entry.ID) == nil {
			return nil, fmt.Errorf("deck %q: unknown card %q", deck.Name, entry.ID)
		}
		for i := 0; i < entry.Count; i++ {
			ids = append(ids, entry.ID)
		}
	}
	return ids, nil
}

// DeckByNumber returns the Nth loadout (1-indexed) from the deck file.
func (c *Catalog) DeckByNumber(path string, n int) (string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	df, err := ParseDecks(data)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	ids, err := c.Expand(df.Decks[n-1])
	if err != nil {
		return "", nil, err
	}
	return df.Decks[n-1].Name, ids, nil
}
