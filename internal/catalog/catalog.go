// Package catalog holds the read-only game data: cards, levels, enemies,
// items and achievements. Lookups of unknown ids return nil.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// EffectSpec describes an effect attached to a card.
type EffectSpec struct {
	Kind      EffectKind `yaml:"type" json:"type"`
	Value     float64    `yaml:"value" json:"value"`
	Times     int        `yaml:"times,omitempty" json:"times,omitempty"`
	Duration  int        `yaml:"duration,omitempty" json:"duration,omitempty"`
	Permanent bool       `yaml:"permanent,omitempty" json:"permanent,omitempty"`
	Target    Target     `yaml:"target,omitempty" json:"target,omitempty"`
}

type Card struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Type        CardType    `yaml:"type" json:"type"`
	Rarity      Rarity      `yaml:"rarity" json:"rarity"`
	Cost        int         `yaml:"cost" json:"cost"`
	Description string      `yaml:"description" json:"description"`
	Effect      *EffectSpec `yaml:"effect" json:"effect,omitempty"`
	Price       int         `yaml:"price" json:"price"`
}

// EnemyAction is one weighted entry of an enemy's behaviour table.
type EnemyAction struct {
	Kind     IntentKind `yaml:"type" json:"type"`
	Value    float64    `yaml:"value" json:"value"`
	Times    int        `yaml:"times,omitempty" json:"times,omitempty"`
	Effect   EffectKind `yaml:"effect,omitempty" json:"effect,omitempty"`
	Duration int        `yaml:"duration,omitempty" json:"duration,omitempty"`
	Weight   float64    `yaml:"weight" json:"weight"`
}

type Enemy struct {
	ID      string        `yaml:"id" json:"id"`
	Name    string        `yaml:"name" json:"name"`
	Type    EnemyType     `yaml:"type" json:"type"`
	Health  int           `yaml:"health" json:"health"`
	Attack  int           `yaml:"attack" json:"attack"`
	Actions []EnemyAction `yaml:"actions" json:"actions"`
}

type Rewards struct {
	Gold       int      `yaml:"gold" json:"gold"`
	Experience int      `yaml:"experience" json:"experience"`
	Cards      []string `yaml:"cards" json:"cards"`
}

type Level struct {
	ID          int     `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Difficulty  string  `yaml:"difficulty" json:"difficulty"`
	EnemyID     string  `yaml:"enemy" json:"enemy"`
	Rewards     Rewards `yaml:"rewards" json:"rewards"`
}

type Item struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Kind        ItemKind   `yaml:"type" json:"type"`
	Effect      EffectKind `yaml:"effect,omitempty" json:"effect,omitempty"`
	Value       float64    `yaml:"value" json:"value"`
	Duration    int        `yaml:"duration,omitempty" json:"duration,omitempty"`
	Description string     `yaml:"description" json:"description"`
	Price       int        `yaml:"price" json:"price"`
}

type Condition struct {
	Kind  ConditionKind `yaml:"type" json:"type"`
	Value int           `yaml:"value" json:"value"`
}

type Achievement struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Condition   Condition `yaml:"condition" json:"condition"`
}

// Catalog is an immutable, indexed view of the game data.
type Catalog struct {
	Cards        []*Card        `yaml:"cards"`
	Levels       []*Level       `yaml:"levels"`
	Enemies      []*Enemy       `yaml:"enemies"`
	Items        []*Item        `yaml:"items"`
	Achievements []*Achievement `yaml:"achievements"`

	cards        map[string]*Card
	levels       map[int]*Level
	enemies      map[string]*Enemy
	items        map[string]*Item
	achievements map[string]*Achievement
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

func (c *Catalog) index() error {
	c.cards = make(map[string]*Card, len(c.Cards))
	c.levels = make(map[int]*Level, len(c.Levels))
	c.enemies = make(map[string]*Enemy, len(c.Enemies))
	c.items = make(map[string]*Item, len(c.Items))
	c.achievements = make(map[string]*Achievement, len(c.Achievements))

	var errs []error
	for _, card := range c.Cards {
		if _, dup := c.cards[card.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate card %q", card.ID))
		}
		if card.Cost < 0 {
			errs = append(errs, fmt.Errorf("card %q: negative cost", card.ID))
		}
		c.cards[card.ID] = card
	}
	for _, e := range c.Enemies {
		if len(e.Actions) == 0 {
			errs = append(errs, fmt.Errorf("enemy %q has no actions", e.ID))
		}
		for _, a := range e.Actions {
			if a.Weight <= 0 {
				errs = append(errs, fmt.Errorf("enemy %q: action %s needs a positive weight", e.ID, a.Kind))
			}
		}
		c.enemies[e.ID] = e
	}
	for _, l := range c.Levels {
		if _, ok := c.enemies[l.EnemyID]; !ok {
			errs = append(errs, fmt.Errorf("level %d: unknown enemy %q", l.ID, l.EnemyID))
		}
		for _, id := range l.Rewards.Cards {
			if _, ok := c.cards[id]; !ok {
				errs = append(errs, fmt.Errorf("level %d: unknown reward card %q", l.ID, id))
			}
		}
		c.levels[l.ID] = l
	}
	for _, it := range c.Items {
		c.items[it.ID] = it
	}
	for _, a := range c.Achievements {
		c.achievements[a.ID] = a
	}
	sort.Slice(c.Levels, func(i, j int) bool { return c.Levels[i].ID < c.Levels[j].ID })
	return errors.Join(errs...)
}

func (c *Catalog) Card(id string) *Card               { return c.cards[id] }
func (c *Catalog) Level(id int) *Level                { return c.levels[id] }
func (c *Catalog) Enemy(id string) *Enemy             { return c.enemies[id] }
func (c *Catalog) Item(id string) *Item               { return c.items[id] }
func (c *Catalog) Achievement(id string) *Achievement { return c.achievements[id] }

// CardsOfType returns every card of the given type in catalog order.
func (c *Catalog) CardsOfType(t CardType) []*Card {
	var out []*Card
	for _, card := range c.Cards {
		if card.Type == t {
			out = append(out, card)
		}
	}
	return out
}

// CardsOfRarity returns every card of the given rarity in catalog order.
func (c *Catalog) CardsOfRarity(r Rarity) []*Card {
	var out []*Card
	for _, card := range c.Cards {
		if card.Rarity == r {
			out = append(out, card)
		}
	}
	return out
}

func (c *Catalog) EnemiesOfType(t EnemyType) []*Enemy {
	var out []*Enemy
	for _, e := range c.Enemies {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) ItemsOfKind(k ItemKind) []*Item {
	var out []*Item
	for _, it := range c.Items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}
