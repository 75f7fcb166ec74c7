// Package save persists player progress between battles.
package save

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrNotFound is returned by Load when no save exists.
	ErrNotFound = errors.New("save: no saved progress")
	// ErrInvalidSave is returned when stored progress lacks required fields.
	ErrInvalidSave = errors.New("save: invalid save data")
)

const (
	StartingHealth = 80
	StartingMana   = 3
	// ExperiencePerLevel is multiplied by the current level to get the threshold.
	ExperiencePerLevel = 100
)

// StarterDeck is equipped on a fresh profile.
var StarterDeck = []string{
	"attack_basic", "attack_basic", "attack_basic", "attack_basic", "attack_basic",
	"defense_basic", "defense_basic", "defense_basic", "defense_basic", "defense_basic",
}

type Player struct {
	Level      int `json:"level"`
	Experience int `json:"experience"`
	Gold       int `json:"gold"`
	MaxHealth  int `json:"maxHealth"`
	MaxMana    int `json:"maxMana"`
}

// Stats are cumulative counters across all battles.
type Stats struct {
	TotalBattlesWon  int `json:"totalBattlesWon"`
	TotalDamageDealt int `json:"totalDamageDealt"`
	TotalDamageTaken int `json:"totalDamageTaken"`
	TotalCardsPlayed int `json:"totalCardsPlayed"`
	TotalGoldEarned  int `json:"totalGoldEarned"`
	TotalHealing     int `json:"totalHealing"`
}

type Settings struct {
	MusicVolume float64 `json:"musicVolume"`
	SoundVolume float64 `json:"soundVolume"`
	Difficulty  string  `json:"difficulty"`
}

func DefaultSettings() Settings {
	return Settings{MusicVolume: 0.5, SoundVolume: 0.5, Difficulty: "normal"}
}

// Progress is the persisted player profile.
type Progress struct {
	PlayerID         string               `json:"playerId"`
	Player           Player               `json:"player"`
	UnlockedLevels   []int                `json:"unlockedLevels"`
	OwnedCards       []string             `json:"ownedCards"`
	EquippedCards    []string             `json:"equippedCards"`
	Items            map[string]int       `json:"items"`
	Achievements     []string             `json:"achievements"`
	AchievementDates map[string]time.Time `json:"achievementDates"`
	Stats            *Stats               `json:"stats"`
	Settings         Settings             `json:"settings"`
	LastSaved        time.Time            `json:"lastSaved"`
}

// NewProgress returns a fresh level 1 profile with the starter deck.
func NewProgress() *Progress {
	return &Progress{
		Player: Player{
			Level:     1,
			MaxHealth: StartingHealth,
			MaxMana:   StartingMana,
		},
		UnlockedLevels:   []int{1},
		OwnedCards:       slices.Clone(StarterDeck),
		EquippedCards:    slices.Clone(StarterDeck),
		Items:            map[string]int{},
		Achievements:     []string{},
		AchievementDates: map[string]time.Time{},
		Stats:            &Stats{},
		Settings:         DefaultSettings(),
	}
}

// Validate checks that every required field is present.
func (p *Progress) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: empty", ErrInvalidSave)
	}
	var missing []string
	if p.UnlockedLevels == nil {
		missing = append(missing, "unlockedLevels")
	}
	if p.OwnedCards == nil {
		missing = append(missing, "ownedCards")
	}
	if p.EquippedCards == nil {
		missing = append(missing, "equippedCards")
	}
	if p.Achievements == nil {
		missing = append(missing, "achievements")
	}
	if p.Stats == nil {
		missing = append(missing, "stats")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrInvalidSave, missing)
	}
	return nil
}

// normalize fills optional fields that older saves may lack.
func (p *Progress) normalize() {
	if p.Items == nil {
		p.Items = map[string]int{}
	}
	if p.AchievementDates == nil {
		p.AchievementDates = map[string]time.Time{}
	}
	if p.Settings == (Settings{}) {
		p.Settings = DefaultSettings()
	}
	if p.Player.Level < 1 {
		p.Player.Level = 1
	}
	if p.Player.MaxHealth <= 0 {
		p.Player.MaxHealth = StartingHealth
	}
	if p.Player.MaxMana <= 0 {
		p.Player.MaxMana = StartingMana
	}
}

func (p *Progress) IsLevelUnlocked(id int) bool {
	return slices.Contains(p.UnlockedLevels, id)
}

func (p *Progress) UnlockLevel(id int) bool {
	if p.IsLevelUnlocked(id) {
		return false
	}
	p.UnlockedLevels = append(p.UnlockedLevels, id)
	slices.Sort(p.UnlockedLevels)
	return true
}

func (p *Progress) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

func (p *Progress) OwnsCard(id string) bool {
	return slices.Contains(p.OwnedCards, id)
}

// DistinctCards counts unique card ids in the collection.
func (p *Progress) DistinctCards() int {
	seen := make(map[string]struct{}, len(p.OwnedCards))
	for _, id := range p.OwnedCards {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// GainGold adds gold and records it as earned.
func (p *Progress) GainGold(amount int) {
	if amount <= 0 {
		return
	}
	p.Player.Gold += amount
	p.Stats.TotalGoldEarned += amount
}

// GainExperience adds experience and applies every level-up it pays for.
// Each level raises max health by 10 and max mana by 1. Returns the
// number of levels gained.
func (p *Progress) GainExperience(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.Player.Experience += amount
	gained := 0
	for p.Player.Experience >= p.Player.Level*ExperiencePerLevel {
		p.Player.Experience -= p.Player.Level * ExperiencePerLevel
		p.Player.Level++
		p.Player.MaxHealth += 10
		p.Player.MaxMana++
		gained++
	}
	return gained
}

// AttackPower is the profile's base attack rating shown on the character screen.
func (p *Progress) AttackPower(strength int) int {
	return 5 + p.Player.Level/2 + strength
}

// DefensePower is the profile's base defense rating shown on the character screen.
func (p *Progress) DefensePower(dexterity int) int {
	return 2 + p.Player.Level/3 + dexterity
}
