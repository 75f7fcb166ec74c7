package game

import (
	"github.com/peterkuimelis/cardcrawl/internal/achievement"
	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/log"
)

// settleVictory folds the battle into the profile: stats, level rewards,
// the next level, achievements, then a save. Failures are reported as
// fault events.
func (m *BattleManager) settleVictory() {
	b := m.battle
	p := m.progress

	st := p.Stats
	st.TotalBattlesWon++
	st.TotalDamageDealt += b.Stats.DamageDealt
	st.TotalDamageTaken += b.Stats.DamageTaken
	st.TotalCardsPlayed += b.Stats.CardsPlayed
	st.TotalHealing += b.Stats.Healing

	rewards := b.Level.Rewards
	if rewards.Gold > 0 {
		p.GainGold(rewards.Gold)
		b.log(log.NewRewardEvent("gold", rewards.Gold, ""))
	}
	if rewards.Experience > 0 {
		before := p.Player.Level
		b.log(log.NewRewardEvent("experience", rewards.Experience, ""))
		gained := p.GainExperience(rewards.Experience)
		for i := 1; i <= gained; i++ {
			b.log(log.NewLevelUpEvent(before + i))
		}
	}
	for _, id := range rewards.Cards {
		p.OwnedCards = append(p.OwnedCards, id)
		b.log(log.NewRewardEvent("card", 1, id))
	}
	if next := m.cfg.Catalog.Level(b.Level.ID + 1); next != nil && p.UnlockLevel(next.ID) {
		b.log(log.NewRewardEvent("level unlocked", next.ID, ""))
	}

	if m.cfg.Achievements != nil {
		facts := achievement.FactsFor(p)
		facts.BossDefeated = b.Enemy.Type == catalog.EnemyBoss
		facts.PerfectBattle = b.Stats.DamageTaken == 0
		unlocked, err := m.cfg.Achievements.Evaluate(b.ctx, p, facts)
		for _, a := range unlocked {
			b.log(log.NewAchievementEvent(a.ID, a.Name))
		}
		if err != nil {
			b.log(log.NewFaultEvent("unlock achievements", err))
		}
	}

	if m.cfg.Store != nil {
		if err := m.cfg.Store.Save(b.ctx, p); err != nil {
			b.log(log.NewFaultEvent("save progress", err))
		} else {
			b.log(log.NewSavedEvent(p.PlayerID))
		}
	}
}
