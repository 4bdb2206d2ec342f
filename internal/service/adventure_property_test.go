// Property-based tests for the exploration battle odds.
package service

import (
	"testing"

	"pgregory.net/rapid"

	"lbucks-bot/internal/model"
)

// TestWinChanceBoundsProperty verifies the battle odds stay inside [0, 0.95]
// for any power matchup.
func TestWinChanceBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		playerPower := rapid.IntRange(1, 10_000).Draw(t, "playerPower")
		roll := rapid.IntRange(5, 20).Draw(t, "roll")
		multiplier := rapid.SampledFrom([]float64{0.5, 1.0, 1.5}).Draw(t, "multiplier")

		chance := winChance(playerPower, float64(roll)*multiplier)

		if chance < 0 {
			t.Fatalf("Win chance must not go negative: player=%d roll=%d mult=%v chance=%v",
				playerPower, roll, multiplier, chance)
		}
		if chance > 0.95 {
			t.Fatalf("Win chance must be capped at 0.95: player=%d roll=%d mult=%v chance=%v",
				playerPower, roll, multiplier, chance)
		}
	})
}

// TestWinChanceMonotonicProperty verifies that more power never hurts the
// odds against the same planet.
func TestWinChanceMonotonicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weaker := rapid.IntRange(1, 5_000).Draw(t, "weaker")
		extra := rapid.IntRange(1, 5_000).Draw(t, "extra")
		planetPower := float64(rapid.IntRange(5, 20).Draw(t, "roll")) * 1.5

		low := winChance(weaker, planetPower)
		high := winChance(weaker+extra, planetPower)

		if high < low {
			t.Fatalf("More power lowered the odds: %d -> %v, %d -> %v against %v",
				weaker, low, weaker+extra, high, planetPower)
		}
	})
}

// TestWinChanceEvenMatch verifies an evenly matched battle sits at even odds.
func TestWinChanceEvenMatch(t *testing.T) {
	chance := winChance(10, 10)
	if chance < 0.45 || chance > 0.55 {
		t.Fatalf("Even matchup should be near a coin flip, got %v", chance)
	}
}

// TestLootTableCoversDifficulties verifies every seeded difficulty can drop
// loot and harder planets drop richer salvage.
func TestLootTableCoversDifficulties(t *testing.T) {
	difficulties := []string{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}

	var prevMax int64 = -1
	for _, d := range difficulties {
		table, ok := lootTable[d]
		if !ok || len(table) == 0 {
			t.Fatalf("Difficulty %q has no loot", d)
		}
		if _, ok := difficultyMultiplier[d]; !ok {
			t.Fatalf("Difficulty %q has no power multiplier", d)
		}

		var max int64
		for _, item := range table {
			if item.value <= 0 {
				t.Fatalf("Loot %q has non-positive value %d", item.name, item.value)
			}
			if item.value > max {
				max = item.value
			}
		}
		if max <= prevMax {
			t.Fatalf("Difficulty %q should drop richer loot than the previous tier (%d <= %d)", d, max, prevMax)
		}
		prevMax = max
	}
}
