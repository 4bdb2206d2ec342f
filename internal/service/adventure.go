package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/repository"
)

// Adventure-related errors.
var (
	ErrPlayerExists     = errors.New("player profile already exists")
	ErrPlayerNotFound   = errors.New("player profile not found")
	ErrPlanetNotFound   = errors.New("planet not found")
	ErrPlanetConquered  = errors.New("planet already conquered")
	ErrNothingToExplore = errors.New("no planets left to explore")
)

// Loot an explorer can salvage from a conquered planet, by difficulty.
type lootItem struct {
	name  string
	value int64
}

var lootTable = map[string][]lootItem{
	model.DifficultyEasy: {
		{"Fragmento de Titanio", 5},
		{"Cableado Básico", 3},
		{"Chatarra Espacial", 1},
	},
	model.DifficultyMedium: {
		{"Placa de Acero Reforzado", 15},
		{"Cristal de Kyber (Pequeño)", 20},
		{"Procesador de Navegación", 18},
	},
	model.DifficultyHard: {
		{"Núcleo de Energía de Singularidad", 50},
		{"Aleación de Neutronio", 60},
		{"Mapa Estelar Antiguo", 45},
	},
}

// difficultyMultiplier scales a planet's rolled power.
var difficultyMultiplier = map[string]float64{
	model.DifficultyEasy:   0.5,
	model.DifficultyMedium: 1.0,
	model.DifficultyHard:   1.5,
}

// Profile bundles a player with their inventory for display.
type Profile struct {
	Player    *model.Player
	Loot      []*model.PlayerItem
	Conquered int
}

// BattleOutcome reports how an exploration went.
type BattleOutcome struct {
	Planet      *model.Planet
	Won         bool
	PlanetPower float64
	Reward      int64
	LootName    string
	LootValue   int64
}

// AdventureService runs the space-adventure minigame: player profiles, planet
// exploration and loot.
type AdventureService struct {
	advRepo *repository.AdventureRepository
	ledger  *LedgerService

	// Injected randomness, swappable in tests.
	randn func(n int) int
	randf func() float64
}

// NewAdventureService creates a new AdventureService instance.
func NewAdventureService(advRepo *repository.AdventureRepository, ledger *LedgerService) *AdventureService {
	return &AdventureService{
		advRepo: advRepo,
		ledger:  ledger,
		randn:   rand.Intn,
		randf:   rand.Float64,
	}
}

// StartProfile creates the player's adventure profile. Returns
// ErrPlayerExists if they already have one.
func (s *AdventureService) StartProfile(ctx context.Context, userID string) (*model.Player, error) {
	if _, _, err := s.ledger.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	created, err := s.advRepo.CreatePlayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrPlayerExists
	}

	log.Info().Str("user_id", userID).Msg("Adventure profile created")
	return s.advRepo.GetPlayer(ctx, userID)
}

// GetProfile retrieves the player's profile, inventory and conquest count.
func (s *AdventureService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	player, err := s.advRepo.GetPlayer(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	loot, err := s.advRepo.GetLoot(ctx, userID, 15)
	if err != nil {
		return nil, err
	}
	conquered, err := s.advRepo.CountConquered(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{Player: player, Loot: loot, Conquered: conquered}, nil
}

// ExplorablePlanets retrieves up to limit planets the player can still
// conquer. Returns ErrNothingToExplore when the galaxy is exhausted.
func (s *AdventureService) ExplorablePlanets(ctx context.Context, userID string, limit int) ([]*model.Planet, error) {
	if _, err := s.advRepo.GetPlayer(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	planets, err := s.advRepo.GetExplorablePlanets(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(planets) == 0 {
		return nil, ErrNothingToExplore
	}
	return planets, nil
}

// winChance computes the probability of beating a planet given the player's
// power. It never drops below the floor of a raw power gap and is capped at
// 0.95, so even an overwhelming fleet can lose.
func winChance(playerPower int, planetPower float64) float64 {
	chance := 0.5 + (float64(playerPower)-planetPower)/float64(playerPower+1)
	if chance > 0.95 {
		chance = 0.95
	}
	if chance < 0 {
		chance = 0
	}
	return chance
}

// Explore runs a battle for the planet. On a win the reward is credited, a
// loot item is salvaged and the planet is marked conquered for the player.
func (s *AdventureService) Explore(ctx context.Context, userID string, planetID int64) (*BattleOutcome, error) {
	player, err := s.advRepo.GetPlayer(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	planet, err := s.advRepo.GetPlanetByID(ctx, planetID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanetNotFound) {
			return nil, ErrPlanetNotFound
		}
		return nil, err
	}

	multiplier, ok := difficultyMultiplier[planet.Difficulty]
	if !ok {
		multiplier = 1.0
	}
	planetPower := float64(5+s.randn(16)) * multiplier

	outcome := &BattleOutcome{Planet: planet, PlanetPower: planetPower}
	if s.randf() >= winChance(player.PowerLevel, planetPower) {
		log.Debug().
			Str("user_id", userID).
			Str("planet", planet.Name).
			Float64("planet_power", planetPower).
			Msg("Exploration lost")
		return outcome, nil
	}

	conquered, err := s.advRepo.MarkConquered(ctx, userID, planetID)
	if err != nil {
		return nil, err
	}
	if !conquered {
		return nil, ErrPlanetConquered
	}

	outcome.Won = true
	outcome.Reward = planet.Reward

	desc := fmt.Sprintf("Conquista de %s", planet.Name)
	if err := s.ledger.Credit(ctx, userID, planet.Reward, model.TxTypeAdventure, desc); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("planet", planet.Name).Msg("Failed to credit exploration reward")
	}

	if table := lootTable[planet.Difficulty]; len(table) > 0 {
		loot := table[s.randn(len(table))]
		outcome.LootName = loot.name
		outcome.LootValue = loot.value
		if err := s.advRepo.AddLoot(ctx, userID, loot.name, loot.value); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("loot", loot.name).Msg("Failed to store loot")
		}
	}

	log.Info().
		Str("user_id", userID).
		Str("planet", planet.Name).
		Int64("reward", planet.Reward).
		Str("loot", outcome.LootName).
		Msg("Planet conquered")

	return outcome, nil
}
