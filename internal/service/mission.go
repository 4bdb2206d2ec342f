package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/repository"
)

// CompletedMission describes a mission that just crossed its target, so the
// caller can announce the reward.
type CompletedMission struct {
	Mission model.Mission
	Reward  int64
}

// MissionService tracks daily mission progress fed by gateway events and
// pays out each mission at most once per user per day.
type MissionService struct {
	missionRepo *repository.MissionRepository
	ledger      *LedgerService
}

// NewMissionService creates a new MissionService instance.
func NewMissionService(missionRepo *repository.MissionRepository, ledger *LedgerService) *MissionService {
	return &MissionService{
		missionRepo: missionRepo,
		ledger:      ledger,
	}
}

// Progress adds delta to every mission of the given type for the user and
// credits the reward for each mission that just reached its target. The
// completed flag flips exactly once in the database, so a burst of events
// cannot double-pay.
func (s *MissionService) Progress(ctx context.Context, userID, missionType string, delta int) ([]CompletedMission, error) {
	missions, err := s.missionRepo.GetByType(ctx, missionType)
	if err != nil {
		return nil, err
	}
	if len(missions) == 0 {
		return nil, nil
	}

	var completed []CompletedMission
	for _, m := range missions {
		progress, alreadyDone, err := s.missionRepo.AddProgress(ctx, userID, m.ID, delta)
		if err != nil {
			return completed, err
		}
		if alreadyDone || progress < m.Target {
			continue
		}

		ok, err := s.missionRepo.MarkCompleted(ctx, userID, m.ID)
		if err != nil {
			return completed, err
		}
		if !ok {
			// Another event settled this mission first.
			continue
		}

		desc := fmt.Sprintf("Misión completada: %s", m.Description)
		if err := s.ledger.Credit(ctx, userID, m.Reward, model.TxTypeMission, desc); err != nil {
			log.Error().
				Err(err).
				Str("user_id", userID).
				Int64("mission_id", m.ID).
				Msg("Failed to credit mission reward")
			continue
		}

		log.Info().
			Str("user_id", userID).
			Int64("mission_id", m.ID).
			Int64("reward", m.Reward).
			Msg("Mission completed")
		completed = append(completed, CompletedMission{Mission: *m, Reward: m.Reward})
	}

	return completed, nil
}

// DailyProgress retrieves every mission with the user's progress for today.
func (s *MissionService) DailyProgress(ctx context.Context, userID string) ([]*model.MissionProgress, error) {
	return s.missionRepo.GetDailyProgress(ctx, userID)
}

// CleanOld removes mission progress older than the given number of days.
// Completed days never pay again, so old rows are just dead weight.
func (s *MissionService) CleanOld(ctx context.Context, daysOld int) {
	removed, err := s.missionRepo.CleanOldProgress(ctx, daysOld)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to clean old mission progress")
		return
	}
	if removed > 0 {
		log.Info().Int64("rows", removed).Msg("Cleaned old mission progress")
	}
}
