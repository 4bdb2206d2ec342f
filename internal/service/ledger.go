// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/repository"
)

// Common errors for ledger operations.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount: must be positive")
	ErrUserNotFound        = errors.New("user not found")
	ErrDailyAlreadyClaimed = errors.New("daily reward already claimed")
)

// LedgerService handles user accounts and balance movements. Every change
// goes through here so each one leaves a transaction record behind.
type LedgerService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository

	dailyReward   int64
	dailyCooldown time.Duration
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	dailyReward int64,
	dailyCooldown time.Duration,
) *LedgerService {
	return &LedgerService{
		userRepo:      userRepo,
		txRepo:        txRepo,
		dailyReward:   dailyReward,
		dailyCooldown: dailyCooldown,
	}
}

// EnsureUser ensures a user account exists, creating one with a zero balance
// if necessary. Returns the user and whether it was newly created.
func (s *LedgerService) EnsureUser(ctx context.Context, discordID string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}
	return user, created, nil
}

// GetBalance retrieves a user's current balance, creating the account if it
// does not exist yet.
func (s *LedgerService) GetBalance(ctx context.Context, discordID string) (int64, error) {
	user, _, err := s.userRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

// GetUser retrieves a user by their Discord ID.
func (s *LedgerService) GetUser(ctx context.Context, discordID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, discordID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Credit adds amount to a user's balance and records a transaction. The
// account is created on first contact so game wins never bounce.
func (s *LedgerService) Credit(ctx context.Context, discordID string, amount int64, txType, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if _, _, err := s.userRepo.GetOrCreate(ctx, discordID); err != nil {
		return fmt.Errorf("failed to ensure user for credit: %w", err)
	}

	if _, err := s.userRepo.UpdateBalance(ctx, discordID, amount); err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	if _, err := s.txRepo.Create(ctx, discordID, amount, txType, &description); err != nil {
		// Non-fatal, balance was already updated
		log.Warn().Err(err).Str("user_id", discordID).Msg("Failed to record credit transaction")
	}

	return nil
}

// Debit subtracts amount from a user's balance and records a transaction.
// Returns ErrInsufficientBalance without touching the balance when the user
// cannot afford it.
func (s *LedgerService) Debit(ctx context.Context, discordID string, amount int64, txType, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	user, err := s.GetUser(ctx, discordID)
	if err != nil {
		return err
	}
	if user.Balance < amount {
		return ErrInsufficientBalance
	}

	if _, err := s.userRepo.UpdateBalance(ctx, discordID, -amount); err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	if _, err := s.txRepo.Create(ctx, discordID, -amount, txType, &description); err != nil {
		// Non-fatal, balance was already updated
		log.Warn().Err(err).Str("user_id", discordID).Msg("Failed to record debit transaction")
	}

	return nil
}

// ClaimDaily attempts to claim the daily login reward for a user.
// Returns the amount granted, or ErrDailyAlreadyClaimed with the remaining
// cooldown when the user claimed too recently.
func (s *LedgerService) ClaimDaily(ctx context.Context, discordID string) (int64, time.Duration, error) {
	if _, _, err := s.userRepo.GetOrCreate(ctx, discordID); err != nil {
		return 0, 0, fmt.Errorf("failed to ensure user for daily claim: %w", err)
	}

	canClaim, remaining, err := s.userRepo.CanClaimDaily(ctx, discordID, s.dailyCooldown)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to check daily claim eligibility: %w", err)
	}
	if !canClaim {
		return 0, remaining, ErrDailyAlreadyClaimed
	}

	if _, err := s.userRepo.UpdateBalance(ctx, discordID, s.dailyReward); err != nil {
		return 0, 0, fmt.Errorf("failed to add daily reward: %w", err)
	}

	if _, err := s.userRepo.UpdateDailyClaim(ctx, discordID, time.Now().Unix()); err != nil {
		return 0, 0, fmt.Errorf("failed to update daily claim time: %w", err)
	}

	desc := "Recompensa de inicio de sesión diario"
	if _, err := s.txRepo.Create(ctx, discordID, s.dailyReward, model.TxTypeDaily, &desc); err != nil {
		// Non-fatal, balance was already updated
		log.Warn().Err(err).Str("user_id", discordID).Msg("Failed to record daily claim transaction")
	}

	return s.dailyReward, 0, nil
}

// GetTopUsers retrieves the top users by balance for the leaderboard.
func (s *LedgerService) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}

// GetHistory retrieves a user's recent transactions.
func (s *LedgerService) GetHistory(ctx context.Context, discordID string, limit int) ([]*model.Transaction, error) {
	return s.txRepo.GetByUserID(ctx, discordID, limit)
}
