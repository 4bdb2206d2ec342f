package service

import (
	"context"
	"errors"
	"fmt"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/pkg/lock"
	"lbucks-bot/internal/repository"
)

// Donation-related errors.
var (
	ErrSelfDonation = errors.New("cannot donate to self")
)

// DonationService handles user-to-user LBucks donations.
type DonationService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	userLock *lock.UserLock
}

// NewDonationService creates a new DonationService instance.
func NewDonationService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	userLock *lock.UserLock,
) *DonationService {
	return &DonationService{
		userRepo: userRepo,
		txRepo:   txRepo,
		userLock: userLock,
	}
}

// Donate transfers amount from one user to another. The sender is locked for
// the balance check and deduction so concurrent donations cannot overdraw.
func (s *DonationService) Donate(ctx context.Context, fromID, toID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfDonation
	}

	// Both accounts must exist before money moves.
	if _, _, err := s.userRepo.GetOrCreate(ctx, toID); err != nil {
		return fmt.Errorf("failed to ensure receiver: %w", err)
	}

	s.userLock.Lock(fromID)
	defer s.userLock.Unlock(fromID)

	sender, _, err := s.userRepo.GetOrCreate(ctx, fromID)
	if err != nil {
		return fmt.Errorf("failed to ensure sender: %w", err)
	}
	if sender.Balance < amount {
		return ErrInsufficientBalance
	}

	if _, err := s.userRepo.UpdateBalance(ctx, fromID, -amount); err != nil {
		return fmt.Errorf("failed to deduct from sender: %w", err)
	}

	if _, err := s.userRepo.UpdateBalance(ctx, toID, amount); err != nil {
		// Try to roll back the sender's balance
		_, _ = s.userRepo.UpdateBalance(ctx, fromID, amount)
		return fmt.Errorf("failed to add to receiver: %w", err)
	}

	senderDesc := fmt.Sprintf("Donación a <@%s>", toID)
	receiverDesc := fmt.Sprintf("Donación de <@%s>", fromID)
	_, _ = s.txRepo.Create(ctx, fromID, -amount, model.TxTypeDonationSent, &senderDesc)
	_, _ = s.txRepo.Create(ctx, toID, amount, model.TxTypeDonationRecv, &receiverDesc)

	return nil
}
