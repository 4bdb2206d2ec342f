package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/model"
	"lbucks-bot/internal/pkg/lock"
	"lbucks-bot/internal/repository"
)

// Redemption-related errors.
var (
	ErrItemNotFound         = errors.New("shop item not found")
	ErrOutOfStock           = errors.New("item is out of stock")
	ErrRedemptionNotFound   = errors.New("redemption not found")
	ErrRedemptionNotPending = errors.New("redemption already resolved")
)

// RedemptionService handles the shop and the admin-moderated redemption
// queue. Purchases debit immediately; the LBucks only come back if an admin
// cancels the request.
type RedemptionService struct {
	ledger   *LedgerService
	shopRepo *repository.ShopRepository
	redRepo  *repository.RedemptionRepository
	userLock *lock.UserLock
}

// NewRedemptionService creates a new RedemptionService instance.
func NewRedemptionService(
	ledger *LedgerService,
	shopRepo *repository.ShopRepository,
	redRepo *repository.RedemptionRepository,
	userLock *lock.UserLock,
) *RedemptionService {
	return &RedemptionService{
		ledger:   ledger,
		shopRepo: shopRepo,
		redRepo:  redRepo,
		userLock: userLock,
	}
}

// ListItems returns every shop item ordered by price.
func (s *RedemptionService) ListItems(ctx context.Context) ([]*model.ShopItem, error) {
	return s.shopRepo.GetAll(ctx)
}

// Redeem purchases an item for the user and queues a pending redemption.
// The user is locked for the balance check and deduction so concurrent
// purchases cannot overdraw.
func (s *RedemptionService) Redeem(ctx context.Context, userID, itemID string) (*model.Redemption, *model.ShopItem, error) {
	item, err := s.shopRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, err
	}
	if item.Stock <= 0 {
		return nil, nil, ErrOutOfStock
	}

	s.userLock.Lock(userID)
	defer s.userLock.Unlock(userID)

	desc := fmt.Sprintf("Canje de %s", item.ItemID)
	if err := s.ledger.Debit(ctx, userID, item.Price, model.TxTypeRedeem, desc); err != nil {
		return nil, nil, err
	}

	ok, err := s.shopRepo.DecrementStock(ctx, itemID)
	if err != nil || !ok {
		// The shelf emptied between the check and the purchase; give the
		// LBucks back.
		refundDesc := fmt.Sprintf("Reembolso de %s (sin stock)", item.ItemID)
		if rerr := s.ledger.Credit(ctx, userID, item.Price, model.TxTypeRefund, refundDesc); rerr != nil {
			log.Error().Err(rerr).Str("user_id", userID).Str("item_id", itemID).Msg("Failed to refund after stock race")
		}
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrOutOfStock
	}

	red, err := s.redRepo.Create(ctx, uuid.NewString(), userID, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to queue redemption: %w", err)
	}

	log.Info().
		Str("redemption_id", red.ID).
		Str("user_id", userID).
		Str("item_id", itemID).
		Int64("price", item.Price).
		Msg("Redemption queued")

	return red, item, nil
}

// AttachMessage links a redemption to the admin-channel message that carries
// its approve and reject buttons.
func (s *RedemptionService) AttachMessage(ctx context.Context, redemptionID, messageID string) error {
	return s.redRepo.SetMessageID(ctx, redemptionID, messageID)
}

// Get retrieves a redemption by ID.
func (s *RedemptionService) Get(ctx context.Context, redemptionID string) (*model.Redemption, error) {
	red, err := s.redRepo.GetByID(ctx, redemptionID)
	if err != nil {
		if errors.Is(err, repository.ErrRedemptionNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}
	return red, nil
}

// Complete marks a pending redemption as fulfilled by an admin.
// Returns ErrRedemptionNotPending if another admin resolved it first.
func (s *RedemptionService) Complete(ctx context.Context, redemptionID string) (*model.Redemption, error) {
	red, err := s.Get(ctx, redemptionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.redRepo.UpdateStatus(ctx, redemptionID, model.RedemptionCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRedemptionNotPending
	}

	red.Status = model.RedemptionCompleted
	log.Info().Str("redemption_id", red.ID).Str("user_id", red.UserID).Msg("Redemption completed")
	return red, nil
}

// Cancel rejects a pending redemption, refunding the price and returning the
// item to stock. Returns ErrRedemptionNotPending if it was already resolved.
func (s *RedemptionService) Cancel(ctx context.Context, redemptionID string) (*model.Redemption, error) {
	red, err := s.Get(ctx, redemptionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.redRepo.UpdateStatus(ctx, redemptionID, model.RedemptionCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRedemptionNotPending
	}

	item, err := s.shopRepo.GetByID(ctx, red.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item for refund: %w", err)
	}

	desc := fmt.Sprintf("Reembolso de %s (cancelado por un administrador)", item.ItemID)
	if err := s.ledger.Credit(ctx, red.UserID, item.Price, model.TxTypeRefund, desc); err != nil {
		log.Error().Err(err).Str("redemption_id", red.ID).Msg("Failed to refund cancelled redemption")
	}
	if err := s.shopRepo.IncrementStock(ctx, red.ItemID); err != nil {
		log.Error().Err(err).Str("redemption_id", red.ID).Msg("Failed to restock cancelled redemption")
	}

	red.Status = model.RedemptionCancelled
	log.Info().Str("redemption_id", red.ID).Str("user_id", red.UserID).Msg("Redemption cancelled")
	return red, nil
}

// SetPrice sets a shop item's price, for admin adjustments.
func (s *RedemptionService) SetPrice(ctx context.Context, itemID string, price int64) error {
	if err := s.shopRepo.SetPrice(ctx, itemID, price); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	log.Info().Str("item_id", itemID).Int64("price", price).Msg("Shop price updated")
	return nil
}

// SetStock sets a shop item's stock, for admin adjustments.
func (s *RedemptionService) SetStock(ctx context.Context, itemID string, stock int) error {
	if err := s.shopRepo.SetStock(ctx, itemID, stock); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	log.Info().Str("item_id", itemID).Int("stock", stock).Msg("Shop stock updated")
	return nil
}

// PendingQueue retrieves the oldest pending redemptions.
func (s *RedemptionService) PendingQueue(ctx context.Context, limit int) ([]*model.Redemption, error) {
	return s.redRepo.GetPending(ctx, limit)
}

// UserRedemptions retrieves a user's recent redemptions.
func (s *RedemptionService) UserRedemptions(ctx context.Context, userID string, limit int) ([]*model.Redemption, error) {
	return s.redRepo.GetByUserID(ctx, userID, limit)
}
