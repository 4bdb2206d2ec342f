// Package model defines the data models for the LBucks Discord bot.
package model

import "time"

// User represents a Discord member's LBucks account.
// Discord snowflake IDs are kept as opaque strings.
type User struct {
	DiscordID      string    `db:"discord_id"`
	Balance        int64     `db:"balance"`
	LastDailyClaim int64     `db:"last_daily_claim"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Transaction represents a balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// ShopItem represents a redeemable item in the shop.
// Item IDs encode the Robux amount, e.g. "100_robux".
type ShopItem struct {
	ItemID string `db:"item_id"`
	Price  int64  `db:"price"`
	Stock  int    `db:"stock"`
}

// Redemption statuses.
const (
	RedemptionPending   = "pending"
	RedemptionCompleted = "completed"
	RedemptionCancelled = "cancelled_by_admin"
)

// Redemption represents a pending or resolved shop redemption.
type Redemption struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ItemID    string    `db:"item_id"`
	MessageID string    `db:"message_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// Mission represents a daily mission definition.
type Mission struct {
	ID          int64  `db:"id"`
	Type        string `db:"type"`
	Description string `db:"description"`
	Target      int    `db:"target"`
	Reward      int64  `db:"reward"`
}

// MissionProgress represents a user's progress on a mission for one day.
type MissionProgress struct {
	Mission
	Progress  int  `db:"progress"`
	Completed bool `db:"completed"`
}

// InviteReward tracks how many uses of an invite code have been rewarded.
type InviteReward struct {
	Code         string `db:"code"`
	InviterID    string `db:"inviter_id"`
	RewardedUses int    `db:"rewarded_uses"`
}

// Player represents a member's space-adventure profile.
type Player struct {
	UserID       string    `db:"user_id"`
	ShipLevel    int       `db:"ship_level"`
	StationLevel int       `db:"station_level"`
	PowerLevel   int       `db:"power_level"`
	CreatedAt    time.Time `db:"created_at"`
}

// Planet represents an explorable planet in the space adventure.
type Planet struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Difficulty string `db:"difficulty"`
	Reward     int64  `db:"reward"`
}

// PlayerItem represents a piece of loot a player salvaged from a planet.
type PlayerItem struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	Name       string    `db:"name"`
	Value      int64     `db:"value"`
	AcquiredAt time.Time `db:"acquired_at"`
}

// Planet difficulties.
const (
	DifficultyEasy   = "Fácil"
	DifficultyMedium = "Intermedio"
	DifficultyHard   = "Difícil"
)

// Mission types tracked by the gateway listeners.
const (
	MissionMessageCount    = "message_count"
	MissionReactionAdd     = "reaction_add"
	MissionVoiceMinutes    = "voice_minutes"
	MissionSlashCommandUse = "slash_command_use"
)

// Transaction types for categorizing balance changes.
const (
	TxTypeDaily        = "daily"         // Daily login reward
	TxTypeDonationSent = "donation_sent" // Donation to another user
	TxTypeDonationRecv = "donation_recv" // Donation from another user
	TxTypeNumberWin    = "number_win"    // Number-guessing game reward
	TxTypeWordWin      = "word_win"      // Word-guessing game reward
	TxTypeRedeem       = "redeem"        // Shop redemption debit
	TxTypeRefund       = "refund"        // Redemption cancelled by admin
	TxTypeMission      = "mission"       // Daily mission reward
	TxTypeInvite       = "invite"        // Invite referral reward
	TxTypeAdminAdjust  = "admin_adjust"  // Admin added or removed LBucks
	TxTypeAdventure    = "adventure"     // Space-adventure exploration reward
)
