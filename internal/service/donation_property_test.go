// Property-based tests for DonationService validation and conservation.
package service

import (
	"errors"
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

// DonationResult represents the outcome of a donation for testing.
type DonationResult struct {
	SenderBalanceBefore   int64
	SenderBalanceAfter    int64
	ReceiverBalanceBefore int64
	ReceiverBalanceAfter  int64
	Amount                int64
	Success               bool
	Error                 error
}

// simulateDonation mirrors the validation and execution logic in
// DonationService.Donate without database dependencies.
func simulateDonation(senderBalance, receiverBalance, amount int64, senderID, receiverID string) DonationResult {
	result := DonationResult{
		SenderBalanceBefore:   senderBalance,
		ReceiverBalanceBefore: receiverBalance,
		Amount:                amount,
		SenderBalanceAfter:    senderBalance,
		ReceiverBalanceAfter:  receiverBalance,
	}

	if amount <= 0 {
		result.Error = ErrInvalidAmount
		return result
	}

	if senderID == receiverID {
		result.Error = ErrSelfDonation
		return result
	}

	if senderBalance < amount {
		result.Error = ErrInsufficientBalance
		return result
	}

	result.Success = true
	result.SenderBalanceAfter = senderBalance - amount
	result.ReceiverBalanceAfter = receiverBalance + amount
	return result
}

func drawUserID(t *rapid.T, label string) string {
	return strconv.FormatInt(rapid.Int64Range(1, 999999999999999999).Draw(t, label), 10)
}

// TestDonationConservationProperty checks that a successful donation
// moves exactly the donated amount and conserves the total supply.
func TestDonationConservationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		senderBalance := rapid.Int64Range(1, 1000000).Draw(t, "senderBalance")
		receiverBalance := rapid.Int64Range(0, 1000000).Draw(t, "receiverBalance")
		amount := rapid.Int64Range(1, senderBalance).Draw(t, "amount")

		senderID := drawUserID(t, "senderID")
		receiverID := drawUserID(t, "receiverID")
		if senderID == receiverID {
			t.Skip("same IDs drawn")
		}

		result := simulateDonation(senderBalance, receiverBalance, amount, senderID, receiverID)

		if !result.Success {
			t.Fatalf("Donation should succeed with valid inputs: senderBalance=%d, amount=%d, error=%v",
				senderBalance, amount, result.Error)
		}

		if result.SenderBalanceAfter != senderBalance-amount {
			t.Fatalf("Sender balance mismatch: expected %d, got %d",
				senderBalance-amount, result.SenderBalanceAfter)
		}
		if result.ReceiverBalanceAfter != receiverBalance+amount {
			t.Fatalf("Receiver balance mismatch: expected %d, got %d",
				receiverBalance+amount, result.ReceiverBalanceAfter)
		}

		totalBefore := senderBalance + receiverBalance
		totalAfter := result.SenderBalanceAfter + result.ReceiverBalanceAfter
		if totalBefore != totalAfter {
			t.Fatalf("Total balance not conserved: before=%d, after=%d", totalBefore, totalAfter)
		}
	})
}

// TestDonationValidationProperty checks that every invalid request is
// rejected with the right error and leaves both balances untouched.
// Rule priority: invalid amount, then self-donation, then insufficient balance.
func TestDonationValidationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		senderBalance := rapid.Int64Range(0, 1000000).Draw(t, "senderBalance")
		receiverBalance := rapid.Int64Range(0, 1000000).Draw(t, "receiverBalance")
		amount := rapid.Int64Range(-100, 1000100).Draw(t, "amount")
		senderID := drawUserID(t, "senderID")

		var receiverID string
		if rapid.Bool().Draw(t, "selfDonation") {
			receiverID = senderID
		} else {
			receiverID = drawUserID(t, "receiverID")
			if receiverID == senderID {
				t.Skip("same IDs drawn")
			}
		}

		result := simulateDonation(senderBalance, receiverBalance, amount, senderID, receiverID)

		var wantErr error
		switch {
		case amount <= 0:
			wantErr = ErrInvalidAmount
		case senderID == receiverID:
			wantErr = ErrSelfDonation
		case senderBalance < amount:
			wantErr = ErrInsufficientBalance
		}

		if wantErr == nil {
			if !result.Success {
				t.Fatalf("Should succeed with valid inputs, got error: %v", result.Error)
			}
			return
		}

		if result.Success {
			t.Fatalf("Should fail (want %v): balance=%d, amount=%d, self=%v",
				wantErr, senderBalance, amount, senderID == receiverID)
		}
		if !errors.Is(result.Error, wantErr) {
			t.Fatalf("Expected %v, got %v", wantErr, result.Error)
		}
		if result.SenderBalanceAfter != senderBalance || result.ReceiverBalanceAfter != receiverBalance {
			t.Fatalf("Balances should not change on failed donation: sender %d->%d, receiver %d->%d",
				senderBalance, result.SenderBalanceAfter, receiverBalance, result.ReceiverBalanceAfter)
		}
	})
}
