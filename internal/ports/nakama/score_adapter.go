package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"

	"contractbridge/internal/ports"
)

// walletModule is the part of runtime.NakamaModule the score adapter needs.
type walletModule interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
	WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error)
}

// NakamaScoreAdapter implements ports.ScorePort on a Nakama wallet currency.
type NakamaScoreAdapter struct {
	nk       walletModule
	currency string
}

func NewNakamaScoreAdapter(nk walletModule, currency string) *NakamaScoreAdapter {
	return &NakamaScoreAdapter{nk: nk, currency: currency}
}

func (a *NakamaScoreAdapter) GetTotal(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if account.Wallet != "" {
		if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
			return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
		}
	}
	return wallet[a.currency], nil
}

// RecordScores writes each non-zero delta as a wallet update.
func (a *NakamaScoreAdapter) RecordScores(ctx context.Context, updates []ports.ScoreUpdate) error {
	for _, update := range updates {
		if update.Points == 0 {
			continue
		}
		changes := map[string]int64{a.currency: update.Points}
		if _, _, err := a.nk.WalletUpdate(ctx, update.UserID, changes, update.Metadata, true); err != nil {
			return fmt.Errorf("failed to record score for user %s: %w", update.UserID, err)
		}
	}
	return nil
}
