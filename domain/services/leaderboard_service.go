package services

import (
	"context"
	"fmt"
	"sort"

	"wagerbook/domain/interfaces"
)

type leaderboardService struct {
	accountRepo interfaces.LedgerAccountRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(accountRepo interfaces.LedgerAccountRepository) interfaces.LeaderboardService {
	return &leaderboardService{accountRepo: accountRepo}
}

// GetLeaderboard ranks every account by net profit, then ROI, then name
func (s *leaderboardService) GetLeaderboard(ctx context.Context) ([]*interfaces.LeaderboardEntry, error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	entries := make([]*interfaces.LeaderboardEntry, 0, len(accounts))
	for _, account := range accounts {
		entries = append(entries, &interfaces.LeaderboardEntry{
			AccountID:   account.ID,
			DisplayName: account.DisplayName,
			NetProfit:   account.NetProfit(),
			ROI:         account.ROI(),
			Wagered:     account.Wagered,
			Remaining:   account.Remaining,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.NetProfit.Equal(b.NetProfit) {
			return a.NetProfit.GreaterThan(b.NetProfit)
		}
		if !a.ROI.Equal(b.ROI) {
			return a.ROI.GreaterThan(b.ROI)
		}
		return a.DisplayName < b.DisplayName
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
