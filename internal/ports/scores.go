package ports

import "context"

// ScoreUpdate is one player's share of a scored board.
type ScoreUpdate struct {
	UserID   string
	Points   int64
	Metadata map[string]interface{}
}

// ScorePort persists running bridge scores.
type ScorePort interface {
	// GetTotal returns the accumulated score for a user.
	GetTotal(ctx context.Context, userID string) (int64, error)

	// RecordScores applies the per-player deltas of a scored board.
	RecordScores(ctx context.Context, updates []ScoreUpdate) error
}
