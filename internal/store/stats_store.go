package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerStats struct {
	UserID       string
	GamesPlayed  int
	Wins         int
	Losses       int
	TotalStars   int
	BestAttempts int // 0 — ещё ни одной победы
	UpdatedAt    time.Time
}

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) InitForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (s *StatsStore) Get(ctx context.Context, userID string) (PlayerStats, error) {
	var st PlayerStats
	err := s.db.QueryRow(ctx, `
		SELECT user_id, games_played, wins, losses, total_stars, best_attempts, updated_at
		FROM player_stats
		WHERE user_id=$1
	`, userID).Scan(&st.UserID, &st.GamesPlayed, &st.Wins, &st.Losses, &st.TotalStars, &st.BestAttempts, &st.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// если вдруг статистики нет — это не фатально, можно считать нулями
		return PlayerStats{UserID: userID}, nil
	}
	if err != nil {
		return PlayerStats{}, err
	}
	return st, nil
}

// RecordWin учитывает победу. best_attempts двигается только вниз.
func (s *StatsStore) RecordWin(ctx context.Context, userID string, stars, attempts int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, games_played, wins, total_stars, best_attempts, updated_at)
		VALUES ($1, 1, 1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			games_played  = player_stats.games_played + 1,
			wins          = player_stats.wins + 1,
			total_stars   = player_stats.total_stars + EXCLUDED.total_stars,
			best_attempts = CASE
				WHEN player_stats.best_attempts = 0 OR EXCLUDED.best_attempts < player_stats.best_attempts
					THEN EXCLUDED.best_attempts
				ELSE player_stats.best_attempts
			END,
			updated_at = now()
	`, userID, stars, attempts)
	return err
}

func (s *StatsStore) RecordLoss(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, games_played, losses, updated_at)
		VALUES ($1, 1, 1, now())
		ON CONFLICT (user_id) DO UPDATE SET
			games_played = player_stats.games_played + 1,
			losses       = player_stats.losses + 1,
			updated_at   = now()
	`, userID)
	return err
}
