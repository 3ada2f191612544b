package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"HoldemServer/internal/game/table"
)

type postgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo expects a *sql.DB opened with the "postgres" driver.
func NewPostgresRepo(db *sql.DB) Repo {
	return &postgresRepo{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS hand_results (
	id          BIGSERIAL PRIMARY KEY,
	session_id  TEXT        NOT NULL,
	hand_number INTEGER     NOT NULL,
	seat        INTEGER     NOT NULL,
	player_id   TEXT        NOT NULL,
	name        TEXT        NOT NULL,
	amount      BIGINT      NOT NULL,
	description TEXT        NOT NULL,
	cards       JSONB       NOT NULL DEFAULT '[]',
	by_showdown BOOLEAN     NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS hand_results_session_idx ON hand_results (session_id, id DESC);
`

// EnsureSchema creates the hand_results table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *postgresRepo) Append(ctx context.Context, rec Record) error {
	cards := rec.Cards
	if cards == nil {
		cards = []table.Card{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO hand_results
			(session_id, hand_number, seat, player_id, name, amount, description, cards, by_showdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.SessionID, rec.HandNumber, rec.Seat, rec.PlayerID, rec.Name,
		rec.Amount, rec.Description, string(data), rec.ByShowdown, rec.At,
	)
	return err
}

func (r *postgresRepo) Recent(ctx context.Context, sessionID string, n int) ([]Record, error) {
	query := `
		SELECT session_id, hand_number, seat, player_id, name, amount, description, cards, by_showdown, created_at
		FROM hand_results WHERE session_id = $1 ORDER BY id DESC`
	args := []any{sessionID}
	if n > 0 {
		query += ` LIMIT $2`
		args = append(args, n)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			rec   Record
			cards []byte
		)
		if err := rows.Scan(&rec.SessionID, &rec.HandNumber, &rec.Seat, &rec.PlayerID, &rec.Name,
			&rec.Amount, &rec.Description, &cards, &rec.ByShowdown, &rec.At); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cards, &rec.Cards); err != nil {
			return nil, fmt.Errorf("decode cards: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
