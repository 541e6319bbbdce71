package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS ledger_matches (
    match_id     TEXT PRIMARY KEY,
    source       TEXT NOT NULL,
    players_json TEXT NOT NULL,
    threshold    INTEGER NOT NULL,
    winner       TEXT NOT NULL DEFAULT '',
    score_us     INTEGER NOT NULL,
    score_them   INTEGER NOT NULL,
    played_at_ms BIGINT NOT NULL,
    events_json  TEXT NOT NULL
)`

const ledgerIndex = `
CREATE INDEX IF NOT EXISTS idx_ledger_matches_recent
    ON ledger_matches (source, played_at_ms DESC)`

// sqlStore carries the queries shared by the SQLite and Postgres services.
// Queries are written with ? placeholders and rewritten by bind.
type sqlStore struct {
	db          *sql.DB
	recentLimit int
	bind        func(string) string
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("create ledger_matches: %w", err)
	}
	if _, err := db.ExecContext(ctx, ledgerIndex); err != nil {
		return fmt.Errorf("create ledger index: %w", err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlStore) SaveMatch(ctx context.Context, rec MatchRecord) (string, error) {
	rec, err := prepareRecord(rec)
	if err != nil {
		return "", err
	}
	playersRaw, err := json.Marshal(rec.Players)
	if err != nil {
		return "", err
	}
	events := rec.Events
	if events == nil {
		events = []EventItem{}
	}
	eventsRaw, err := json.Marshal(events)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, s.bind(`
INSERT INTO ledger_matches (
    match_id, source, players_json, threshold, winner, score_us, score_them, played_at_ms, events_json
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id) DO UPDATE SET
    source = excluded.source,
    players_json = excluded.players_json,
    threshold = excluded.threshold,
    winner = excluded.winner,
    score_us = excluded.score_us,
    score_them = excluded.score_them,
    played_at_ms = excluded.played_at_ms,
    events_json = excluded.events_json
`), rec.MatchID, string(rec.Source), string(playersRaw), rec.Threshold, rec.Winner,
		rec.ScoreUs, rec.ScoreThem, rec.PlayedAt.UnixMilli(), string(eventsRaw))
	if err != nil {
		return "", fmt.Errorf("save match %s: %w", rec.MatchID, err)
	}
	return rec.MatchID, nil
}

func (s *sqlStore) GetMatch(ctx context.Context, matchID string) (MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, s.bind(`
SELECT match_id, source, players_json, threshold, winner, score_us, score_them, played_at_ms, events_json
FROM ledger_matches
WHERE match_id = ?
`), strings.TrimSpace(matchID))

	var (
		rec        MatchRecord
		source     string
		playersRaw string
		eventsRaw  string
		playedAtMs int64
	)
	err := row.Scan(&rec.MatchID, &source, &playersRaw, &rec.Threshold, &rec.Winner,
		&rec.ScoreUs, &rec.ScoreThem, &playedAtMs, &eventsRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, ErrNotFound
	}
	if err != nil {
		return MatchRecord{}, err
	}
	rec.Source = Source(source)
	rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	if err := json.Unmarshal([]byte(playersRaw), &rec.Players); err != nil {
		return MatchRecord{}, fmt.Errorf("decode players of %s: %w", rec.MatchID, err)
	}
	if err := json.Unmarshal([]byte(eventsRaw), &rec.Events); err != nil {
		return MatchRecord{}, fmt.Errorf("decode events of %s: %w", rec.MatchID, err)
	}
	return rec, nil
}

func (s *sqlStore) RecentMatches(ctx context.Context, source Source, limit int) ([]MatchRecord, error) {
	limit = clampLimit(limit, s.recentLimit)
	query := `
SELECT match_id, source, players_json, threshold, winner, score_us, score_them, played_at_ms
FROM ledger_matches
WHERE (? = '' OR source = ?)
ORDER BY played_at_ms DESC, match_id ASC
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, s.bind(query), string(source), string(source), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var (
			rec        MatchRecord
			src        string
			playersRaw string
			playedAtMs int64
		)
		if err := rows.Scan(&rec.MatchID, &src, &playersRaw, &rec.Threshold, &rec.Winner,
			&rec.ScoreUs, &rec.ScoreThem, &playedAtMs); err != nil {
			return nil, err
		}
		rec.Source = Source(src)
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		if err := json.Unmarshal([]byte(playersRaw), &rec.Players); err != nil {
			return nil, fmt.Errorf("decode players of %s: %w", rec.MatchID, err)
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func questionBind(q string) string { return q }

// dollarBind rewrites ? placeholders to $1, $2, ... for Postgres.
func dollarBind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
