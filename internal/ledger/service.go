package ledger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultRecentLimit = 200

type Source string

const (
	SourceLive   Source = "live"
	SourceReplay Source = "replay"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid match record")
)

// Service stores finished matches. Implementations are safe for concurrent use.
type Service interface {
	Close() error
	// SaveMatch inserts or replaces a record and returns its id, minting a
	// UUID when the record has none.
	SaveMatch(ctx context.Context, rec MatchRecord) (string, error)
	GetMatch(ctx context.Context, matchID string) (MatchRecord, error)
	// RecentMatches lists newest first without events. An empty source
	// lists every source.
	RecentMatches(ctx context.Context, source Source, limit int) ([]MatchRecord, error)
}

type MatchRecord struct {
	MatchID   string      `json:"match_id"`
	Source    Source      `json:"source"`
	Players   []string    `json:"players"`
	Threshold int         `json:"threshold"`
	Winner    string      `json:"winner,omitempty"`
	ScoreUs   int         `json:"score_us"`
	ScoreThem int         `json:"score_them"`
	PlayedAt  time.Time   `json:"played_at"`
	Events    []EventItem `json:"events,omitempty"`
}

type EventItem struct {
	Seq         uint64 `json:"seq"`
	EventType   string `json:"event_type"`
	EnvelopeB64 string `json:"envelope_b64"`
}

func prepareRecord(rec MatchRecord) (MatchRecord, error) {
	rec.MatchID = strings.TrimSpace(rec.MatchID)
	if rec.MatchID == "" {
		rec.MatchID = uuid.NewString()
	}
	switch rec.Source {
	case SourceLive, SourceReplay:
	case "":
		rec.Source = SourceLive
	default:
		return rec, errors.Join(ErrInvalidRecord, errors.New("unknown source "+string(rec.Source)))
	}
	if len(rec.Players) == 0 {
		return rec, errors.Join(ErrInvalidRecord, errors.New("no players"))
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	rec.PlayedAt = rec.PlayedAt.UTC().Truncate(time.Millisecond)
	return rec, nil
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}

// MemoryService keeps records for the lifetime of the process.
type MemoryService struct {
	mu          sync.RWMutex
	records     map[string]MatchRecord
	recentLimit int
}

func NewMemoryService(recentLimit int) *MemoryService {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &MemoryService{records: make(map[string]MatchRecord), recentLimit: recentLimit}
}

func (s *MemoryService) Close() error { return nil }

func (s *MemoryService) SaveMatch(_ context.Context, rec MatchRecord) (string, error) {
	rec, err := prepareRecord(rec)
	if err != nil {
		return "", err
	}
	rec.Players = slices.Clone(rec.Players)
	rec.Events = slices.Clone(rec.Events)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.MatchID] = rec
	return rec.MatchID, nil
}

func (s *MemoryService) GetMatch(_ context.Context, matchID string) (MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[strings.TrimSpace(matchID)]
	if !ok {
		return MatchRecord{}, ErrNotFound
	}
	rec.Players = slices.Clone(rec.Players)
	rec.Events = slices.Clone(rec.Events)
	return rec, nil
}

func (s *MemoryService) RecentMatches(_ context.Context, source Source, limit int) ([]MatchRecord, error) {
	s.mu.RLock()
	items := make([]MatchRecord, 0, len(s.records))
	for _, rec := range s.records {
		if source != "" && rec.Source != source {
			continue
		}
		rec.Players = slices.Clone(rec.Players)
		rec.Events = nil
		items = append(items, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(items, func(a, b MatchRecord) int {
		if c := b.PlayedAt.Compare(a.PlayedAt); c != 0 {
			return c
		}
		return strings.Compare(a.MatchID, b.MatchID)
	})
	limit = clampLimit(limit, s.recentLimit)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
