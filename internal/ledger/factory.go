package ledger

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"truco-lite/internal/config"
)

// NewService opens the ledger named by cfg.Mode and reports the mode used.
func NewService(cfg config.Ledger) (Service, string, error) {
	mode, err := config.NormalizeLedgerMode(cfg.Mode)
	if err != nil {
		return nil, "", err
	}
	logger := log.With().Str("component", "ledger").Str("mode", mode).Logger()

	switch mode {
	case config.LedgerModeMemory:
		logger.Info().Msg("using in-memory ledger; matches are lost on exit")
		return NewMemoryService(cfg.RecentLimit), mode, nil
	case config.LedgerModeSQLite:
		service, err := NewSQLiteService(cfg.SQLitePath, cfg.RecentLimit)
		if err != nil {
			return nil, mode, fmt.Errorf("open sqlite ledger %s: %w", cfg.SQLitePath, err)
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("sqlite ledger ready")
		return service, mode, nil
	case config.LedgerModePostgres:
		service, err := NewPostgresService(cfg.PostgresDSN, cfg.RecentLimit)
		if err != nil {
			return nil, mode, fmt.Errorf("open postgres ledger: %w", err)
		}
		logger.Info().Msg("postgres ledger ready")
		return service, mode, nil
	}
	return nil, mode, fmt.Errorf("unsupported ledger mode %q", mode)
}
