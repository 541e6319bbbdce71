package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

type PostgresService struct {
	sqlStore
}

func NewPostgresService(dsn string, recentLimit int) (*PostgresService, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &PostgresService{sqlStore{db: db, recentLimit: recentLimit, bind: dollarBind}}, nil
}
