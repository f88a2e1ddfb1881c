package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ SendLog = (*PostgresSendLog)(nil)

type PostgresSendLog struct {
	pool *pgxpool.Pool
}

func NewPostgresSendLog(pool *pgxpool.Pool) *PostgresSendLog {
	return &PostgresSendLog{pool: pool}
}

func (l *PostgresSendLog) Record(ctx context.Context, msg SentMessage) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO send_log (order_id, buyer_id, item_id, sent_at) VALUES ($1, $2, $3, $4)`,
		msg.OrderID,
		msg.BuyerID,
		msg.ItemID,
		pgtype.Timestamptz{Time: msg.SentAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert send log entry: %w", err)
	}
	return nil
}
