package pg

import (
	"context"
	"errors"
	"fmt"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ application.RecordStore = (*RecordStore)(nil)

type RecordStore struct{ db *DB }

func NewRecordStore(db *DB) *RecordStore { return &RecordStore{db: db} }

func (r *RecordStore) Load(ctx context.Context, addr domain.Identity) (domain.Record, error) {
	const q = `SELECT owner, data FROM accounts WHERE address=$1`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "accounts"),
		zap.String("operation", "Load"),
		zap.Stringer("address", addr),
	)
	var owner string
	var data []byte
	err := r.db.Pool.QueryRow(ctx, q, addr.String()).Scan(&owner, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("sql.query_no_rows")
		return domain.Record{Address: addr}, nil
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.Record{}, fmt.Errorf("load account: %w", err)
	}
	ownerID, err := domain.ParseIdentity(owner)
	if err != nil {
		return domain.Record{}, fmt.Errorf("account owner: %w", err)
	}
	if len(data) == 0 {
		data = nil
	}
	return domain.Record{Address: addr, Owner: ownerID, Data: data}, nil
}

func (r *RecordStore) Put(ctx context.Context, rec domain.Record) error {
	const up = `
        INSERT INTO accounts(address, owner, data, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (address) DO UPDATE
          SET owner=EXCLUDED.owner, data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`
	data := rec.Data
	if data == nil {
		data = []byte{}
	}
	_, err := r.db.Pool.Exec(ctx, up, rec.Address.String(), rec.Owner.String(), data)
	if err != nil {
		logx.WithFields(ctx).Error("sql.exec_failed",
			zap.String("repo", "accounts"),
			zap.String("operation", "Put"),
			zap.Stringer("address", rec.Address),
			zap.Error(err),
		)
		return fmt.Errorf("put account: %w", err)
	}
	return nil
}

func (r *RecordStore) Delete(ctx context.Context, addr domain.Identity) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM accounts WHERE address=$1`, addr.String())
	return err
}

func (r *RecordStore) Ping(ctx context.Context) error { return r.db.Ping(ctx) }
