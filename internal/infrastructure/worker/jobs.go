package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"blendery/internal/infrastructure/storage/postgres"
	"blendery/pkg/logger"
)

// ExpiringBatch is a purchased batch close to its expiry date.
type ExpiringBatch struct {
	BatchCode    string          `db:"batch_code"`
	MaterialName string          `db:"material_name"`
	ExpiryDate   time.Time       `db:"expiry_date"`
	Quantity     decimal.Decimal `db:"quantity"`
}

const expiringBatchesSQL = `
	SELECT b.batch_code, m.name AS material_name, b.expiry_date, b.quantity
	FROM batches b
	JOIN materials m ON m.id = b.material_id
	WHERE b.expiry_date <= $1 AND m.current_stock > 0
	ORDER BY b.expiry_date, b.batch_code
	LIMIT 500`

// ExpiringBatches reports batches that expire within window while their
// material is still in stock.
func ExpiringBatches(txm *postgres.TxManager, window time.Duration, log *logger.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(window)

		var batches []ExpiringBatch
		if err := pgxscan.Select(ctx, txm.GetQuerier(ctx), &batches, expiringBatchesSQL, cutoff); err != nil {
			return fmt.Errorf("select expiring batches: %w", err)
		}

		for _, b := range batches {
			log.Warnw("batch expiring",
				"batch_code", b.BatchCode,
				"material", b.MaterialName,
				"expiry_date", b.ExpiryDate.Format(time.DateOnly),
				"quantity", b.Quantity)
		}
		if len(batches) > 0 {
			log.Infow("expiry check finished", "expiring", len(batches), "cutoff", cutoff.Format(time.DateOnly))
		}
		return nil
	}
}

// AuditRetention deletes audit entries older than retention.
func AuditRetention(txm *postgres.TxManager, retention time.Duration, log *logger.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		tag, err := txm.GetQuerier(ctx).Exec(ctx,
			`DELETE FROM sys_audit WHERE created_at < $1`, time.Now().UTC().Add(-retention))
		if err != nil {
			return fmt.Errorf("prune audit: %w", err)
		}
		if n := tag.RowsAffected(); n > 0 {
			log.Infow("pruned audit entries", "count", n)
		}
		return nil
	}
}
