package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	sharedDomain "github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/services/query/internal/domain"
	"go.uber.org/zap"
)

type postgresViewStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresViewStore(pool *pgxpool.Pool, logger *zap.Logger) ViewStore {
	return &postgresViewStore{
		pool:   pool,
		logger: logger,
	}
}

func (s *postgresViewStore) Create(ctx context.Context, view *domain.OrderView) error {
	lines, err := json.Marshal(view.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal order lines: %w", err)
	}

	query := `
		INSERT INTO order_views (id, customer_id, lines, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			lines = EXCLUDED.lines,
			total = EXCLUDED.total,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			payment_status = NULL,
			inventory_status = NULL,
			final_status = NULL,
			updated_at = NULL
	`

	_, err = s.pool.Exec(ctx, query,
		view.OrderID, view.CustomerID, lines, view.Total, view.Status, view.CreatedAt)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to insert order view",
			zap.String("order_id", view.OrderID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert order view: %w", err)
	}

	return nil
}

func (s *postgresViewStore) ApplyStatus(ctx context.Context, event *sharedDomain.OrderStatusChanged) error {
	query := `
		UPDATE order_views
		SET payment_status = $2, inventory_status = $3, final_status = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		event.OrderID, event.PaymentStatus, event.InventoryStatus, event.FinalStatus, event.UpdatedAt)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to update order view",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to update order view: %w", err)
	}

	// Zero rows means the view does not exist yet; the patch is discarded.
	if tag.RowsAffected() == 0 {
		mylogger.Debug(
			ctx,
			s.logger,
			"Status update for unknown order view discarded",
			zap.String("order_id", event.OrderID),
		)
	}

	return nil
}

func (s *postgresViewStore) FindByID(ctx context.Context, id string) (*domain.OrderView, error) {
	query := `
		SELECT id, customer_id, lines, total, status, created_at,
		       payment_status, inventory_status, final_status, updated_at
		FROM order_views
		WHERE id = $1
	`

	var (
		view            domain.OrderView
		rawLines        []byte
		paymentStatus   *string
		inventoryStatus *string
		finalStatus     *string
		updatedAt       *time.Time
	)

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&view.OrderID, &view.CustomerID, &rawLines, &view.Total, &view.Status, &view.CreatedAt,
		&paymentStatus, &inventoryStatus, &finalStatus, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrViewNotFound
		}

		return nil, fmt.Errorf("failed to query order view: %w", err)
	}

	if err := json.Unmarshal(rawLines, &view.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order lines: %w", err)
	}

	if paymentStatus != nil {
		view.PaymentStatus = *paymentStatus
	}
	if inventoryStatus != nil {
		view.InventoryStatus = *inventoryStatus
	}
	if finalStatus != nil {
		view.FinalStatus = *finalStatus
	}
	view.UpdatedAt = updatedAt

	return &view, nil
}
