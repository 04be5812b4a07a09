package product

import (
	"context"
	"database/sql"

	"analog-alley-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// GetByID returns nil, nil when the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*Product, error) {

	const q = `
	SELECT
		id,
		name,
		price,
		stock_quantity,
		image_url
	FROM products
	WHERE id = $1
	`

	var p Product
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.StockQuantity,
		&p.ImageURL,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get product",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &p, nil
}
