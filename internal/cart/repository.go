package cart

import (
	"context"
	"database/sql"

	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// GetByUserAndProduct returns nil, nil when no row exists.
	GetByUserAndProduct(ctx context.Context, userID uint, productID uuid.UUID) (*CartItem, error)
	Create(ctx context.Context, userID uint, productID uuid.UUID, quantity int) (*CartItem, error)
	UpdateQuantity(ctx context.Context, userID uint, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID uint, productID uuid.UUID) error
	Clear(ctx context.Context, userID uint) error
	Rows(ctx context.Context, userID uint) ([]*CartItem, error)
	Count(ctx context.Context, userID uint) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserAndProduct(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) (*CartItem, error) {

	const q = `
	SELECT
		id,
		user_id,
		product_id,
		quantity,
		created_at,
		updated_at
	FROM cart
	WHERE user_id = $1 AND product_id = $2
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, q, userID, productID).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) Create(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
	quantity int,
) (*CartItem, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
		zap.String("product_id", productID.String()),
	)

	const q = `
	INSERT INTO cart (
		user_id,
		product_id,
		quantity
	)
	VALUES ($1, $2, $3)
	RETURNING
		id,
		user_id,
		product_id,
		quantity,
		created_at,
		updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, q, userID, productID, quantity).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item created", zap.Uint("cart_item_id", item.ID))

	return &item, nil
}

func (r *repository) UpdateQuantity(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
	quantity int,
) error {

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Remove(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) error {

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	// Clearing an already-empty cart is not an error.
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart
		WHERE user_id = $1
	`, userID)
	return err
}

func (r *repository) Rows(
	ctx context.Context,
	userID uint,
) ([]*CartItem, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Rows"),
		zap.Uint("user_id", userID),
	)

	const q = `
	SELECT
		c.id,
		c.user_id,
		c.product_id,
		c.quantity,
		c.created_at,
		c.updated_at,

		p.id,
		p.name,
		p.price,
		p.stock_quantity,
		p.image_url
	FROM cart c
	JOIN products p ON c.product_id = p.id
	WHERE c.user_id = $1
	ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []*CartItem

	for rows.Next() {
		item := &CartItem{Product: &product.Product{}}
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,

			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Price,
			&item.Product.StockQuantity,
			&item.Product.ImageURL,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return result, nil
}

func (r *repository) Count(ctx context.Context, userID uint) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM cart WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
