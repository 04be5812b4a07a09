package wishlist

import (
	"context"
	"database/sql"
	"errors"

	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/product"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// Add returns ErrDuplicateEntry when the unique (user_id, product_id)
	// constraint is violated.
	Add(ctx context.Context, userID uint, productID uuid.UUID) (*WishlistItem, error)
	Remove(ctx context.Context, userID uint, productID uuid.UUID) error
	Clear(ctx context.Context, userID uint) error
	Rows(ctx context.Context, userID uint) ([]*WishlistItem, error)
	Count(ctx context.Context, userID uint) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) (*WishlistItem, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Add"),
		zap.Uint("user_id", userID),
		zap.String("product_id", productID.String()),
	)

	const q = `
	INSERT INTO wishlist (
		user_id,
		product_id
	)
	VALUES ($1, $2)
	RETURNING
		id,
		user_id,
		product_id,
		created_at
	`

	var item WishlistItem
	err := r.db.QueryRowContext(ctx, q, userID, productID).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateEntry
		}
		log.Error("failed to add wishlist item", zap.Error(err))
		return nil, err
	}

	return &item, nil
}

func (r *repository) Remove(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) error {

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlist
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
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlist
		WHERE user_id = $1
	`, userID)
	return err
}

func (r *repository) Rows(
	ctx context.Context,
	userID uint,
) ([]*WishlistItem, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Rows"),
		zap.Uint("user_id", userID),
	)

	const q = `
	SELECT
		w.id,
		w.user_id,
		w.product_id,
		w.created_at,

		p.id,
		p.name,
		p.price,
		p.stock_quantity,
		p.image_url
	FROM wishlist w
	JOIN products p ON w.product_id = p.id
	WHERE w.user_id = $1
	ORDER BY w.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []*WishlistItem

	for rows.Next() {
		item := &WishlistItem{Product: &product.Product{}}
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.CreatedAt,

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
		SELECT COUNT(*) FROM wishlist WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
