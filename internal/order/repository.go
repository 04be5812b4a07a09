package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"analog-alley-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx writes the order header, its items, and the stock
	// deductions in a single transaction. Either everything commits or
	// nothing does.
	CreateOrderTx(ctx context.Context, o *Order) error

	GetByUser(ctx context.Context, userID uint) ([]*Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID, userID uint) (*Order, error)

	// TransitionStatus moves an order from one status to another. It
	// reports ErrOrderNotCancellable when the order exists but is no
	// longer in the expected status.
	TransitionStatus(ctx context.Context, orderID uuid.UUID, userID uint, from, to Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(
	ctx context.Context,
	o *Order,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.Int("item_count", len(o.Items)),
	)

	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, order_number,
			status, payment_status, payment_method,
			subtotal, shipping_cost, tax, discount, total, currency,
			shipping_address, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
	`,
		o.ID,
		o.UserID,
		o.OrderNumber,
		o.Status,
		o.PaymentStatus,
		o.PaymentMethod,
		o.Subtotal,
		o.ShippingCost,
		o.Tax,
		o.Discount,
		o.Total,
		o.Currency,
		addressJSON,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name,
				quantity, unit_price, total_price, image_url
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			o.ID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.ImageURL,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1
			WHERE id = $2 AND stock_quantity >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			log.Error("failed to deduct stock",
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}

		// Another checkout may have taken the stock between validation
		// and commit; the guard in the WHERE clause catches it here.
		affected, _ := res.RowsAffected()
		if affected == 0 {
			log.Warn("stock deduction refused",
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
			)
			return ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	log.Info("order transaction committed")
	return nil
}

const orderColumns = `
	id, user_id, order_number,
	status, payment_status, payment_method,
	subtotal, shipping_cost, tax, discount, total, currency,
	shipping_address, created_at, updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var addressJSON []byte

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.Subtotal,
		&o.ShippingCost,
		&o.Tax,
		&o.Discount,
		&o.Total,
		&o.Currency,
		&addressJSON,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
			return nil, err
		}
	}

	return &o, nil
}

func (r *repository) GetByUser(
	ctx context.Context,
	userID uint,
) ([]*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByUser"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	orderID uuid.UUID,
	userID uint,
) (*Order, error) {

	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name,
			quantity, unit_price, total_price, image_url
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.ImageURL,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) TransitionStatus(
	ctx context.Context,
	orderID uuid.UUID,
	userID uint,
	from, to Status,
) error {

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = $4
	`, to, orderID, userID, from)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND user_id = $2)
		`, orderID, userID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrOrderNotCancellable
	}

	return nil
}
