package address

import (
	"context"
	"database/sql"

	"analog-alley-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uint) ([]*Address, error)
	// GetByID returns nil, nil when the address does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	CountByUser(ctx context.Context, userID uint) (int, error)
	// MostRecent returns nil, nil when the user has no addresses.
	MostRecent(ctx context.Context, userID uint) (*Address, error)

	Create(ctx context.Context, addr *Address) error
	Update(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, id uuid.UUID, userID uint) error

	// SetDefault clears the user's old default and sets the new one inside
	// a single transaction, so no interleaving can leave two defaults.
	SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addressColumns = `
		id, user_id,
		street, city, province, postal_code, country,
		is_default, created_at, updated_at`

func (r *repository) GetByUserID(
	ctx context.Context,
	userID uint,
) ([]*Address, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "GetByUserID"),
		zap.Uint("user_id", userID),
	)

	const q = `
		SELECT` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*Address

	for rows.Next() {
		var a Address
		if err := rows.Scan(
			&a.ID, &a.UserID,
			&a.Street, &a.City, &a.Province, &a.PostalCode, &a.Country,
			&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &a)
	}

	return res, rows.Err()
}

func (r *repository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*Address, error) {

	const q = `
		SELECT` + addressColumns + `
		FROM addresses
		WHERE id = $1
		LIMIT 1
	`

	var a Address
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.UserID,
		&a.Street, &a.City, &a.Province, &a.PostalCode, &a.Country,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) CountByUser(ctx context.Context, userID uint) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM addresses WHERE user_id = $1
	`, userID).Scan(&count)
	return count, err
}

func (r *repository) MostRecent(
	ctx context.Context,
	userID uint,
) (*Address, error) {

	const q = `
		SELECT` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var a Address
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&a.ID, &a.UserID,
		&a.Street, &a.City, &a.Province, &a.PostalCode, &a.Country,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) Create(
	ctx context.Context,
	addr *Address,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "Create"),
		zap.String("address_id", addr.ID.String()),
	)

	const q = `
		INSERT INTO addresses (
			id, user_id,
			street, city, province, postal_code, country,
			is_default
		) VALUES (
			$1, $2,
			$3, $4, $5, $6, $7,
			$8
		)
	`

	_, err := r.db.ExecContext(
		ctx, q,
		addr.ID, addr.UserID,
		addr.Street, addr.City, addr.Province, addr.PostalCode, addr.Country,
		addr.IsDefault,
	)

	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	addr *Address,
) error {

	const q = `
		UPDATE addresses
		SET street = $1,
		    city = $2,
		    province = $3,
		    postal_code = $4,
		    country = $5,
		    updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`

	res, err := r.db.ExecContext(
		ctx, q,
		addr.Street, addr.City, addr.Province, addr.PostalCode, addr.Country,
		addr.ID, addr.UserID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func (r *repository) Delete(
	ctx context.Context,
	id uuid.UUID,
	userID uint,
) error {

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM addresses
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func (r *repository) SetDefault(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "SetDefault"),
		zap.Uint("user_id", userID),
		zap.String("address_id", addressID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = false
		WHERE user_id = $1
		  AND is_default = true
	`, userID)
	if err != nil {
		log.Error("failed to clear default", zap.Error(err))
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = true,
		    updated_at = NOW()
		WHERE user_id = $1
		  AND id = $2
	`, userID, addressID)
	if err != nil {
		log.Error("failed to set default", zap.Error(err))
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return tx.Commit()
}
