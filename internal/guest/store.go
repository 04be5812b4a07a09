package guest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cartTTL   = 30 * 24 * time.Hour
	markerTTL = 24 * time.Hour

	kindCart     = "cart"
	kindWishlist = "wishlist"
)

// CartEntry is one guest-held cart line.
type CartEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Store holds device-scoped cart/wishlist state for users who have not
// signed in yet, plus the per-entry markers the merge uses to stay
// idempotent across retries.
type Store interface {
	AddCartEntry(ctx context.Context, guestID string, productID uuid.UUID, qty int) error
	CartEntries(ctx context.Context, guestID string) ([]CartEntry, error)
	AddWishlistEntry(ctx context.Context, guestID string, productID uuid.UUID) error
	WishlistEntries(ctx context.Context, guestID string) ([]uuid.UUID, error)

	MarkMerged(ctx context.Context, guestID, kind string, productID uuid.UUID) error
	IsMerged(ctx context.Context, guestID, kind string, productID uuid.UUID) (bool, error)

	// Clear drops the guest's cart, wishlist, and merge markers.
	Clear(ctx context.Context, guestID string) error
}

type store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) Store {
	return &store{rdb: rdb}
}

func cartKey(guestID string) string     { return "guest:cart:" + guestID }
func wishlistKey(guestID string) string { return "guest:wishlist:" + guestID }
func mergedKey(guestID string) string   { return "guest:merged:" + guestID }

func (s *store) AddCartEntry(
	ctx context.Context,
	guestID string,
	productID uuid.UUID,
	qty int,
) error {

	if qty < 1 {
		return fmt.Errorf("invalid guest cart quantity: %d", qty)
	}

	key := cartKey(guestID)
	pipe := s.rdb.TxPipeline()
	// Same add-or-increment rule as the signed-in cart.
	pipe.HIncrBy(ctx, key, productID.String(), int64(qty))
	pipe.Expire(ctx, key, cartTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *store) CartEntries(
	ctx context.Context,
	guestID string,
) ([]CartEntry, error) {

	raw, err := s.rdb.HGetAll(ctx, cartKey(guestID)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]CartEntry, 0, len(raw))
	for field, value := range raw {
		productID, err := uuid.Parse(field)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty < 1 {
			continue
		}
		entries = append(entries, CartEntry{ProductID: productID, Quantity: qty})
	}

	return entries, nil
}

func (s *store) AddWishlistEntry(
	ctx context.Context,
	guestID string,
	productID uuid.UUID,
) error {

	key := wishlistKey(guestID)
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, productID.String())
	pipe.Expire(ctx, key, cartTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *store) WishlistEntries(
	ctx context.Context,
	guestID string,
) ([]uuid.UUID, error) {

	members, err := s.rdb.SMembers(ctx, wishlistKey(guestID)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *store) MarkMerged(
	ctx context.Context,
	guestID, kind string,
	productID uuid.UUID,
) error {

	key := mergedKey(guestID)
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, kind+":"+productID.String())
	pipe.Expire(ctx, key, markerTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *store) IsMerged(
	ctx context.Context,
	guestID, kind string,
	productID uuid.UUID,
) (bool, error) {

	return s.rdb.SIsMember(ctx, mergedKey(guestID), kind+":"+productID.String()).Result()
}

func (s *store) Clear(ctx context.Context, guestID string) error {
	return s.rdb.Del(ctx,
		cartKey(guestID),
		wishlistKey(guestID),
		mergedKey(guestID),
	).Err()
}
