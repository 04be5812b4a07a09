package guest

import (
	"context"
	"errors"
	"fmt"

	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/wishlist"

	"go.uber.org/zap"
)

// Reconciler migrates a guest's device-held cart and wishlist into the
// authoritative per-user stores at login, then discards the guest copy.
//
// The merge is a best-effort batch: each entry is applied and then marked so
// an interrupted run can be retried without re-incrementing entries that
// already landed. The guest copy is cleared only after a fully successful
// pass.
type Reconciler struct {
	store       Store
	cartSvc     cart.Service
	wishlistSvc wishlist.Service
}

func NewReconciler(store Store, cartSvc cart.Service, wishlistSvc wishlist.Service) *Reconciler {
	return &Reconciler{
		store:       store,
		cartSvc:     cartSvc,
		wishlistSvc: wishlistSvc,
	}
}

// Merge runs at most once per login transition; the caller triggers it once,
// not on every request.
func (r *Reconciler) Merge(ctx context.Context, guestID string, userID uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "GuestMerge"),
		zap.String("guest_id", guestID),
		zap.Uint("user_id", userID),
	)

	cartEntries, err := r.store.CartEntries(ctx, guestID)
	if err != nil {
		return fmt.Errorf("load guest cart: %w", err)
	}

	wishlistEntries, err := r.store.WishlistEntries(ctx, guestID)
	if err != nil {
		return fmt.Errorf("load guest wishlist: %w", err)
	}

	if len(cartEntries) == 0 && len(wishlistEntries) == 0 {
		return nil
	}

	log.Info("guest merge started",
		zap.Int("cart_entries", len(cartEntries)),
		zap.Int("wishlist_entries", len(wishlistEntries)),
	)

	for _, entry := range cartEntries {
		done, err := r.store.IsMerged(ctx, guestID, kindCart, entry.ProductID)
		if err != nil {
			return fmt.Errorf("check merge marker: %w", err)
		}
		if done {
			continue
		}

		_, err = r.cartSvc.AddItem(ctx, userID, entry.ProductID, entry.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, cart.ErrInsufficientStock),
			errors.Is(err, cart.ErrProductNotFound):
			// The entry cannot ever be applied; dropping it beats wedging
			// the whole merge.
			log.Warn("guest cart entry skipped",
				zap.String("product_id", entry.ProductID.String()),
				zap.Int("quantity", entry.Quantity),
				zap.Error(err),
			)
		default:
			return fmt.Errorf("merge cart entry %s: %w", entry.ProductID, err)
		}

		if err := r.store.MarkMerged(ctx, guestID, kindCart, entry.ProductID); err != nil {
			return fmt.Errorf("mark cart entry merged: %w", err)
		}
	}

	for _, productID := range wishlistEntries {
		done, err := r.store.IsMerged(ctx, guestID, kindWishlist, productID)
		if err != nil {
			return fmt.Errorf("check merge marker: %w", err)
		}
		if done {
			continue
		}

		_, err = r.wishlistSvc.Add(ctx, userID, productID)
		switch {
		case err == nil:
		case errors.Is(err, wishlist.ErrDuplicateEntry):
			// Already present server-side; membership is boolean.
		case errors.Is(err, wishlist.ErrProductNotFound):
			log.Warn("guest wishlist entry skipped",
				zap.String("product_id", productID.String()),
			)
		default:
			return fmt.Errorf("merge wishlist entry %s: %w", productID, err)
		}

		if err := r.store.MarkMerged(ctx, guestID, kindWishlist, productID); err != nil {
			return fmt.Errorf("mark wishlist entry merged: %w", err)
		}
	}

	if err := r.store.Clear(ctx, guestID); err != nil {
		return fmt.Errorf("clear guest state: %w", err)
	}

	log.Info("guest merge completed")
	return nil
}
