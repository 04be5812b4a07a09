package checkout

import (
	"context"
	"time"

	"analog-alley-be/internal/address"
	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/order"
	"analog-alley-be/internal/pricing"
	"analog-alley-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service drives a checkout session through address selection, payment
// selection, and submission. Every read and mutation recomputes the
// quote from the live cart.
type Service interface {
	Start(ctx context.Context, userID uint) (*Session, error)
	Get(ctx context.Context, userID uint) (*Session, error)

	SelectAddress(ctx context.Context, userID uint, addressID uuid.UUID) (*Session, error)
	// ChangeAddress steps back from payment selection to address
	// selection without abandoning the session.
	ChangeAddress(ctx context.Context, userID uint) (*Session, error)
	SelectPayment(ctx context.Context, userID uint, method string) (*Session, error)

	// Submit re-validates stock, creates the order inside a bounded
	// timeout, and confirms the session. On failure the session falls
	// back to payment selection so the customer can retry.
	Submit(ctx context.Context, userID uint) (*Session, error)
}

type service struct {
	store      SessionStore
	cartSvc    cart.Service
	addressSvc address.Service
	orderSvc   order.Service
	engine     *pricing.Engine

	submitTimeout time.Duration
}

func NewService(
	store SessionStore,
	cartSvc cart.Service,
	addressSvc address.Service,
	orderSvc order.Service,
	engine *pricing.Engine,
	submitTimeout time.Duration,
) Service {
	return &service{
		store:         store,
		cartSvc:       cartSvc,
		addressSvc:    addressSvc,
		orderSvc:      orderSvc,
		engine:        engine,
		submitTimeout: submitTimeout,
	}
}

func (s *service) Start(
	ctx context.Context,
	userID uint,
) (*Session, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Checkout"),
		zap.String("method", "Start"),
		zap.Uint("user_id", userID),
	)

	items, err := s.cartSvc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, order.ErrEmptyCart
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		State:     StateSelectingAddress,
		Quote:     s.quoteLines(items),
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	// Preselect the default address so returning customers skip a step.
	if addrs, err := s.addressSvc.List(ctx, userID); err == nil {
		for _, a := range addrs {
			if a.IsDefault {
				id := a.ID
				sess.AddressID = &id
				sess.State = StateSelectingPayment
				break
			}
		}
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	log.Info("checkout session started",
		zap.String("session_id", sess.ID.String()),
		zap.String("state", string(sess.State)),
	)

	return sess, nil
}

func (s *service) Get(
	ctx context.Context,
	userID uint,
) (*Session, error) {

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Refresh the quote; the cart may have changed since the last step.
	if sess.State != StateConfirmed {
		items, err := s.cartSvc.GetCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		sess.Quote = s.quoteLines(items)
	}

	return sess, nil
}

func (s *service) SelectAddress(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) (*Session, error) {

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Choosing an address is legal both on the address step and while
	// on the payment step; it never advances past payment selection.
	if sess.State != StateSelectingAddress && sess.State != StateSelectingPayment {
		return nil, ErrInvalidTransition
	}

	addr, err := s.addressSvc.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	id := addr.ID
	sess.AddressID = &id

	if sess.State == StateSelectingAddress {
		if err := sess.Transition(StateSelectingPayment); err != nil {
			return nil, err
		}
	}

	if err := s.refreshQuote(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *service) ChangeAddress(
	ctx context.Context,
	userID uint,
) (*Session, error) {

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := sess.Transition(StateSelectingAddress); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *service) SelectPayment(
	ctx context.Context,
	userID uint,
	method string,
) (*Session, error) {

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sess.State != StateSelectingPayment {
		return nil, ErrInvalidTransition
	}
	if !ValidPaymentMethod(method) {
		return nil, ErrUnknownPaymentMethod
	}

	sess.PaymentMethod = method

	if err := s.refreshQuote(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *service) Submit(
	ctx context.Context,
	userID uint,
) (*Session, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Checkout"),
		zap.String("method", "Submit"),
		zap.Uint("user_id", userID),
	)

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch sess.State {
	case StateConfirmed:
		return nil, ErrAlreadyConfirmed
	case StateSubmitting:
		return nil, ErrSubmitInProgress
	}

	if sess.AddressID == nil {
		return nil, ErrAddressRequired
	}
	if sess.PaymentMethod == "" {
		return nil, ErrPaymentRequired
	}

	// Validate every line against current stock before committing to
	// the submitting state.
	items, err := s.cartSvc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, order.ErrEmptyCart
	}
	for _, item := range items {
		if !product.CanFulfill(item.Product, item.Quantity) {
			return nil, cart.ErrInsufficientStock
		}
	}
	sess.Quote = s.quoteLines(items)

	if err := sess.Transition(StateSubmitting); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	// Order creation gets a bounded deadline so a stuck database never
	// pins the session in submitting forever.
	submitCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	o, err := s.orderSvc.Create(submitCtx, userID, order.CreateOrderInput{
		AddressID:     *sess.AddressID,
		PaymentMethod: sess.PaymentMethod,
	})
	if err != nil {
		log.Warn("order creation failed, returning session to payment step",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err),
		)

		sess.State = StateSelectingPayment
		if saveErr := s.store.Save(ctx, sess); saveErr != nil {
			log.Error("failed to save session after submit failure",
				zap.Error(saveErr),
			)
		}
		return nil, err
	}

	sess.State = StateConfirmed
	orderID := o.ID
	sess.OrderID = &orderID
	sess.OrderNumber = o.OrderNumber
	sess.Quote = pricing.Quote{
		Subtotal:     o.Subtotal,
		ShippingCost: o.ShippingCost,
		Tax:          o.Tax,
		Discount:     o.Discount,
		Total:        o.Total,
	}

	if err := s.store.Save(ctx, sess); err != nil {
		// The order exists; losing the session only loses the pretty
		// confirmation screen.
		log.Warn("failed to save confirmed session",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}

	log.Info("checkout confirmed",
		zap.String("session_id", sess.ID.String()),
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
	)

	return sess, nil
}

func (s *service) load(ctx context.Context, userID uint) (*Session, error) {
	sess, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	// Redis TTL usually beats us to it, but the wall clock is the
	// authority.
	if time.Now().After(sess.ExpiresAt) {
		if err := s.store.Delete(ctx, userID); err != nil {
			logger.FromCtx(ctx).Warn("failed to delete expired session",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
		return nil, ErrSessionExpired
	}

	return sess, nil
}

func (s *service) refreshQuote(ctx context.Context, sess *Session) error {
	items, err := s.cartSvc.GetCart(ctx, sess.UserID)
	if err != nil {
		return err
	}
	sess.Quote = s.quoteLines(items)
	return nil
}

func (s *service) quoteLines(items []*cart.CartItem) pricing.Quote {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lines = append(lines, pricing.Line{
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return s.engine.Quote(lines)
}
