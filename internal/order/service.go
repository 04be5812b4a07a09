package order

import (
	"context"
	"encoding/json"
	"time"

	"analog-alley-be/internal/address"
	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/messaging"
	"analog-alley-be/internal/pricing"
	"analog-alley-be/internal/product"
	"analog-alley-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CurrencyIDR is the only currency the storefront sells in.
const CurrencyIDR = "IDR"

// Service defines the business logic for orders.
type Service interface {
	// Create turns the user's cart into an order. The cart is cleared
	// only after the order commits; a clear failure is logged, never
	// surfaced, since the order already exists.
	Create(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error)

	List(ctx context.Context, userID uint) ([]*Order, error)
	Get(ctx context.Context, userID uint, orderID uuid.UUID) (*Order, error)
	Cancel(ctx context.Context, userID uint, orderID uuid.UUID) error
}

type service struct {
	repo       Repository
	cartSvc    cart.Service
	addressSvc address.Service
	engine     *pricing.Engine
	publisher  messaging.Publisher
}

func NewService(
	repo Repository,
	cartSvc cart.Service,
	addressSvc address.Service,
	engine *pricing.Engine,
	publisher messaging.Publisher,
) Service {
	return &service{
		repo:       repo,
		cartSvc:    cartSvc,
		addressSvc: addressSvc,
		engine:     engine,
		publisher:  publisher,
	}
}

func (s *service) Create(
	ctx context.Context,
	userID uint,
	input CreateOrderInput,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Order"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
	)

	items, err := s.cartSvc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	addr, err := s.addressSvc.Get(ctx, userID, input.AddressID)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	orderItems := make([]OrderItem, 0, len(items))

	for _, item := range items {
		if !product.CanFulfill(item.Product, item.Quantity) {
			log.Warn("cart line cannot be fulfilled",
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
			)
			return nil, ErrInsufficientStock
		}

		lines = append(lines, pricing.Line{
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
		orderItems = append(orderItems, OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			TotalPrice:  item.Product.Price * int64(item.Quantity),
			ImageURL:    item.Product.ImageURL,
		})
	}

	quote := s.engine.Quote(lines)

	o := &Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderNumber:     utils.GenerateOrderNumber(),
		Status:          StatusProcessing,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		Tax:             quote.Tax,
		Discount:        quote.Discount,
		Total:           quote.Total,
		Currency:        CurrencyIDR,
		ShippingAddress: addr.Snapshot(),
		CreatedAt:       time.Now(),
		Items:           orderItems,
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		log.Error("order creation failed", zap.Error(err))
		return nil, err
	}

	if err := s.cartSvc.Clear(ctx, userID); err != nil {
		log.Warn("failed to clear cart after order",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}

	s.publishCreated(ctx, o)

	log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.Int64("total", o.Total),
	)

	return o, nil
}

func (s *service) publishCreated(ctx context.Context, o *Order) {
	payload, err := json.Marshal(OrderCreatedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Total:       o.Total,
		Currency:    o.Currency,
		CreatedAt:   o.CreatedAt,
	})
	if err != nil {
		return
	}

	if err := s.publisher.Publish(ctx, o.ID.String(), payload); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order created event",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) List(
	ctx context.Context,
	userID uint,
) ([]*Order, error) {

	return s.repo.GetByUser(ctx, userID)
}

func (s *service) Get(
	ctx context.Context,
	userID uint,
	orderID uuid.UUID,
) (*Order, error) {

	o, err := s.repo.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	return o, nil
}

func (s *service) Cancel(
	ctx context.Context,
	userID uint,
	orderID uuid.UUID,
) error {

	// Only orders still in processing can be cancelled by the customer.
	return s.repo.TransitionStatus(
		ctx, orderID, userID, StatusProcessing, StatusCancelled,
	)
}
