package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/repository"
)

var (
	ErrEmptyOrder          = errors.New("order has no items")
	ErrUnsupportedPayment  = errors.New("only cash on delivery is supported")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProductSetMismatch  = errors.New("one or more products do not exist")
	ErrItemNotInCart       = errors.New("product is not in the cart")
	ErrProductMissing      = errors.New("product does not exist")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrPriceMismatch       = errors.New("price does not match current price")
	ErrQuantityExceedsCart = errors.New("quantity exceeds cart quantity")
	ErrPriceCalcMismatch   = errors.New("price calculation mismatch")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrOrderNotPaid        = errors.New("order has not been paid")
	ErrOrderRefunded       = errors.New("order has already been refunded")
	ErrNotOrderOwner       = errors.New("not authorized to view this order")
)

const (
	taxRate          = 0.15
	freeShippingOver = 100.0
	flatShipping     = 10.0
	priceTolerance   = 0.01
)

type OrderItemInput struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderInput carries the client's proposal. Every monetary field here is
// untrusted: it is compared against server-side recomputation and then
// discarded, never stored.
type CreateOrderInput struct {
	Items           []OrderItemInput       `json:"order_items"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	ItemsPrice      float64                `json:"items_price"`
	TaxPrice        float64                `json:"tax_price"`
	ShippingPrice   float64                `json:"shipping_price"`
	TotalPrice      float64                `json:"total_price"`
}

type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, products repository.ProductRepository) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products}
}

// Create reconciles the proposed order against the caller's cart and the
// authoritative catalog, recomputes all monetary fields, and persists a
// pending order built only from server-side data. Validation is fail-fast:
// the first violated line rejects the whole order.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		observability.RecordOrderCreated("empty_order")
		return nil, ErrEmptyOrder
	}
	if in.PaymentMethod != domain.PaymentMethodCOD {
		observability.RecordOrderCreated("unsupported_payment")
		return nil, ErrUnsupportedPayment
	}

	cart, err := s.carts.FindByUser(userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			observability.RecordOrderCreated("empty_cart")
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		observability.RecordOrderCreated("empty_cart")
		return nil, ErrEmptyCart
	}

	cartByProduct := make(map[uint]*domain.CartItem, len(cart.Items))
	for i := range cart.Items {
		cartByProduct[cart.Items[i].ProductID] = &cart.Items[i]
	}

	ids := make([]uint, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	// Any unknown or deleted product fails the whole order, not just its line.
	if len(products) != len(ids) {
		observability.RecordOrderCreated("product_set_mismatch")
		return nil, ErrProductSetMismatch
	}
	catalog := make(map[uint]*domain.Product, len(products))
	for i := range products {
		catalog[products[i].ID] = &products[i]
	}

	validated := make([]domain.OrderItem, 0, len(in.Items))
	itemsTotal := 0.0
	for _, item := range in.Items {
		cartItem, inCart := cartByProduct[item.ProductID]
		if !inCart {
			observability.RecordOrderCreated("item_not_in_cart")
			return nil, fmt.Errorf("%w: %s", ErrItemNotInCart, item.Name)
		}
		product, known := catalog[item.ProductID]
		if !known {
			observability.RecordOrderCreated("product_missing")
			return nil, fmt.Errorf("%w: %s", ErrProductMissing, item.Name)
		}
		if !product.InStock {
			observability.RecordOrderCreated("out_of_stock")
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
		}
		if item.Price != product.Price {
			observability.RecordOrderCreated("price_mismatch")
			return nil, fmt.Errorf("%w: %s", ErrPriceMismatch, product.Name)
		}
		if item.Quantity > cartItem.Quantity {
			observability.RecordOrderCreated("quantity_exceeds_cart")
			return nil, fmt.Errorf("%w: %s", ErrQuantityExceedsCart, product.Name)
		}
		// Reconstruct the line from catalog truth; client name/image/price
		// never reach storage.
		validated = append(validated, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Image:     product.Image,
			Price:     product.Price,
		})
		itemsTotal += product.Price * float64(item.Quantity)
	}

	taxPrice := round2(itemsTotal * taxRate)
	shippingPrice := flatShipping
	if itemsTotal > freeShippingOver {
		shippingPrice = 0
	}
	totalPrice := round2(itemsTotal + taxPrice + shippingPrice)

	if math.Abs(itemsTotal-in.ItemsPrice) > priceTolerance ||
		math.Abs(taxPrice-in.TaxPrice) > priceTolerance ||
		math.Abs(shippingPrice-in.ShippingPrice) > priceTolerance ||
		math.Abs(totalPrice-in.TotalPrice) > priceTolerance {
		observability.RecordOrderCreated("price_calculation_mismatch")
		return nil, ErrPriceCalcMismatch
	}

	order := &domain.Order{
		UserID:          userID,
		OrderNumber:     generateOrderNumber(),
		Items:           validated,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      itemsTotal,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          domain.OrderStatusPending,
	}
	if err := s.orders.Create(order); err != nil {
		observability.RecordOrderCreated("error")
		return nil, err
	}
	// The cart is intentionally left untouched; a subsequent submission
	// revalidates against the same snapshot.
	observability.RecordOrderCreated("success")
	return order, nil
}

func (s *OrderService) GetForUser(ctx context.Context, orderID uint, caller *domain.User) (*domain.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	return s.orders.ListByUser(userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List()
}

// MarkPaid records a payment result. Paying implies the order moves to
// processing.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uint, result domain.PaymentResult) (*domain.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.Status = domain.OrderStatusProcessing
	order.PaymentResult = &result
	if err := s.orders.Save(order); err != nil {
		observability.RecordOrderTransition("pay", "error")
		return nil, err
	}
	observability.RecordOrderTransition("pay", "success")
	return order, nil
}

func (s *OrderService) MarkDelivered(ctx context.Context, orderID uint) (*domain.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.Status = domain.OrderStatusDelivered
	if err := s.orders.Save(order); err != nil {
		observability.RecordOrderTransition("deliver", "error")
		return nil, err
	}
	observability.RecordOrderTransition("deliver", "success")
	return order, nil
}

// UpdateStatus applies a raw status change with the coupled side effects:
// delivered sets the delivery flag, and moving an unpaid order to processing
// records payment receipt.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	order.Status = status
	now := time.Now()
	switch {
	case status == domain.OrderStatusDelivered:
		order.IsDelivered = true
		order.DeliveredAt = &now
	case status == domain.OrderStatusProcessing && !order.IsPaid:
		order.IsPaid = true
		order.PaidAt = &now
	}
	if err := s.orders.Save(order); err != nil {
		observability.RecordOrderTransition("status", "error")
		return nil, err
	}
	observability.RecordOrderTransition("status", "success")
	return order, nil
}

type RefundInput struct {
	Reason    string   `json:"reason"`
	Amount    *float64 `json:"amount"`
	RefundAll bool     `json:"refund_all"`
}

// Refund requires a paid, not-yet-refunded order; precondition failures are
// explicit errors, never silent no-ops.
func (s *OrderService) Refund(ctx context.Context, orderID uint, in RefundInput) (*domain.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid {
		observability.RecordOrderTransition("refund", "not_paid")
		return nil, ErrOrderNotPaid
	}
	if order.IsRefunded {
		observability.RecordOrderTransition("refund", "already_refunded")
		return nil, ErrOrderRefunded
	}
	amount := order.TotalPrice
	if !in.RefundAll && in.Amount != nil {
		amount = *in.Amount
	}
	reason := in.Reason
	if reason == "" {
		reason = "requested_by_customer"
	}
	now := time.Now()
	order.IsRefunded = true
	order.RefundedAt = &now
	order.Status = domain.OrderStatusRefunded
	order.RefundResult = &domain.RefundResult{
		RefID:  fmt.Sprintf("refund-%d", now.UnixMilli()),
		Status: "succeeded",
		Amount: amount,
		Reason: reason,
	}
	if err := s.orders.Save(order); err != nil {
		observability.RecordOrderTransition("refund", "error")
		return nil, err
	}
	observability.RecordOrderTransition("refund", "success")
	return order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateOrderNumber builds ORD-<6-digit time suffix>-<4-digit random>.
// Collisions are possible but vanishingly rare; the unique index on
// order_number surfaces one as a write failure rather than a retry loop.
func generateOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := ts
	if len(ts) > 6 {
		suffix = ts[len(ts)-6:]
	}
	return fmt.Sprintf("ORD-%s-%04d", suffix, rand.IntN(10000))
}
