// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"github.com/your-org/boba-pos-backend/internal/pkg/money"
)

// OrderStore persists settled orders
type OrderStore interface {
	CreateOrder(ctx context.Context, o *order.Order) error
}

// CustomerStore credits rewards points
type CustomerStore interface {
	IncrementRewards(ctx context.Context, customerID uint, points int64) (int64, error)
}

// Service is the settlement submitter
type Service struct {
	orders       OrderStore
	customers    CustomerStore
	guard        *guard
	storeTimeout time.Duration
	logger       *logrus.Logger
}

// NewService creates a new checkout service. idempotency may be nil, in which
// case submissions are never deduplicated.
func NewService(orders OrderStore, customers CustomerStore, idempotency IdempotencyStore, cfg config.POSConfig, logger *logrus.Logger) *Service {
	s := &Service{
		orders:       orders,
		customers:    customers,
		storeTimeout: cfg.StoreTimeout,
		logger:       logger,
	}
	if idempotency != nil {
		s.guard = &guard{store: idempotency, ttl: cfg.IdempotencyTTL}
	}
	return s
}

// SubmitRequest carries everything but the cart
type SubmitRequest struct {
	CustomerID     uint                `json:"customer_id"`
	EmployeeID     uint                `json:"-"`
	PaymentMethod  order.PaymentMethod `json:"payment_method" binding:"required"`
	Notes          string              `json:"notes"`
	IdempotencyKey string              `json:"-"`
	SessionID      string              `json:"-"`
}

// Receipt is the outcome of a settlement
type Receipt struct {
	OrderID           uint                `json:"order_id"`
	OrderNumber       string              `json:"order_number"`
	CreatedAt         time.Time           `json:"created_at"`
	CustomerID        uint                `json:"customer_id"`
	EmployeeID        uint                `json:"employee_id"`
	PaymentMethod     order.PaymentMethod `json:"payment_method"`
	Items             []cart.LineItem     `json:"items"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	Tax               decimal.Decimal     `json:"tax"`
	Total             decimal.Decimal     `json:"total"`
	PointsEarned      int64               `json:"points_earned,omitempty"`
	NewRewardsBalance *int64              `json:"new_rewards_balance,omitempty"`
	RewardsRecorded   bool                `json:"rewards_recorded"`
	Warning           string              `json:"warning,omitempty"`
	Replayed          bool                `json:"replayed,omitempty"`

	// RewardsErr is set when the order stands but accrual failed
	RewardsErr error `json:"-"`
}

// PartialSuccess reports whether the order was placed without its rewards
func (r *Receipt) PartialSuccess() bool {
	return r.RewardsErr != nil || r.Warning != ""
}

const rewardsWarning = "order placed, rewards not recorded"

// Submit settles a cart: it persists the order and then, for identified
// customers, credits rewards points. A rewards failure does not fail the
// submission; it is reported on the receipt.
func (s *Service) Submit(ctx context.Context, items []cart.LineItem, req SubmitRequest) (*Receipt, error) {
	key := idempotencyKey(req.SessionID, req.IdempotencyKey)
	if len(items) == 0 {
		// A retry after success finds the cart already cleared
		if prior := s.replay(ctx, key); prior != nil {
			return prior, nil
		}
		return nil, ErrEmptyCart
	}
	if !order.ValidPaymentMethod(req.PaymentMethod) {
		return nil, &cart.ValidationError{Field: "payment_method", Reason: "must be cash or credit_card"}
	}

	// The ledger copies the line items so later cart edits cannot reach the order
	snapshot := cart.NewLedger(items...)
	lines := snapshot.Items()
	subtotal := snapshot.Subtotal()
	tax := money.Tax(subtotal)
	total := money.Total(subtotal, tax)

	var pointsEarned int64
	if req.CustomerID != order.GuestCustomerID {
		pointsEarned = money.Points(total)
	}

	guarded := false
	if s.guard != nil && key != "" {
		prior, err := s.guard.reserve(ctx, key)
		switch {
		case errors.Is(err, ErrSubmissionInProgress):
			return nil, err
		case err != nil:
			s.logger.WithError(err).WithField("idempotency_key", key).
				Warn("idempotency store unavailable, submitting without duplicate guard")
		case prior != nil:
			prior.Replayed = true
			return prior, nil
		default:
			guarded = true
		}
	}

	o := &order.Order{
		CustomerID:    req.CustomerID,
		EmployeeID:    req.EmployeeID,
		Status:        order.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PointsEarned:  pointsEarned,
		Notes:         req.Notes,
		Items:         toOrderItems(lines),
	}

	if err := s.createOrder(ctx, o); err != nil {
		if guarded {
			if relErr := s.guard.release(context.WithoutCancel(ctx), key); relErr != nil {
				s.logger.WithError(relErr).WithField("idempotency_key", key).
					Error("failed to release idempotency key")
			}
		}
		return nil, &OrderStoreError{Err: err}
	}

	receipt := &Receipt{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CreatedAt:     o.CreatedAt,
		CustomerID:    o.CustomerID,
		EmployeeID:    o.EmployeeID,
		PaymentMethod: o.PaymentMethod,
		Items:         lines,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PointsEarned:  pointsEarned,
	}

	if pointsEarned > 0 {
		balance, err := s.accrue(ctx, req.CustomerID, pointsEarned)
		if err != nil {
			receipt.RewardsErr = &RewardAccrualError{CustomerID: req.CustomerID, Points: pointsEarned, Err: err}
			receipt.Warning = rewardsWarning
			s.logger.WithError(err).WithFields(logrus.Fields{
				"order_id":    o.ID,
				"customer_id": req.CustomerID,
				"points":      pointsEarned,
			}).Warn("rewards not recorded for placed order")
		} else {
			receipt.NewRewardsBalance = &balance
			receipt.RewardsRecorded = true
		}
	}

	if guarded {
		if err := s.guard.complete(context.WithoutCancel(ctx), key, receipt); err != nil {
			s.logger.WithError(err).WithField("order_id", o.ID).Warn("failed to record completed submission")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":    o.ID,
		"customer_id": o.CustomerID,
		"employee_id": o.EmployeeID,
		"total":       total.StringFixed(2),
	}).Info("order settled")

	return receipt, nil
}

func (s *Service) replay(ctx context.Context, key string) *Receipt {
	if s.guard == nil || key == "" {
		return nil
	}
	prior, err := s.guard.lookup(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("idempotency_key", key).Warn("idempotency lookup failed")
		return nil
	}
	if prior != nil {
		prior.Replayed = true
	}
	return prior
}

func (s *Service) createOrder(ctx context.Context, o *order.Order) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.orders.CreateOrder(ctx, o)
}

func (s *Service) accrue(ctx context.Context, customerID uint, points int64) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.customers.IncrementRewards(ctx, customerID, points)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func toOrderItems(lines []cart.LineItem) []order.OrderItem {
	items := make([]order.OrderItem, len(lines))
	for i, line := range lines {
		options := make([]order.OrderItemOption, len(line.Options))
		for j, opt := range line.Options {
			options[j] = order.OrderItemOption{
				OptionID:   opt.ID,
				Group:      string(opt.Group),
				Name:       opt.Name,
				PriceDelta: opt.PriceDelta,
			}
		}
		items[i] = order.OrderItem{
			MenuItemID:    line.MenuItemID,
			Name:          line.DisplayName,
			UnitBasePrice: line.UnitBasePrice,
			UnitPrice:     line.UnitPrice(),
			Quantity:      line.Quantity,
			LineTotal:     line.LineTotal,
			Options:       options,
		}
	}
	return items
}
