// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/boba-pos-backend/internal/domain/menu"
)

// SessionStore keeps session carts as JSON
type SessionStore interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service handles session cart persistence
type Service struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates a new cart service
func NewService(store SessionStore, ttl time.Duration) *Service {
	return &Service{
		store: store,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SessionCart is the stored form of a session's ledger
type SessionCart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// CartResponse represents a cart with its totals
type CartResponse struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddItemRequest represents an add to cart request
type AddItemRequest struct {
	MenuItemID uint       `json:"menu_item_id" binding:"required"`
	Selections Selections `json:"selections"`
	Quantity   int        `json:"quantity"`
}

// UpdateItemRequest re-customizes an existing line. A zero quantity keeps the current one.
type UpdateItemRequest struct {
	Selections Selections `json:"selections"`
	Quantity   int        `json:"quantity" binding:"min=0"`
}

// GetCart retrieves the cart of a session
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	sc, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sc, NewLedger(sc.Items...)), nil
}

// AddItem builds a line item from the catalog and adds it to the session cart
func (s *Service) AddItem(ctx context.Context, sessionID string, catalog *menu.Catalog, req *AddItemRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item, err := NewBuilder(catalog).BuildByID(req.MenuItemID, req.Selections, quantity)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(l *Ledger) error {
		_, err := l.Add(item)
		return err
	})
}

// UpdateItem re-applies the customization dialog to the line at index
func (s *Service) UpdateItem(ctx context.Context, sessionID string, catalog *menu.Catalog, index int, req *UpdateItemRequest) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) error {
		existing, err := l.At(index)
		if err != nil {
			return err
		}

		rebuilt, err := NewBuilder(catalog).Rebuild(existing, req.Selections, req.Quantity)
		if err != nil {
			return err
		}
		return l.ReplaceAt(index, rebuilt)
	})
}

// IncrementItem adds one to the line at index
func (s *Service) IncrementItem(ctx context.Context, sessionID string, index int) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) error {
		return l.IncrementAt(index)
	})
}

// DecrementItem removes one from the line at index, deleting it at quantity 1
func (s *Service) DecrementItem(ctx context.Context, sessionID string, index int) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) error {
		_, err := l.DecrementAt(index)
		return err
	})
}

// RemoveItem deletes the line at index
func (s *Service) RemoveItem(ctx context.Context, sessionID string, index int) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) error {
		return l.RemoveAt(index)
	})
}

// ClearCart discards the session cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID required for cart")
	}
	if err := s.store.Del(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the session's line items for submission
func (s *Service) Snapshot(ctx context.Context, sessionID string) ([]LineItem, error) {
	sc, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewLedger(sc.Items...).Items(), nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(l *Ledger) error) (*CartResponse, error) {
	sc, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger(sc.Items...)
	if err := fn(ledger); err != nil {
		return nil, err
	}

	sc.Items = ledger.Items()
	if err := s.save(ctx, sc); err != nil {
		return nil, err
	}

	return s.respond(sc, ledger), nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	var sc SessionCart
	found, err := s.store.GetJSON(ctx, cartKey(sessionID), &sc)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !found {
		now := s.now()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []LineItem{},
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}, nil
	}
	if sc.Items == nil {
		sc.Items = []LineItem{}
	}
	return &sc, nil
}

func (s *Service) save(ctx context.Context, sc *SessionCart) error {
	now := s.now()
	sc.UpdatedAt = now
	sc.ExpiresAt = now.Add(s.ttl)

	if err := s.store.SetJSON(ctx, cartKey(sc.SessionID), sc, s.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Service) respond(sc *SessionCart, ledger *Ledger) *CartResponse {
	return &CartResponse{
		SessionID: sc.SessionID,
		Items:     ledger.Items(),
		Totals:    ledger.Totals(),
		CreatedAt: sc.CreatedAt,
		UpdatedAt: sc.UpdatedAt,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}
