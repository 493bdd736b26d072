// internal/domain/menu/service.go
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrItemNotFound   = errors.New("menu item not found")
	ErrInvalidMenuRow = errors.New("invalid menu item")
)

// Store is the menu/customization store the catalog is loaded from
type Store interface {
	ListMenuItems(ctx context.Context) ([]MenuItem, error)
	ListCustomizationOptions(ctx context.Context) (map[Group][]CustomizationOption, error)
}

// SessionCache keeps per-session JSON snapshots
type SessionCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Service handles catalog loading and menu management
type Service struct {
	store      Store
	repo       *Repository
	cache      SessionCache
	sessionTTL time.Duration
	logger     *logrus.Logger
}

// NewService creates a new menu service. repo may be nil when only catalog loading is needed.
func NewService(store Store, repo *Repository, cache SessionCache, sessionTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		store:      store,
		repo:       repo,
		cache:      cache,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// UpsertItemRequest represents menu item create/update data
type UpsertItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category"`
	ItemType    ItemType        `json:"item_type" binding:"required"`
	OptionGroup Group           `json:"option_group"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active"`
}

// LoadCatalog fetches the catalog from the store
func (s *Service) LoadCatalog(ctx context.Context) (*Catalog, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	options, err := s.store.ListCustomizationOptions(ctx)
	if err != nil {
		return nil, err
	}

	return NewCatalog(items, options), nil
}

// SessionCatalog returns the catalog of an ordering session, loading it on first use
func (s *Service) SessionCatalog(ctx context.Context, sessionID string) (*Catalog, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for catalog")
	}

	key := catalogKey(sessionID)

	var cached Catalog
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		// Fall through to the store; a cache outage must not block ordering
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("catalog cache read failed")
	} else if found {
		return &cached, nil
	}

	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, catalog, s.sessionTTL); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("catalog cache write failed")
	}

	return catalog, nil
}

// ListItems lists menu rows for the manager screen
func (s *Service) ListItems(ctx context.Context, itemType ItemType) ([]Item, error) {
	return s.repo.ListAll(ctx, itemType)
}

// GetItem returns a menu row
func (s *Service) GetItem(ctx context.Context, id uint) (*Item, error) {
	return s.repo.Get(ctx, id)
}

// CreateItem creates a menu row
func (s *Service) CreateItem(ctx context.Context, req *UpsertItemRequest) (*Item, error) {
	item := &Item{IsActive: true}
	if err := applyRequest(item, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem updates a menu row
func (s *Service) UpdateItem(ctx context.Context, id uint, req *UpsertItemRequest) (*Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyRequest(item, req); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a menu row
func (s *Service) DeleteItem(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func applyRequest(item *Item, req *UpsertItemRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMenuRow)
	}
	if !ValidItemType(req.ItemType) {
		return fmt.Errorf("%w: unknown item type %q", ErrInvalidMenuRow, req.ItemType)
	}
	if req.Price.IsNegative() && req.ItemType != ItemTypeCustomization {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidMenuRow)
	}

	group := Group("")
	if req.ItemType == ItemTypeCustomization {
		if !ValidGroup(req.OptionGroup) || req.OptionGroup == GroupAddOn {
			return fmt.Errorf("%w: customization rows need a size, ice or sweetness group", ErrInvalidMenuRow)
		}
		group = req.OptionGroup
	}

	item.Name = name
	item.Category = strings.TrimSpace(req.Category)
	item.ItemType = req.ItemType
	item.OptionGroup = group
	item.Price = req.Price.Round(2)
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	return nil
}

func catalogKey(sessionID string) string {
	return fmt.Sprintf("catalog:session:%s", sessionID)
}
