package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boba-pos-backend/internal/infrastructure/database/dbtest"
	"github.com/your-org/boba-pos-backend/internal/infrastructure/database/redis"
	"github.com/your-org/boba-pos-backend/internal/pkg/logger"
)

type fakeStore struct {
	items   []MenuItem
	options map[Group][]CustomizationOption
	calls   int
	err     error
}

func (f *fakeStore) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeStore) ListCustomizationOptions(ctx context.Context) (map[Group][]CustomizationOption, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.options, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items: []MenuItem{
			{ID: 2, Name: "Taro Milk Tea", BasePrice: decimal.RequireFromString("4.50"), Category: "Milk Tea"},
			{ID: 1, Name: "Classic Milk Tea", BasePrice: decimal.RequireFromString("4.00"), Category: "Milk Tea"},
		},
		options: map[Group][]CustomizationOption{
			GroupSize:  {{ID: 11, Name: "Large", PriceDelta: decimal.RequireFromString("0.50"), Group: GroupSize}},
			GroupAddOn: {{ID: 21, Name: "Boba", PriceDelta: decimal.RequireFromString("0.75"), Group: GroupAddOn}},
		},
	}
}

func newTestCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redis.NewClient(rdb), mr
}

func TestItem_ToOption(t *testing.T) {
	tests := []struct {
		name      string
		item      Item
		wantOK    bool
		wantGroup Group
	}{
		{"add-on", Item{ID: 1, ItemType: ItemTypeAddOn}, true, GroupAddOn},
		{"size customization", Item{ID: 2, ItemType: ItemTypeCustomization, OptionGroup: GroupSize}, true, GroupSize},
		{"customization without group", Item{ID: 3, ItemType: ItemTypeCustomization}, false, ""},
		{"customization claiming addon", Item{ID: 4, ItemType: ItemTypeCustomization, OptionGroup: GroupAddOn}, false, ""},
		{"drink", Item{ID: 5, ItemType: ItemTypeDrink}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, ok := tt.item.ToOption()
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantGroup, opt.Group)
			}
		})
	}
}

func TestCatalog_Lookups(t *testing.T) {
	store := newFakeStore()
	catalog := NewCatalog(store.items, store.options)

	assert.Equal(t, "Classic Milk Tea", catalog.Items[0].Name, "items sorted by name")

	_, ok := catalog.MenuItem(2)
	assert.True(t, ok)
	_, ok = catalog.MenuItem(99)
	assert.False(t, ok)

	regular, ok := catalog.Option(GroupIce, RegularOptionID)
	require.True(t, ok)
	assert.True(t, regular.IsRegular())
	assert.True(t, regular.PriceDelta.IsZero())

	_, ok = catalog.Option(GroupAddOn, RegularOptionID)
	assert.False(t, ok, "add-on group has no regular sentinel")

	_, ok = catalog.Option(GroupIce, 11)
	assert.False(t, ok, "size option must not resolve in the ice group")

	large, ok := catalog.Option(GroupSize, 11)
	require.True(t, ok)
	assert.Equal(t, "Large", large.Name)
}

func TestService_SessionCatalogLoadsOncePerSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache, mr := newTestCache(t)
	svc := NewService(store, nil, cache, time.Hour, logger.Discard())

	first, err := svc.SessionCatalog(ctx, "session-a")
	require.NoError(t, err)
	second, err := svc.SessionCatalog(ctx, "session-a")
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls, "one store load for the session")
	assert.Len(t, second.Items, len(first.Items))
	assert.True(t, second.Options[GroupAddOn][0].PriceDelta.Equal(decimal.RequireFromString("0.75")),
		"add-on price survives caching, got %s", second.Options[GroupAddOn][0].PriceDelta)
	assert.Equal(t, time.Hour, mr.TTL("catalog:session:session-a"))

	_, err = svc.SessionCatalog(ctx, "session-b")
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "a new session loads again")
}

func TestService_SessionCatalogStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	cache, _ := newTestCache(t)
	svc := NewService(store, nil, cache, time.Hour, logger.Discard())

	_, err := svc.SessionCatalog(context.Background(), "s")
	assert.Error(t, err)
}

func TestService_SessionCatalogCacheDown(t *testing.T) {
	store := newFakeStore()
	cache, mr := newTestCache(t)
	svc := NewService(store, nil, cache, time.Hour, logger.Discard())
	mr.Close()

	catalog, err := svc.SessionCatalog(context.Background(), "s")
	require.NoError(t, err, "a cache outage falls through to the store")
	assert.Len(t, catalog.Items, 2)
}

func TestApplyRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     UpsertItemRequest
		wantErr bool
	}{
		{"drink", UpsertItemRequest{Name: "Matcha Latte", ItemType: ItemTypeDrink, Price: decimal.RequireFromString("5.25")}, false},
		{"blank name", UpsertItemRequest{Name: "  ", ItemType: ItemTypeDrink}, true},
		{"unknown type", UpsertItemRequest{Name: "X", ItemType: "combo"}, true},
		{"negative add-on", UpsertItemRequest{Name: "Jelly", ItemType: ItemTypeAddOn, Price: decimal.RequireFromString("-1")}, true},
		{"customization needs group", UpsertItemRequest{Name: "Less Ice", ItemType: ItemTypeCustomization}, true},
		{"customization with group", UpsertItemRequest{Name: "Less Ice", ItemType: ItemTypeCustomization, OptionGroup: GroupIce}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{}
			err := applyRequest(item, &tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMenuRow)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func seedMenu(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	rows := []*Item{
		{Name: "Taro Milk Tea", Category: "Milk Tea", ItemType: ItemTypeDrink, Price: decimal.RequireFromString("4.50"), IsActive: true},
		{Name: "Classic Milk Tea", Category: "Milk Tea", ItemType: ItemTypeDrink, Price: decimal.RequireFromString("4.00"), IsActive: true},
		{Name: "Boba", ItemType: ItemTypeAddOn, Price: decimal.RequireFromString("0.75"), IsActive: true},
		{Name: "Large", ItemType: ItemTypeCustomization, OptionGroup: GroupSize, Price: decimal.RequireFromString("0.50"), IsActive: true},
		{Name: "Orphan", ItemType: ItemTypeCustomization, Price: decimal.Zero, IsActive: true},
	}
	for _, row := range rows {
		require.NoError(t, repo.Create(ctx, row))
	}
}

func TestRepository_CatalogQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t, &Item{}))
	seedMenu(t, repo)

	items, err := repo.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "option rows are not purchasable")
	assert.Equal(t, "Classic Milk Tea", items[0].Name)
	assert.Equal(t, "4.00", items[0].BasePrice.StringFixed(2))

	options, err := repo.ListCustomizationOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options[GroupAddOn], 1)
	assert.Equal(t, "Boba", options[GroupAddOn][0].Name)
	assert.Equal(t, "0.75", options[GroupAddOn][0].PriceDelta.StringFixed(2))
	require.Len(t, options[GroupSize], 1)
	assert.Empty(t, options[""], "a customization row without a group is skipped")
}

func TestRepository_InactiveAndDeletedRowsLeaveCatalog(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t, &Item{})
	repo := NewRepository(db)
	seedMenu(t, repo)

	// the column default turns a zero-value false into true on insert
	require.NoError(t, db.Model(&Item{}).Where("name = ?", "Taro Milk Tea").Update("is_active", false).Error)

	items, err := repo.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Classic Milk Tea", items[0].Name)

	require.NoError(t, repo.Delete(ctx, items[0].ID))
	items, err = repo.ListMenuItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	all, err := repo.ListAll(ctx, ItemTypeDrink)
	require.NoError(t, err)
	assert.Len(t, all, 1, "the manager screen still lists inactive rows")

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), ErrItemNotFound)
}


func TestService_ManageItems(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t, &Item{}))
	cache, _ := newTestCache(t)
	svc := NewService(repo, repo, cache, time.Hour, logger.Discard())

	created, err := svc.CreateItem(ctx, &UpsertItemRequest{
		Name:     " Brown Sugar Milk ",
		Category: "Milk Tea",
		ItemType: ItemTypeDrink,
		Price:    decimal.RequireFromString("5.499"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Brown Sugar Milk", created.Name)
	assert.Equal(t, "5.50", created.Price.StringFixed(2))

	inactive := false
	updated, err := svc.UpdateItem(ctx, created.ID, &UpsertItemRequest{
		Name:     "Brown Sugar Milk",
		ItemType: ItemTypeDrink,
		Price:    decimal.RequireFromString("5.75"),
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "5.75", stored.Price.StringFixed(2))
	assert.False(t, stored.IsActive)

	catalog, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, catalog.Items, "inactive drinks are not offered")

	_, err = svc.UpdateItem(ctx, 999, &UpsertItemRequest{Name: "X", ItemType: ItemTypeDrink})
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, svc.DeleteItem(ctx, created.ID))
	rows, err := svc.ListItems(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
