// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/boba-pos-backend/internal/domain/customer"
	"github.com/your-org/boba-pos-backend/internal/domain/employee"
	"github.com/your-org/boba-pos-backend/internal/domain/inventory"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&menu.Item{},
		&customer.Customer{},
		&employee.Employee{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderItemOption{},
		&order.OrderStatusHistory{},

		&inventory.InventoryItem{},
		&inventory.InventoryMovement{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for reporting queries
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_created ON orders(payment_method, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_employee_created ON orders(employee_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_menu_item ON order_items(menu_item_id)",
		"CREATE INDEX IF NOT EXISTS idx_menu_items_type_active ON menu_items(item_type, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_items_low_stock ON inventory_items(quantity, reorder_level)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_item_created ON inventory_movements(inventory_item_id, created_at DESC)",
	}

	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("Failed to create index")
			failCount++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failCount,
		"failed":  failCount,
	}).Info("Database indexes ensured")
	return nil
}

// SeedInitialData inserts development data
func (m *Migration) SeedInitialData() error {
	if err := m.seedMenu(); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	if err := m.seedManager(); err != nil {
		return fmt.Errorf("failed to seed manager: %w", err)
	}
	if err := m.seedInventory(); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	m.logger.Info("Initial data seeded")
	return nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedMenu lists the development menu, customization rows included
func SeedMenu() []menu.Item {
	return []menu.Item{
		{Name: "Classic Milk Tea", Category: "Milk Tea", ItemType: menu.ItemTypeDrink, Price: price("4.50")},
		{Name: "Taro Milk Tea", Category: "Milk Tea", ItemType: menu.ItemTypeDrink, Price: price("5.00")},
		{Name: "Brown Sugar Milk", Category: "Milk Tea", ItemType: menu.ItemTypeDrink, Price: price("5.50")},
		{Name: "Mango Green Tea", Category: "Fruit Tea", ItemType: menu.ItemTypeDrink, Price: price("4.75")},
		{Name: "Passion Fruit Tea", Category: "Fruit Tea", ItemType: menu.ItemTypeDrink, Price: price("4.75")},
		{Name: "Matcha Latte", Category: "Specialty", ItemType: menu.ItemTypeDrink, Price: price("5.25")},
		{Name: "Popcorn Chicken", Category: "Snacks", ItemType: menu.ItemTypeSnack, Price: price("4.00")},
		{Name: "Egg Puffs", Category: "Snacks", ItemType: menu.ItemTypeSnack, Price: price("3.50")},

		{Name: "Large", ItemType: menu.ItemTypeCustomization, OptionGroup: menu.GroupSize, Price: price("0.50")},
		{Name: "Extra Large", ItemType: menu.ItemTypeCustomization, OptionGroup: menu.GroupSize, Price: price("1.00")},
		{Name: "Less Ice", ItemType: menu.ItemTypeCustomization, OptionGroup: menu.GroupIce, Price: decimal.Zero},
		{Name: "No Ice", ItemType: menu.ItemTypeCustomization, OptionGroup: menu.GroupIce, Price: decimal.Zero},
		{Name: "Half Sweet", ItemType: menu.ItemTypeCustomization, OptionGroup: menu.GroupSweetness, Price: decimal.Zero},
		{Name: "No Sugar", ItemType: menu.ItemTypeCustomization, OptionGroup: menu.GroupSweetness, Price: decimal.Zero},

		{Name: "Boba", ItemType: menu.ItemTypeAddOn, OptionGroup: menu.GroupAddOn, Price: price("0.50")},
		{Name: "Lychee Jelly", ItemType: menu.ItemTypeAddOn, OptionGroup: menu.GroupAddOn, Price: price("0.50")},
		{Name: "Pudding", ItemType: menu.ItemTypeAddOn, OptionGroup: menu.GroupAddOn, Price: price("0.75")},
		{Name: "Cheese Foam", ItemType: menu.ItemTypeAddOn, OptionGroup: menu.GroupAddOn, Price: price("1.00")},
	}
}

func (m *Migration) seedMenu() error {
	var count int64
	if err := m.db.Model(&menu.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		m.logger.WithField("rows", count).Debug("Menu already seeded")
		return nil
	}

	items := SeedMenu()
	if err := m.db.Create(&items).Error; err != nil {
		return err
	}
	m.logger.WithField("rows", len(items)).Info("Seeded menu")
	return nil
}

func (m *Migration) seedManager() error {
	const email = "manager@boba.local"

	var existing employee.Employee
	err := m.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Manager2026"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	manager := employee.Employee{
		Name:     "Store Manager",
		Email:    email,
		Password: string(hashed),
		Role:     employee.RoleManager,
		IsActive: true,
	}
	if err := m.db.Create(&manager).Error; err != nil {
		return err
	}

	m.logger.WithField("email", email).Info("Created manager account (password: Manager2026)")
	return nil
}

func (m *Migration) seedInventory() error {
	var count int64
	if err := m.db.Model(&inventory.InventoryItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []inventory.InventoryItem{
		{Name: "Black Tea Leaves", Unit: "kg", Quantity: price("12"), ReorderLevel: price("3"), CostPrice: price("18.00"), Supplier: "Leaf & Co"},
		{Name: "Green Tea Leaves", Unit: "kg", Quantity: price("8"), ReorderLevel: price("2"), CostPrice: price("20.00"), Supplier: "Leaf & Co"},
		{Name: "Tapioca Pearls", Unit: "kg", Quantity: price("25"), ReorderLevel: price("5"), CostPrice: price("4.50"), Supplier: "Pearl Supply"},
		{Name: "Whole Milk", Unit: "L", Quantity: price("40"), ReorderLevel: price("10"), CostPrice: price("1.20"), Supplier: "Valley Dairy"},
		{Name: "Brown Sugar Syrup", Unit: "L", Quantity: price("6"), ReorderLevel: price("2"), CostPrice: price("6.00"), Supplier: "Pearl Supply"},
		{Name: "Cups 700ml", Unit: "pcs", Quantity: price("1500"), ReorderLevel: price("300"), CostPrice: price("0.08"), Supplier: "PackRight"},
		{Name: "Wide Straws", Unit: "pcs", Quantity: price("2000"), ReorderLevel: price("400"), CostPrice: price("0.02"), Supplier: "PackRight"},
	}
	if err := m.db.Create(&items).Error; err != nil {
		return err
	}
	m.logger.WithField("rows", len(items)).Info("Seeded inventory")
	return nil
}

// DropAllTables drops every table in reverse dependency order
func (m *Migration) DropAllTables() error {
	m.logger.Warn("Dropping all database tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	return nil
}

// GetTableInfo logs row counts for every table
func (m *Migration) GetTableInfo() error {
	tables, err := m.db.Migrator().GetTables()
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	sort.Strings(tables)

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			m.logger.WithError(err).WithField("table", table).Warn("Failed to count table rows")
			continue
		}
		m.logger.WithFields(logrus.Fields{"table": table, "rows": count}).Debug("Table info")
	}
	return nil
}
