// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentMethod is how the buyer paid at the counter
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
)

// ValidPaymentMethod reports whether m is accepted
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCash || m == PaymentMethodCreditCard
}

// Guest and self-service sentinels
const (
	GuestCustomerID     uint = 0
	SelfServiceEmployee uint = 0
)

// Order represents a settled order
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;size:50" json:"order_number"`
	CustomerID    uint          `gorm:"not null;default:0;index" json:"customer_id"`
	EmployeeID    uint          `gorm:"not null;default:0;index" json:"employee_id"`
	Status        OrderStatus   `gorm:"not null;size:20;default:'pending';index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"not null;size:20" json:"payment_method"`

	Subtotal decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax"`
	Total    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`

	PointsEarned int64  `gorm:"not null;default:0" json:"points_earned"`
	Notes        string `gorm:"type:text" json:"notes"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a line item snapshot taken at settlement
type OrderItem struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	OrderID       uint              `gorm:"not null;index" json:"order_id"`
	MenuItemID    uint              `gorm:"not null;index" json:"menu_item_id"`
	Name          string            `gorm:"not null;size:120" json:"name"`
	UnitBasePrice decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"unit_base_price"`
	UnitPrice     decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	LineTotal     decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"line_total"`
	Options       []OrderItemOption `gorm:"foreignKey:OrderItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options"`
	CreatedAt     time.Time         `json:"created_at"`
}

// OrderItemOption is a customization chosen for an order item. OptionID 0 is
// the regular option of its group.
type OrderItemOption struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderItemID uint            `gorm:"not null;index" json:"order_item_id"`
	OptionID    uint            `gorm:"not null;default:0" json:"option_id"`
	Group       string          `gorm:"not null;size:20" json:"group"`
	Name        string          `gorm:"not null;size:120" json:"name"`
	PriceDelta  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_delta"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy uint        `gorm:"index" json:"created_by"` // employee id
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderItemOption) TableName() string    { return "order_item_options" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// IsGuest reports whether the order has no identified customer
func (o *Order) IsGuest() bool {
	return o.CustomerID == GuestCustomerID
}

// IsSelfService reports whether the order was placed at the kiosk
func (o *Order) IsSelfService() bool {
	return o.EmployeeID == SelfServiceEmployee
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending
}

// ItemCount is the number of drinks and snacks on the order
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// GenerateOrderNumber formats an order number from the creation date and id
func GenerateOrderNumber(createdAt time.Time, id uint) string {
	// Format: BOB-YYYYMMDD-XXXXX
	return fmt.Sprintf("BOB-%s-%05d", createdAt.Format("20060102"), id)
}

// IsValidStatusTransition checks whether a status change is allowed
func IsValidStatusTransition(from, to OrderStatus) bool {
	validTransitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending: {
			OrderStatusCompleted,
			OrderStatusCancelled,
		},
	}

	for _, status := range validTransitions[from] {
		if status == to {
			return true
		}
	}
	return false
}
