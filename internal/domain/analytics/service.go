// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"gorm.io/gorm"
)

var ErrInvalidRange = errors.New("invalid date range")

const dateLayout = "2006-01-02"

// Service handles sales analytics and shift reports
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		now: time.Now,
	}
}

// SalesRequest represents sales analytics query parameters
type SalesRequest struct {
	From string `form:"from"` // YYYY-MM-DD, inclusive
	To   string `form:"to"`   // YYYY-MM-DD, inclusive
	Days int    `form:"days"` // used when From is empty
}

// SalesAnalytics represents sales over a date range
type SalesAnalytics struct {
	From            time.Time          `json:"from"`
	To              time.Time          `json:"to"`
	OrderCount      int64              `json:"order_count"`
	Revenue         decimal.Decimal    `json:"revenue"`
	Tax             decimal.Decimal    `json:"tax"`
	AverageTicket   decimal.Decimal    `json:"average_ticket"`
	PointsIssued    int64              `json:"points_issued"`
	DailyRevenue    []DailyRevenue     `json:"daily_revenue"`
	TopItems        []ItemSales        `json:"top_items"`
	ByPaymentMethod []PaymentBreakdown `json:"by_payment_method"`
}

// DailyRevenue is one point of the revenue series
type DailyRevenue struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// ItemSales summarises one menu item's sales
type ItemSales struct {
	MenuItemID uint            `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// PaymentBreakdown totals orders by payment method
type PaymentBreakdown struct {
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	OrderCount    int64               `json:"order_count"`
	Total         decimal.Decimal     `json:"total"`
}

// XReport is a mid-shift summary. Generating one never resets anything.
type XReport struct {
	ShiftStart      time.Time          `json:"shift_start"`
	GeneratedAt     time.Time          `json:"generated_at"`
	OrderCount      int64              `json:"order_count"`
	CompletedCount  int64              `json:"completed_count"`
	PendingCount    int64              `json:"pending_count"`
	CancelledCount  int64              `json:"cancelled_count"`
	ItemsSold       int64              `json:"items_sold"`
	GrossSales      decimal.Decimal    `json:"gross_sales"`
	Tax             decimal.Decimal    `json:"tax"`
	Total           decimal.Decimal    `json:"total"`
	AverageTicket   decimal.Decimal    `json:"average_ticket"`
	PointsIssued    int64              `json:"points_issued"`
	ByPaymentMethod []PaymentBreakdown `json:"by_payment_method"`
	ByEmployee      []EmployeeSales    `json:"by_employee"`
}

// EmployeeSales totals orders rung up by one employee; id 0 is the kiosk
type EmployeeSales struct {
	EmployeeID uint            `json:"employee_id"`
	OrderCount int64           `json:"order_count"`
	Total      decimal.Decimal `json:"total"`
}

type totalsRow struct {
	OrderCount   int64
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	PointsIssued int64
}

var countedStatuses = []order.OrderStatus{order.OrderStatusPending, order.OrderStatusCompleted}

// GetSalesAnalytics summarises non-cancelled orders in a date range
func (s *Service) GetSalesAnalytics(ctx context.Context, req *SalesRequest) (*SalesAnalytics, error) {
	from, to, err := ResolveRange(req, s.now())
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	inRange := func() *gorm.DB {
		return db.Model(&order.Order{}).
			Where("created_at >= ? AND created_at < ?", from, to).
			Where("status IN ?", countedStatuses)
	}

	var totals totalsRow
	err = inRange().
		Select("COUNT(*) AS order_count, COALESCE(SUM(subtotal), 0) AS subtotal, COALESCE(SUM(tax), 0) AS tax, COALESCE(SUM(total), 0) AS total, COALESCE(SUM(points_earned), 0) AS points_issued").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales totals: %w", err)
	}

	analytics := &SalesAnalytics{
		From:          from,
		To:            to.Add(-time.Nanosecond),
		OrderCount:    totals.OrderCount,
		Revenue:       totals.Total,
		Tax:           totals.Tax,
		AverageTicket: AverageTicket(totals.Total, totals.OrderCount),
		PointsIssued:  totals.PointsIssued,
	}

	day := dayExpr(db, "created_at")
	err = inRange().
		Select(day + " AS date, COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS order_count").
		Group(day).
		Order("date").
		Scan(&analytics.DailyRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily revenue: %w", err)
	}

	err = db.Table("order_items oi").
		Select("oi.menu_item_id, oi.name, COALESCE(SUM(oi.quantity), 0) AS quantity, COALESCE(SUM(oi.line_total), 0) AS revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Where("o.status IN ?", countedStatuses).
		Group("oi.menu_item_id, oi.name").
		Order("quantity DESC, revenue DESC").
		Limit(10).
		Scan(&analytics.TopItems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top items: %w", err)
	}

	analytics.ByPaymentMethod, err = s.byPaymentMethod(inRange())
	if err != nil {
		return nil, err
	}

	return analytics, nil
}

// GetXReport summarises the shift so far. since is YYYY-MM-DD or RFC3339;
// empty means the start of today.
func (s *Service) GetXReport(ctx context.Context, since string) (*XReport, error) {
	now := s.now()
	start, err := ShiftStart(since, now)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	shift := func() *gorm.DB {
		return db.Model(&order.Order{}).Where("created_at >= ? AND created_at <= ?", start, now)
	}
	counted := func() *gorm.DB {
		return shift().Where("status IN ?", countedStatuses)
	}

	var totals totalsRow
	err = counted().
		Select("COUNT(*) AS order_count, COALESCE(SUM(subtotal), 0) AS subtotal, COALESCE(SUM(tax), 0) AS tax, COALESCE(SUM(total), 0) AS total, COALESCE(SUM(points_earned), 0) AS points_issued").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get shift totals: %w", err)
	}

	report := &XReport{
		ShiftStart:    start,
		GeneratedAt:   now,
		OrderCount:    totals.OrderCount,
		GrossSales:    totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		AverageTicket: AverageTicket(totals.Total, totals.OrderCount),
		PointsIssued:  totals.PointsIssued,
	}

	var statusCounts []struct {
		Status order.OrderStatus
		Count  int64
	}
	if err := shift().Select("status, COUNT(*) AS count").Group("status").Scan(&statusCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case order.OrderStatusCompleted:
			report.CompletedCount = sc.Count
		case order.OrderStatusPending:
			report.PendingCount = sc.Count
		case order.OrderStatusCancelled:
			report.CancelledCount = sc.Count
		}
	}

	err = db.Table("order_items oi").
		Select("COALESCE(SUM(oi.quantity), 0)").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.created_at >= ? AND o.created_at <= ?", start, now).
		Where("o.status IN ?", countedStatuses).
		Scan(&report.ItemsSold).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count items sold: %w", err)
	}

	report.ByPaymentMethod, err = s.byPaymentMethod(counted())
	if err != nil {
		return nil, err
	}

	err = counted().
		Select("employee_id, COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total").
		Group("employee_id").
		Order("employee_id").
		Scan(&report.ByEmployee).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by employee: %w", err)
	}

	return report, nil
}

func (s *Service) byPaymentMethod(query *gorm.DB) ([]PaymentBreakdown, error) {
	var rows []PaymentBreakdown
	err := query.
		Select("payment_method, COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total").
		Group("payment_method").
		Order("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by payment method: %w", err)
	}
	return rows, nil
}

// ResolveRange turns a sales request into a half-open [from, to) range of
// whole days. It defaults to the last 30 days including today.
func ResolveRange(req *SalesRequest, now time.Time) (time.Time, time.Time, error) {
	today := startOfDay(now)

	to := today.AddDate(0, 0, 1)
	if req.To != "" {
		t, err := time.ParseInLocation(dateLayout, req.To, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to: %v", ErrInvalidRange, err)
		}
		to = t.AddDate(0, 0, 1)
	}

	var from time.Time
	if req.From != "" {
		f, err := time.ParseInLocation(dateLayout, req.From, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from: %v", ErrInvalidRange, err)
		}
		from = f
	} else {
		days := req.Days
		if days <= 0 {
			days = 30
		}
		from = to.AddDate(0, 0, -days)
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must not be after to", ErrInvalidRange)
	}
	if to.Sub(from) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range exceeds one year", ErrInvalidRange)
	}
	return from, to, nil
}

// ShiftStart parses the start of an X-report window
func ShiftStart(since string, now time.Time) (time.Time, error) {
	if since == "" {
		return startOfDay(now), nil
	}
	if t, err := time.Parse(time.RFC3339, since); err == nil {
		if t.After(now) {
			return time.Time{}, fmt.Errorf("%w: shift start is in the future", ErrInvalidRange)
		}
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, since, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: since: %v", ErrInvalidRange, err)
	}
	if t.After(now) {
		return time.Time{}, fmt.Errorf("%w: shift start is in the future", ErrInvalidRange)
	}
	return t, nil
}

// AverageTicket is total divided by order count, rounded to cents
func AverageTicket(total decimal.Decimal, orders int64) decimal.Decimal {
	if orders == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(orders), 2)
}

// dayExpr formats a timestamp column as YYYY-MM-DD in the connected dialect
func dayExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
	}
	return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", column)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
