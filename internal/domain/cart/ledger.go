// internal/domain/cart/ledger.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/boba-pos-backend/internal/pkg/money"
)

// Totals summarises a ledger
type Totals struct {
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// Ledger is the ordered list of line items in one ordering session.
// It is not safe for concurrent use; each session has a single writer.
type Ledger struct {
	items []LineItem
}

// NewLedger creates a ledger holding copies of items
func NewLedger(items ...LineItem) *Ledger {
	l := &Ledger{items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		l.items = append(l.items, item.clone())
	}
	return l
}

// Add appends item, or merges it into a configuration-equal entry.
// It returns the index of the affected entry.
func (l *Ledger) Add(item LineItem) (int, error) {
	if item.Quantity < 1 {
		return -1, invalid("quantity", "must be at least 1, got %d", item.Quantity)
	}

	incoming := item.clone()
	incoming.recalculate()

	key := incoming.ConfigKey()
	for i := range l.items {
		if l.items[i].ConfigKey() != key {
			continue
		}
		l.items[i].Quantity += incoming.Quantity
		l.items[i].LineTotal = l.items[i].LineTotal.Add(incoming.LineTotal)
		return i, nil
	}

	l.items = append(l.items, incoming)
	return len(l.items) - 1, nil
}

// RemoveAt deletes the entry at index, preserving the order of the rest
func (l *Ledger) RemoveAt(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return nil
}

// ReplaceAt swaps the entry at index for item, keeping its position
func (l *Ledger) ReplaceAt(index int, item LineItem) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if item.Quantity < 1 {
		return invalid("quantity", "must be at least 1, got %d", item.Quantity)
	}

	replacement := item.clone()
	replacement.recalculate()
	l.items[index] = replacement
	return nil
}

// IncrementAt adds one to the quantity at index
func (l *Ledger) IncrementAt(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.items[index].Quantity++
	l.items[index].recalculate()
	return nil
}

// DecrementAt removes one from the quantity at index. An entry at quantity 1
// is deleted instead; removed reports whether that happened.
func (l *Ledger) DecrementAt(index int) (removed bool, err error) {
	if err := l.checkIndex(index); err != nil {
		return false, err
	}
	if l.items[index].Quantity <= 1 {
		return true, l.RemoveAt(index)
	}
	l.items[index].Quantity--
	l.items[index].recalculate()
	return false, nil
}

// Subtotal is the sum of line totals
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range l.items {
		sum = sum.Add(item.LineTotal)
	}
	return money.Round2(sum)
}

// Tax is the sales tax on the subtotal
func (l *Ledger) Tax() decimal.Decimal {
	return money.Tax(l.Subtotal())
}

// Total is subtotal plus tax
func (l *Ledger) Total() decimal.Decimal {
	subtotal := l.Subtotal()
	return money.Total(subtotal, money.Tax(subtotal))
}

// Totals computes every summary figure in one pass
func (l *Ledger) Totals() Totals {
	subtotal := l.Subtotal()
	tax := money.Tax(subtotal)

	quantity := 0
	for _, item := range l.items {
		quantity += item.Quantity
	}

	return Totals{
		ItemCount:     len(l.items),
		TotalQuantity: quantity,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         money.Total(subtotal, tax),
	}
}

// Clear empties the ledger
func (l *Ledger) Clear() {
	l.items = l.items[:0]
}

// Items returns a copy of the entries in insertion order
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	for i, item := range l.items {
		out[i] = item.clone()
	}
	return out
}

// At returns a copy of the entry at index
func (l *Ledger) At(index int) (LineItem, error) {
	if err := l.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return l.items[index].clone(), nil
}

// Len is the number of entries
func (l *Ledger) Len() int {
	return len(l.items)
}

// IsEmpty reports whether the ledger has no entries
func (l *Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.items) {
		return invalid("index", "%d out of range [0, %d)", index, len(l.items))
	}
	return nil
}
