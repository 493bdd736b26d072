package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"github.com/your-org/boba-pos-backend/internal/pkg/logger"
)

type settlementTestContext struct {
	items     []menu.MenuItem
	options   map[menu.Group][]menu.CustomizationOption
	nextID    uint
	ledger    *cart.Ledger
	orders    *fakeOrders
	customers *fakeCustomers
	receipt   *Receipt
	err       error
}

func (c *settlementTestContext) reset() {
	c.items = nil
	c.options = map[menu.Group][]menu.CustomizationOption{}
	c.nextID = 0
	c.ledger = cart.NewLedger()
	c.orders = &fakeOrders{}
	c.customers = &fakeCustomers{balances: map[uint]int64{}}
	c.receipt = nil
	c.err = nil
}

func (c *settlementTestContext) id() uint {
	c.nextID++
	return c.nextID
}

func (c *settlementTestContext) builder() *cart.Builder {
	return cart.NewBuilder(menu.NewCatalog(c.items, c.options))
}

func (c *settlementTestContext) itemNamed(name string) (menu.MenuItem, error) {
	for _, item := range c.items {
		if item.Name == name {
			return item, nil
		}
	}
	return menu.MenuItem{}, fmt.Errorf("no menu item %q", name)
}

func (c *settlementTestContext) optionNamed(group menu.Group, name string) (uint, error) {
	for _, o := range c.options[group] {
		if o.Name == name {
			return o.ID, nil
		}
	}
	return 0, fmt.Errorf("no %s option %q", group, name)
}

func (c *settlementTestContext) addOption(group menu.Group, name, price string) error {
	delta, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.options[group] = append(c.options[group], menu.CustomizationOption{
		ID: c.id(), Name: name, PriceDelta: delta, Group: group,
	})
	return nil
}

func (c *settlementTestContext) aMenuItemPriced(name, price string) error {
	base, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.items = append(c.items, menu.MenuItem{ID: c.id(), Name: name, BasePrice: base, Category: "Tea"})
	return nil
}

func (c *settlementTestContext) anAddOnPriced(name, price string) error {
	return c.addOption(menu.GroupAddOn, name, price)
}

func (c *settlementTestContext) aSizeOptionPriced(name, price string) error {
	return c.addOption(menu.GroupSize, name, price)
}

func (c *settlementTestContext) aSweetnessOptionPriced(name, price string) error {
	return c.addOption(menu.GroupSweetness, name, price)
}

func (c *settlementTestContext) customerStartsWithPoints(id, points int) error {
	c.customers.balances[uint(id)] = int64(points)
	return nil
}

func (c *settlementTestContext) theCustomerStoreIsUnavailable() error {
	c.customers.err = errors.New("customer store unavailable")
	return nil
}

func (c *settlementTestContext) theOrderStoreIsUnavailable() error {
	c.orders.err = errors.New("order store unavailable")
	return nil
}

func (c *settlementTestContext) add(quantity int, name string, sel cart.Selections) error {
	item, err := c.itemNamed(name)
	if err != nil {
		return err
	}
	li, err := c.builder().Build(item, sel, quantity)
	if err != nil {
		return err
	}
	_, err = c.ledger.Add(li)
	return err
}

func (c *settlementTestContext) iAdd(quantity int, name string) error {
	return c.add(quantity, name, cart.Selections{})
}

func (c *settlementTestContext) iAddWithAddOn(quantity int, name, addOn string) error {
	id, err := c.optionNamed(menu.GroupAddOn, addOn)
	if err != nil {
		return err
	}
	return c.add(quantity, name, cart.Selections{AddOns: []uint{id}})
}

func (c *settlementTestContext) iAddInSizeWithSweetness(quantity int, name, size, sweetness string) error {
	sizeID, err := c.optionNamed(menu.GroupSize, size)
	if err != nil {
		return err
	}
	sweetnessID, err := c.optionNamed(menu.GroupSweetness, sweetness)
	if err != nil {
		return err
	}
	return c.add(quantity, name, cart.Selections{Size: sizeID, Sweetness: sweetnessID})
}

func (c *settlementTestContext) iDecrementLineItem(n int) error {
	_, err := c.ledger.DecrementAt(n - 1)
	return err
}

func (c *settlementTestContext) submit(customerID uint, method string) error {
	svc := NewService(c.orders, c.customers, nil, config.POSConfig{StoreTimeout: time.Second}, logger.Discard())
	c.receipt, c.err = svc.Submit(context.Background(), c.ledger.Items(), SubmitRequest{
		CustomerID:    customerID,
		PaymentMethod: order.PaymentMethod(method),
	})
	return nil
}

func (c *settlementTestContext) iSubmitAsGuest(method string) error {
	return c.submit(order.GuestCustomerID, method)
}

func (c *settlementTestContext) iSubmitForCustomer(id int, method string) error {
	return c.submit(uint(id), method)
}

func (c *settlementTestContext) theCartHasLineItems(n int) error {
	if c.ledger.Len() != n {
		return fmt.Errorf("expected %d line items, got %d", n, c.ledger.Len())
	}
	return nil
}

func (c *settlementTestContext) lineItem(n int) (cart.LineItem, error) {
	return c.ledger.At(n - 1)
}

func (c *settlementTestContext) lineItemHasTotal(n int, total string) error {
	li, err := c.lineItem(n)
	if err != nil {
		return err
	}
	return expectAmount("line total", li.LineTotal, total)
}

func (c *settlementTestContext) lineItemHasQuantity(n, quantity int) error {
	li, err := c.lineItem(n)
	if err != nil {
		return err
	}
	if li.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, li.Quantity)
	}
	return nil
}

func (c *settlementTestContext) theCartSubtotalIs(amount string) error {
	return expectAmount("subtotal", c.ledger.Subtotal(), amount)
}

func (c *settlementTestContext) theCartTaxIs(amount string) error {
	return expectAmount("tax", c.ledger.Tax(), amount)
}

func (c *settlementTestContext) theCartTotalIs(amount string) error {
	return expectAmount("total", c.ledger.Total(), amount)
}

func (c *settlementTestContext) theSubmissionFailsBecauseTheCartIsEmpty() error {
	if !errors.Is(c.err, ErrEmptyCart) {
		return fmt.Errorf("expected ErrEmptyCart, got %v", c.err)
	}
	return nil
}

func (c *settlementTestContext) theSubmissionFailsWithAnOrderStoreError() error {
	var serr *OrderStoreError
	if !errors.As(c.err, &serr) {
		return fmt.Errorf("expected OrderStoreError, got %v", c.err)
	}
	return nil
}

func (c *settlementTestContext) theOrderStoreWasNotCalled() error {
	if c.orders.calls != 0 {
		return fmt.Errorf("expected no order store calls, got %d", c.orders.calls)
	}
	return nil
}

func (c *settlementTestContext) theCustomerStoreWasNotCalled() error {
	if c.customers.calls != 0 {
		return fmt.Errorf("expected no customer store calls, got %d", c.customers.calls)
	}
	return nil
}

func (c *settlementTestContext) theOrderIsPlaced() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	if c.receipt == nil || c.receipt.OrderID == 0 {
		return fmt.Errorf("expected a receipt with an order id")
	}
	return nil
}

func (c *settlementTestContext) theReceiptTotalIs(amount string) error {
	return expectAmount("receipt total", c.receipt.Total, amount)
}

func (c *settlementTestContext) theReceiptShowsPointsEarned(points int) error {
	if c.receipt.PointsEarned != int64(points) {
		return fmt.Errorf("expected %d points earned, got %d", points, c.receipt.PointsEarned)
	}
	return nil
}

func (c *settlementTestContext) customerHasRewardsPoints(id, points int) error {
	if got := c.customers.balances[uint(id)]; got != int64(points) {
		return fmt.Errorf("expected customer %d to have %d points, got %d", id, points, got)
	}
	return nil
}

func (c *settlementTestContext) theReceiptWarnsThatRewardsWereNotRecorded() error {
	var rerr *RewardAccrualError
	if !errors.As(c.receipt.RewardsErr, &rerr) {
		return fmt.Errorf("expected RewardAccrualError, got %v", c.receipt.RewardsErr)
	}
	if c.receipt.Warning == "" {
		return fmt.Errorf("expected a warning on the receipt")
	}
	return nil
}

func expectAmount(what string, got decimal.Decimal, want string) error {
	if got.StringFixed(2) != want {
		return fmt.Errorf("expected %s %s, got %s", what, want, got.StringFixed(2))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &settlementTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a menu item "([^"]*)" priced (\d+\.\d{2})$`, tc.aMenuItemPriced)
	ctx.Step(`^an add-on "([^"]*)" priced (\d+\.\d{2})$`, tc.anAddOnPriced)
	ctx.Step(`^a size option "([^"]*)" priced (\d+\.\d{2})$`, tc.aSizeOptionPriced)
	ctx.Step(`^a sweetness option "([^"]*)" priced (\d+\.\d{2})$`, tc.aSweetnessOptionPriced)
	ctx.Step(`^customer (\d+) starts with (\d+) rewards points$`, tc.customerStartsWithPoints)
	ctx.Step(`^the customer store is unavailable$`, tc.theCustomerStoreIsUnavailable)
	ctx.Step(`^the order store is unavailable$`, tc.theOrderStoreIsUnavailable)

	// When steps
	ctx.Step(`^I add (\d+) "([^"]*)"$`, tc.iAdd)
	ctx.Step(`^I add (\d+) "([^"]*)" with add-on "([^"]*)"$`, tc.iAddWithAddOn)
	ctx.Step(`^I add (\d+) "([^"]*)" in size "([^"]*)" with sweetness "([^"]*)"$`, tc.iAddInSizeWithSweetness)
	ctx.Step(`^I decrement line item (\d+)$`, tc.iDecrementLineItem)
	ctx.Step(`^I submit the cart as a guest paying "([^"]*)"$`, tc.iSubmitAsGuest)
	ctx.Step(`^I submit the cart for customer (\d+) paying "([^"]*)"$`, tc.iSubmitForCustomer)

	// Then steps
	ctx.Step(`^the cart has (\d+) line items?$`, tc.theCartHasLineItems)
	ctx.Step(`^line item (\d+) has total (\d+\.\d{2})$`, tc.lineItemHasTotal)
	ctx.Step(`^line item (\d+) has quantity (\d+)$`, tc.lineItemHasQuantity)
	ctx.Step(`^the cart subtotal is (\d+\.\d{2})$`, tc.theCartSubtotalIs)
	ctx.Step(`^the cart tax is (\d+\.\d{2})$`, tc.theCartTaxIs)
	ctx.Step(`^the cart total is (\d+\.\d{2})$`, tc.theCartTotalIs)
	ctx.Step(`^the submission fails because the cart is empty$`, tc.theSubmissionFailsBecauseTheCartIsEmpty)
	ctx.Step(`^the submission fails with an order store error$`, tc.theSubmissionFailsWithAnOrderStoreError)
	ctx.Step(`^the order store was not called$`, tc.theOrderStoreWasNotCalled)
	ctx.Step(`^the customer store was not called$`, tc.theCustomerStoreWasNotCalled)
	ctx.Step(`^the order is placed$`, tc.theOrderIsPlaced)
	ctx.Step(`^the receipt total is (\d+\.\d{2})$`, tc.theReceiptTotalIs)
	ctx.Step(`^the receipt shows (\d+) points earned$`, tc.theReceiptShowsPointsEarned)
	ctx.Step(`^customer (\d+) has (\d+) rewards points$`, tc.customerHasRewardsPoints)
	ctx.Step(`^the receipt warns that rewards were not recorded$`, tc.theReceiptWarnsThatRewardsWereNotRecorded)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/settlement.feature"},
			TestingT: t,
		},
	}

	require.Zero(t, suite.Run(), "non-zero status returned, failed to run feature tests")
}
