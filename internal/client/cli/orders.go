package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stellarburgers/internal/common"
)

// Order places the burger under construction.
func (a *App) Order(ctx context.Context) error {
	fmt.Fprintln(a.out, "Placing order...")
	order, err := a.store.PlaceOrder(ctx)
	if err != nil {
		if errors.Is(err, common.ErrIncompleteBurger) || errors.Is(err, common.ErrNotLoggedIn) {
			return err
		}
		return failure(a.store.Snapshot().Orders.Error, err)
	}
	fmt.Fprintf(a.out, "Order #%d accepted, it is being prepared\n", order.Number)
	a.store.ClearCurrentOrder()
	return nil
}

func (a *App) Feed(ctx context.Context) error {
	if err := a.store.FetchFeed(ctx); err != nil {
		return failure(a.store.Snapshot().Orders.Error, err)
	}
	snap := a.store.Snapshot()
	renderOrders(a.out, snap.Orders.Feeds, snap.Ingredients)
	fmt.Fprintf(a.out, "Done all time: %d, today: %d\n", snap.Orders.Total, snap.Orders.TotalToday)
	return nil
}

func (a *App) MyOrders(ctx context.Context) error {
	if err := a.store.FetchUserOrders(ctx); err != nil {
		return failure(a.store.Snapshot().Orders.Error, err)
	}
	snap := a.store.Snapshot()
	renderOrders(a.out, snap.Orders.UserOrders, snap.Ingredients)
	return nil
}

// Show prints the details of an order looked up by number.
func (a *App) Show(ctx context.Context, args []string) error {
	n, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	if err := a.store.FetchOrderByNumber(ctx, n[0]); err != nil {
		return failure(a.store.Snapshot().Orders.Error, err)
	}
	defer a.store.ClearCurrentOrder()

	snap := a.store.Snapshot()
	if snap.Orders.CurrentOrder == nil {
		// superseded by another lookup
		return fmt.Errorf("%w: #%d", common.ErrOrderNotFound, n[0])
	}
	renderOrder(a.out, *snap.Orders.CurrentOrder, snap.Ingredients)
	return nil
}
