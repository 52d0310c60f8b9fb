package cli

import (
	"context"
	"fmt"
)

// Menu prints the catalogue grouped by type. Numbers in the listing are
// what 'add' expects.
func (a *App) Menu(ctx context.Context) error {
	snap := a.store.Snapshot().Ingredients
	if len(snap.All) == 0 {
		if err := a.store.FetchIngredients(ctx); err != nil {
			return failure(a.store.Snapshot().Ingredients.Error, err)
		}
		snap = a.store.Snapshot().Ingredients
	}
	renderMenu(a.out, snap.All)
	return nil
}

// Add puts the n-th menu item into the burger.
func (a *App) Add(ctx context.Context, args []string) error {
	n, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	all := a.store.Snapshot().Ingredients.All
	if n[0] < 1 || n[0] > len(all) {
		return fmt.Errorf("no menu item %d", n[0])
	}

	entry, err := a.store.AddIngredient(all[n[0]-1].ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", entry.Name)
	return nil
}

// Remove drops the n-th filling of the burger, counting from 1.
func (a *App) Remove(ctx context.Context, args []string) error {
	n, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	fillings := a.store.Snapshot().Construction.Fillings
	if n[0] < 1 || n[0] > len(fillings) {
		return fmt.Errorf("no filling %d", n[0])
	}
	a.store.RemoveIngredient(fillings[n[0]-1].InstanceID)
	return a.Burger(ctx)
}

// Move moves a filling, positions counting from 1.
func (a *App) Move(ctx context.Context, args []string) error {
	n, err := intArgs(args, 2)
	if err != nil {
		return err
	}
	count := len(a.store.Snapshot().Construction.Fillings)
	for _, p := range n {
		if p < 1 || p > count {
			return fmt.Errorf("no filling %d", p)
		}
	}
	a.store.MoveIngredient(n[0]-1, n[1]-1)
	return a.Burger(ctx)
}

func (a *App) Burger(ctx context.Context) error {
	renderBurger(a.out, a.store.Snapshot().Construction)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	a.store.ResetConstruction()
	fmt.Fprintln(a.out, "Burger cleared")
	return nil
}
