package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/construction"
	"github.com/dmitrijs2005/stellarburgers/internal/client/state/ingredients"
)

var typeTitles = map[models.IngredientType]string{
	models.IngredientTypeBun:   "Buns",
	models.IngredientTypeSauce: "Sauces",
	models.IngredientTypeMain:  "Mains",
}

var statusTitles = map[string]string{
	models.OrderStatusCreated: "created",
	models.OrderStatusPending: "in progress",
	models.OrderStatusDone:    "done",
}

// renderMenu lists the catalogue numbered from 1 in catalogue order, with a
// heading whenever the type changes.
func renderMenu(w io.Writer, all []models.Ingredient) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var last models.IngredientType
	for i, ing := range all {
		if ing.Type != last {
			fmt.Fprintf(tw, "%s\t\t\n", typeTitles[ing.Type])
			last = ing.Type
		}
		fmt.Fprintf(tw, "  %d\t%s\t%d\n", i+1, ing.Name, ing.Price)
	}
	_ = tw.Flush()
}

func renderBurger(w io.Writer, s construction.State) {
	if s.IsEmpty() {
		fmt.Fprintln(w, "The burger is empty, pick a bun and fillings from the menu")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if s.Bun != nil {
		fmt.Fprintf(tw, "\t%s (top)\t%d\n", s.Bun.Name, s.Bun.Price)
	} else {
		fmt.Fprintf(tw, "\t(no bun)\t\n")
	}
	for i, f := range s.Fillings {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, f.Name, f.Price)
	}
	if s.Bun != nil {
		fmt.Fprintf(tw, "\t%s (bottom)\t%d\n", s.Bun.Name, s.Bun.Price)
	}
	fmt.Fprintf(tw, "\tTotal\t%d\n", s.Price())
	_ = tw.Flush()
}

func renderOrders(w io.Writer, orders []models.Order, catalogue ingredients.State) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, o := range orders {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%d\n", o.Number, o.Name, statusTitle(o.Status), orderPrice(o, catalogue))
	}
	_ = tw.Flush()
}

func renderOrder(w io.Writer, o models.Order, catalogue ingredients.State) {
	fmt.Fprintf(w, "#%d %s\n", o.Number, o.Name)
	fmt.Fprintf(w, "Status: %s\n", statusTitle(o.Status))
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created: %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	counts := make(map[string]int)
	var order []string
	for _, id := range o.Ingredients {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, id := range order {
		name := id
		price := 0
		if ing, ok := catalogue.ByID(id); ok {
			name, price = ing.Name, ing.Price
		}
		fmt.Fprintf(tw, "  %s\t%d x %d\n", name, counts[id], price)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Total: %d\n", orderPrice(o, catalogue))
}

// orderPrice sums the catalogue prices of the order's ingredients; unknown
// ids count as zero.
func orderPrice(o models.Order, catalogue ingredients.State) int {
	total := 0
	for _, id := range o.Ingredients {
		if ing, ok := catalogue.ByID(id); ok {
			total += ing.Price
		}
	}
	return total
}

func statusTitle(status string) string {
	if t, ok := statusTitles[status]; ok {
		return t
	}
	return strings.TrimSpace(status)
}
