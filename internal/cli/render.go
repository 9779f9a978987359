package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/larder/internal/engine"
	"github.com/Veraticus/larder/internal/meallog"
	"github.com/Veraticus/larder/internal/model"
)

// FormatPrice renders an amount with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RenderShoppingList renders a list with per-item price provenance and the total.
func RenderShoppingList(list *model.ShoppingList) string {
	if list == nil {
		return FormatInfo("No active shopping list")
	}

	var b strings.Builder
	for _, item := range list.Items {
		b.WriteString(renderItem(item))
		b.WriteByte('\n')
	}
	if len(list.Items) == 0 {
		b.WriteString(SubtleStyle.Render("(empty)"))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n%s %s   %s\n",
		BoldStyle.Render("Total:"),
		FormatPrice(list.TotalPrice),
		SubtleStyle.Render(fmt.Sprintf("%d of %d left", list.UncheckedCount(), len(list.Items))))

	title := CartIcon + " Shopping list"
	if list.MealPlanID != "" {
		title += " for plan " + list.MealPlanID
	}
	if list.Completed {
		title += " (completed)"
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

func renderItem(item model.ShoppingListItem) string {
	box := UncheckedIcon
	if item.Checked {
		box = CheckedIcon
	}

	name := item.Name
	if item.Amount > 0 && (item.Amount != 1 || item.Unit != "") {
		name = fmt.Sprintf("%s (%s)", item.Name, strings.TrimSpace(fmt.Sprintf("%g %s", item.Amount, item.Unit)))
	}

	var price string
	switch item.PriceSource() {
	case model.PriceFromOffer:
		price = PriceStyle.Render(FormatPrice(item.SelectedPrice()) + " " + TagIcon)
		if item.Store != "" {
			price += " " + SubtleStyle.Render(item.Store)
		}
	case model.PriceManual:
		price = FormatPrice(item.SelectedPrice())
		if item.IsEstimate {
			price = "~" + price
		}
	default:
		price = SubtleStyle.Render("no price")
	}

	line := fmt.Sprintf("%s %-32s %s  %s", box, name, price, SubtleStyle.Render(shortID(item.ID)))
	if item.Checked {
		return SubtleStyle.Render(line)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderOffers renders offers one per line, cheapest first as given.
func RenderOffers(offers []model.Offer) string {
	if len(offers) == 0 {
		return FormatInfo("No eligible offers")
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-36s %-16s %10s  %s", "Product", "Chain", "Price", "Valid")))
	b.WriteByte('\n')
	for _, o := range offers {
		chain := o.ChainName
		if chain == "" {
			chain = o.ChainID
		}
		price := FormatPrice(o.Price)
		if d := o.Discount(); d > 0 {
			price += SuccessStyle.Render(fmt.Sprintf(" -%s", FormatPrice(d)))
		}
		fmt.Fprintf(&b, "%-36s %-16s %10s  %s..%s\n",
			o.ProductName, chain, price, model.FormatDay(o.ValidFrom), model.FormatDay(o.ValidUntil))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderStaples renders staples grouped by category in display order.
func RenderStaples(staples []model.PantryStaple) string {
	if len(staples) == 0 {
		return FormatInfo("No pantry staples configured")
	}

	groups := model.GroupStaplesByCategory(staples)
	var b strings.Builder
	for _, cat := range model.StapleCategories {
		items := groups[cat]
		if len(items) == 0 {
			continue
		}
		b.WriteString(HeaderStyle.Render(string(cat)))
		b.WriteByte('\n')
		for _, s := range items {
			icon := s.Icon
			if icon == "" {
				icon = "•"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", icon, s.Name, SubtleStyle.Render("("+s.ID+")"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRestockReport summarizes a staple restock run.
func RenderRestockReport(report *engine.RestockReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", FormatSuccess(fmt.Sprintf("Matched %d staples against %d offers", len(report.Matched), report.OffersConsidered)))
	for _, m := range report.Matched {
		fmt.Fprintf(&b, "  %s → %s %s\n", m.Staple.Name, m.Offer.ProductName, PriceStyle.Render(FormatPrice(m.Offer.Price)))
	}
	if len(report.Unmatched) > 0 {
		names := make([]string, len(report.Unmatched))
		for i, s := range report.Unmatched {
			names[i] = s.Name
		}
		fmt.Fprintf(&b, "%s\n", SubtleStyle.Render("No offer: "+strings.Join(names, ", ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderMealLog renders the day's slots, photos and calorie total.
func RenderMealLog(log *model.DailyMealLog) string {
	var b strings.Builder
	for _, slot := range model.MealSlots {
		state := log.Slot(slot)
		icon := UncheckedIcon
		style := lipgloss.NewStyle()
		switch state {
		case model.SlotCompleted:
			icon, style = CheckedIcon, SuccessStyle
		case model.SlotSkipped:
			icon, style = SkippedIcon, SubtleStyle
		}
		fmt.Fprintf(&b, "%s %-10s %s\n", icon, slot, style.Render(state.String()))
	}

	for _, p := range log.Photos {
		desc := p.Description
		if desc == "" {
			desc = p.URL
		}
		if p.EstimatedCalories != nil {
			desc += fmt.Sprintf(" (%d kcal)", *p.EstimatedCalories)
		}
		fmt.Fprintf(&b, "📷 %s\n", desc)
	}
	if log.ExtraCalories > 0 || log.ExtraDescription != "" {
		fmt.Fprintf(&b, "➕ %s (%d kcal)\n", log.ExtraDescription, log.ExtraCalories)
	}

	sum := meallog.Summarize(log)
	fmt.Fprintf(&b, "\n%s %d kcal   %s",
		BoldStyle.Render("Logged:"),
		log.LoggedCalories(),
		SubtleStyle.Render(fmt.Sprintf("%d done, %d skipped, %d pending", sum.Completed, sum.Skipped, sum.Pending)))

	title := "Meals on " + model.FormatDay(log.Date)
	if log.MealPlanID != "" {
		title += " (plan " + log.MealPlanID + ")"
	}
	return RenderBox(title, b.String())
}
