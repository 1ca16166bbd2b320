package telegram

import (
	"fmt"
	"strings"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/render"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shopping"
)

// maxMessageLen stays under Telegram's 4096 character limit.
const maxMessageLen = 3800

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

var slotEmoji = map[shared.MealSlot]string{
	shared.Breakfast:   "🍳",
	shared.Lunch:       "🥗",
	shared.Dinner:      "🍲",
	shared.FirstSnack:  "🥜",
	shared.SecondSnack: "🍎",
}

// formatPlanMarkdownParts renders the plan as one or more Markdown messages.
// Days are never split across messages.
func formatPlanMarkdownParts(out *app.PlanOutput, location string, meals []shared.MealSlot) []string {
	var header strings.Builder
	header.WriteString(fmt.Sprintf("📅 *Plan de %d días* · %s\n", len(out.Plans), escape(render.CityLabel(location))))
	if out.Calories != nil {
		header.WriteString(fmt.Sprintf("🔥 %d kcal/día", out.Calories.Daily))
		if out.Calories.FlexKcal > 0 {
			header.WriteString(fmt.Sprintf(" (margen flexible ~%d kcal)", out.Calories.FlexKcal))
		}
		header.WriteString("\n")
	}

	var parts []string
	current := header.String()
	for i, day := range out.Plans {
		var db strings.Builder
		db.WriteString(fmt.Sprintf("\n*Día %d*\n", i+1))
		for _, slot := range meals {
			sel, ok := day[slot]
			if !ok {
				continue
			}
			db.WriteString(fmt.Sprintf("%s %s", slotEmoji[slot], render.SlotLabel(slot)))
			if out.Calories != nil {
				db.WriteString(fmt.Sprintf(" (~%d kcal)", out.Calories.MealKcal[slot]))
			}
			db.WriteString(": ")
			db.WriteString(escape(describe(sel.Slot, sel.Carb, sel.Protein, sel.Veg, sel.Fruit, sel.Snack)))
			db.WriteString("\n")
		}

		if len(current)+db.Len() > maxMessageLen {
			parts = append(parts, current)
			current = ""
		}
		current += db.String()
	}
	return append(parts, current)
}

func describe(slot shared.MealSlot, carb, protein, veg, fruit, snack string) string {
	if slot.IsSnack() {
		return snack
	}
	items := []string{carb, protein}
	if slot != shared.Breakfast {
		items = append(items, veg)
	}
	items = append(items, fruit)
	for i, it := range items {
		if it == "" {
			items[i] = render.Missing
		}
	}
	return strings.Join(items, ", ")
}

func formatTips(tips []string) string {
	var sb strings.Builder
	sb.WriteString("💡 *Consejos*\n\n")
	for _, t := range tips {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(t)))
	}
	return sb.String()
}

var shoppingSections = []struct {
	cat   shopping.Category
	label string
}{
	{shopping.Carbs, "Carbohidratos"},
	{shopping.Proteins, "Proteínas"},
	{shopping.Vegetables, "Vegetales"},
	{shopping.Fruits, "Frutas"},
	{shopping.Snacks, "Colaciones"},
}

func formatShopping(list *shopping.List) string {
	groups := list.ByCategory()
	var sb strings.Builder
	sb.WriteString("🛒 *Lista de compras*\n")
	for _, sec := range shoppingSections {
		items := groups[sec.cat]
		if len(items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n*%s*\n", sec.label))
		for _, it := range items {
			sb.WriteString(fmt.Sprintf("• %s ×%d", escape(it.Name), it.Servings))
			if it.Grams > 0 {
				sb.WriteString(fmt.Sprintf(" (%dg)", it.Grams))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatMetrics(runs []metrics.DailyRuns, usage []metrics.DailyUsage, top []metrics.LocationCount, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Plans Generated*\n")
	if len(runs) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range runs {
		sb.WriteString(fmt.Sprintf("• *%s*: %d plans, %d fallbacks, %.0f ms avg\n", d.Date, d.Runs, d.Fallbacks, d.AvgLatencyMS))
	}

	if len(top) > 0 {
		sb.WriteString("\n📍 *Top Cities*\n")
		for _, l := range top {
			sb.WriteString(fmt.Sprintf("• %s: %d\n", escape(render.CityLabel(l.Location)), l.Runs))
		}
	}

	sb.WriteString("\n🤖 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Database: %s\n", health.DatabaseSize))
	return sb.String()
}

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
