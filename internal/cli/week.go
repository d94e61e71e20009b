package cli

import (
	"fmt"
	"sort"

	"github.com/julianstephens/dopalog/internal/models"
)

// WeekCmd shows the summary for one ISO week, materializing it if it has
// not been computed yet.
type WeekCmd struct {
	Week      string `arg:"" optional:"" help:"ISO week id (YYYY-Www), 'this', or 'last'. Defaults to the current week."`
	Recompute bool   `help:"Force a recompute from the underlying entries."`
}

func (c *WeekCmd) Run(ctx *Context) error {
	weekID, err := ResolveWeek(c.Week)
	if err != nil {
		return err
	}

	var summary models.WeekSummary
	if c.Recompute {
		summary, err = ctx.Repo.RecomputeWeek(weekID)
	} else {
		summary, err = ctx.Repo.WeekSummary(weekID)
	}
	if err != nil {
		return err
	}

	printWeekSummary(summary)
	return nil
}

func printWeekSummary(s models.WeekSummary) {
	fmt.Println(Title(fmt.Sprintf("%s  (%s – %s)", s.Week, s.StartDate, s.EndDate)))
	fmt.Printf("  %s %s / %s  %s\n",
		Label("Usage:"), FormatMinutes(s.TotalMin), FormatMinutes(s.CapMin),
		UsageBar(s.CapUsagePct, 20))

	if s.OverCap {
		fmt.Println("  " + dangerStyle.Render("Over cap this week"))
	} else if s.StreakActive {
		fmt.Println("  " + okStyle.Render("Within cap, streak alive"))
	}

	if len(s.ByCategory) > 0 {
		fmt.Println("\n" + Title("By category"))
		categories := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool {
			if s.ByCategory[categories[i]] != s.ByCategory[categories[j]] {
				return s.ByCategory[categories[i]] > s.ByCategory[categories[j]]
			}
			return categories[i] < categories[j]
		})
		for _, c := range categories {
			fmt.Printf("  %-16s %s\n", c, FormatMinutes(s.ByCategory[c]))
		}
	}

	if len(s.ReplacementUsage) > 0 {
		fmt.Println("\n" + Title("Replacements used"))
		names := make([]string, 0, len(s.ReplacementUsage))
		for n := range s.ReplacementUsage {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("  %-16s ×%d\n", n, s.ReplacementUsage[n])
		}
	}
}
