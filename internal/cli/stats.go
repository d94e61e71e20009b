package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/dopalog/internal/calendar"
	"github.com/julianstephens/dopalog/internal/constants"
	"github.com/julianstephens/dopalog/internal/selectors"
)

// StatsCmd renders derived statistics over a day range: category
// breakdown, trigger and replacement rankings, weekday pattern, trend,
// and the current cap-compliance streak.
type StatsCmd struct {
	From   string `help:"Range start day (YYYY-MM-DD). Defaults to 28 days ago."`
	To     string `help:"Range end day (YYYY-MM-DD). Defaults to today."`
	Window int    `short:"w" default:"7" help:"Trailing window (days) for the trend average."`
}

func (c *StatsCmd) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("--window must be positive")
	}
	return nil
}

func (c *StatsCmd) Run(ctx *Context) error {
	now := time.Now()
	from := c.From
	to := c.To
	if to == "" {
		to = now.Format(constants.DateFormat)
	}
	if from == "" {
		from = now.AddDate(0, 0, -28).Format(constants.DateFormat)
	}

	entries, err := ctx.Repo.EntriesInRange(from, to)
	if err != nil {
		return err
	}
	days, err := ctx.Repo.DaysInRange(from, to)
	if err != nil {
		return err
	}
	weeks, err := ctx.Repo.WeeksInRange(from, to)
	if err != nil {
		return err
	}

	fmt.Println(Title(fmt.Sprintf("Stats %s – %s", from, to)))

	total := 0
	for _, e := range entries {
		total += e.Minutes
	}
	fmt.Printf("  %s %s across %d entries\n", Label("Total:"), FormatMinutes(total), len(entries))
	fmt.Printf("  %s %d week(s)\n", Label("Streak:"), selectors.StreakLength(weeks))

	if shares := selectors.CategoryBreakdown(entries); len(shares) > 0 {
		fmt.Println("\n" + Title("Categories"))
		for _, s := range shares {
			fmt.Printf("  %-16s %-8s %.0f%%\n", s.Category, FormatMinutes(s.Minutes), s.Pct)
		}
	}

	if triggers := selectors.TriggerFrequency(entries); len(triggers) > 0 {
		fmt.Println("\n" + Title("Top triggers"))
		for i, t := range triggers {
			if i == 5 {
				break
			}
			fmt.Printf("  %-16s ×%d\n", t.Name, t.Count)
		}
	}

	if replacements := selectors.ReplacementRanking(entries); len(replacements) > 0 {
		fmt.Println("\n" + Title("Replacements"))
		for _, r := range replacements {
			fmt.Printf("  %-16s ×%d\n", r.Name, r.Count)
		}
	}

	if len(days) > 0 {
		fmt.Println("\n" + Title("Weekday pattern (avg minutes)"))
		pattern := selectors.WeeklyPattern(days)
		names := [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
		for i, avg := range pattern {
			fmt.Printf("  %s  %s\n", names[i], UsageBar(avg/maxOf(pattern)*100, 16))
		}

		fmt.Println("\n" + Title(fmt.Sprintf("%d-day trend (avg minutes)", c.Window)))
		series := make([]float64, len(days))
		for i, d := range days {
			series[i] = float64(d.TotalFastMin)
		}
		trend := calendar.MovingAverage(series, c.Window)
		last := trend[len(trend)-1]
		fmt.Printf("  latest: %.0f min/day", last)
		if len(trend) > 1 {
			delta := last - trend[0]
			switch {
			case delta < 0:
				fmt.Printf("  %s", okStyle.Render(fmt.Sprintf("(↓ %.0f since %s)", -delta, from)))
			case delta > 0:
				fmt.Printf("  %s", warningStyle.Render(fmt.Sprintf("(↑ %.0f since %s)", delta, from)))
			}
		}
		fmt.Println()
	}
	return nil
}

func maxOf(vals [7]float64) float64 {
	max := 1.0
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	return max
}
