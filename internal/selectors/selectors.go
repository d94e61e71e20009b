// Package selectors holds read-only projections over already-aggregated
// data. Everything here is pure: no storage access, no clock.
package selectors

import (
	"sort"
	"time"

	"github.com/julianstephens/dopalog/internal/calendar"
	"github.com/julianstephens/dopalog/internal/models"
	"github.com/julianstephens/dopalog/internal/repo"
)

// CategoryShare is one category's slice of a set of entries.
type CategoryShare struct {
	Category string
	Minutes  int
	Pct      float64
}

// RankedItem is a name with an occurrence count, used for trigger and
// replacement rankings.
type RankedItem struct {
	Name  string
	Count int
}

// CategoryBreakdown sums minutes per category over an entry set and
// returns shares sorted by minutes descending, name ascending on ties.
func CategoryBreakdown(entries []models.Entry) []CategoryShare {
	total := 0
	byCategory := map[string]int{}
	for _, e := range entries {
		total += e.Minutes
		byCategory[e.Category] += e.Minutes
	}

	shares := make([]CategoryShare, 0, len(byCategory))
	for category, minutes := range byCategory {
		share := CategoryShare{Category: category, Minutes: minutes}
		if total > 0 {
			share.Pct = float64(minutes) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Minutes != shares[j].Minutes {
			return shares[i].Minutes > shares[j].Minutes
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// TriggerFrequency ranks trigger tags by how often they appear across an
// entry set.
func TriggerFrequency(entries []models.Entry) []RankedItem {
	counts := map[string]int{}
	for _, e := range entries {
		for _, trigger := range e.Triggers {
			counts[trigger]++
		}
	}
	return rank(counts)
}

// ReplacementRanking ranks replacement activities by usage count.
func ReplacementRanking(entries []models.Entry) []RankedItem {
	counts := map[string]int{}
	for _, e := range entries {
		if e.Replacement != "" {
			counts[e.Replacement]++
		}
	}
	return rank(counts)
}

// WeeklyPattern averages daily totals per weekday, Monday first. Weekdays
// absent from the day set average to zero.
func WeeklyPattern(days []models.DayLog) [7]float64 {
	var sums, counts [7]float64
	for _, d := range days {
		t, err := calendar.ParseDay(d.Day)
		if err != nil {
			continue
		}
		idx := mondayIndex(t.Weekday())
		sums[idx] += float64(d.TotalFastMin)
		counts[idx]++
	}

	var averages [7]float64
	for i := range sums {
		if counts[i] > 0 {
			averages[i] = sums[i] / counts[i]
		}
	}
	return averages
}

// CapUsageToday reports a day's total against the settings-derived daily
// cap (weekly cap divided by seven), as a percentage. Zero cap yields zero.
func CapUsageToday(day models.DayLog, settings models.Settings) float64 {
	dailyCap := float64(repo.CapMinutes(settings)) / 7
	if dailyCap <= 0 {
		return 0
	}
	return float64(day.TotalFastMin) / dailyCap * 100
}

// StreakLength counts consecutive cap-compliant weeks ending at the most
// recent summary, walking backward while the stored per-week flag holds.
// The input must be ordered by start date ascending.
func StreakLength(weeks []models.WeekSummary) int {
	streak := 0
	for i := len(weeks) - 1; i >= 0; i-- {
		if !weeks[i].StreakActive {
			break
		}
		streak++
	}
	return streak
}

func rank(counts map[string]int) []RankedItem {
	items := make([]RankedItem, 0, len(counts))
	for name, count := range counts {
		items = append(items, RankedItem{Name: name, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	return items
}

func mondayIndex(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
