package cli

import (
	"strings"
	"time"

	"github.com/julianstephens/dopalog/internal/backup"
	"github.com/julianstephens/dopalog/internal/calendar"
	apperrors "github.com/julianstephens/dopalog/internal/errors"
	"github.com/julianstephens/dopalog/internal/logger"
	"github.com/julianstephens/dopalog/internal/repo"
	"github.com/julianstephens/dopalog/internal/storage"
)

type Context struct {
	Store storage.Provider
	Repo  *repo.Repository
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	_, err := mgr.Create()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDay turns a user-facing day argument into a YYYY-MM-DD key.
// Accepts "today", "yesterday", "tomorrow", a bare weekday offset like
// "-2" (two days ago), or an explicit date.
func ResolveDay(arg string) (string, error) {
	now := time.Now()
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return now.Format("2006-01-02"), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	if offset, ok := parseDayOffset(arg); ok {
		return now.AddDate(0, 0, offset).Format("2006-01-02"), nil
	}
	if _, err := calendar.ParseDay(arg); err != nil {
		return "", apperrors.Invalid("day", "%q is not a date (use YYYY-MM-DD, today, yesterday, or an offset like -2)", arg)
	}
	return arg, nil
}

// ResolveWeek turns a user-facing week argument into a YYYY-Www id.
// Accepts "", "this"/"current", "last", or an explicit id.
func ResolveWeek(arg string) (string, error) {
	now := time.Now()
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "this", "current":
		return calendar.WeekIDOf(now), nil
	case "last":
		return calendar.WeekIDOf(now.AddDate(0, 0, -7)), nil
	}
	if _, err := calendar.ParseWeekID(arg); err != nil {
		return "", err
	}
	return arg, nil
}

// SplitList parses a comma-separated flag value, trimming blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDayOffset(arg string) (int, bool) {
	if len(arg) < 2 || (arg[0] != '-' && arg[0] != '+') {
		return 0, false
	}
	n := 0
	for _, r := range arg[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if arg[0] == '-' {
		n = -n
	}
	return n, true
}
