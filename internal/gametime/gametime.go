// Package gametime fixes the server timezone and the game-day boundary so
// no caller ever reaches for host-local time.
package gametime

import "time"

// KST is the game server timezone. All run labels and game-day buckets are
// computed in this fixed offset regardless of host locale.
var KST = time.FixedZone("KST", 9*60*60)

// Layout is the run-label format used for wide-table time columns.
const Layout = "2006-01-02 15:04"

// RunLabel renders the shared collection-run timestamp, truncated to the
// minute in KST.
func RunLabel(t time.Time) string {
	return t.In(KST).Format(Layout)
}

// GameDay buckets an instant into its game day. The in-game day rolls over
// at 06:00 KST, so observations before 06:00 belong to the previous
// calendar date.
func GameDay(t time.Time) time.Time {
	shifted := t.In(KST).Add(-6 * time.Hour)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, KST)
}
