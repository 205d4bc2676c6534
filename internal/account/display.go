package account

import (
	"time"

	"github.com/xeonx/timeago"
)

// FormatAge renders t as a human-relative string ("3 days ago"), for
// cmd/coniccore's account listing (an offline account's added-at).
func FormatAge(t time.Time) string {
	return timeago.English.Format(t)
}
