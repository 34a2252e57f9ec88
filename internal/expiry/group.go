package expiry

import (
	"sort"
	"time"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

// Groups holds items partitioned by expiry state. Input order is preserved
// inside each bucket.
type Groups struct {
	Fresh        []models.FoodItem
	ExpiringSoon []models.FoodItem
	Expired      []models.FoodItem
	// Unknown holds items without a usable expiry date. They take no part in
	// the three expiry buckets.
	Unknown []models.FoodItem
}

// Counts returns how many items are expiring soon and how many have expired.
func (g Groups) Counts() (soon, expired int) {
	return len(g.ExpiringSoon), len(g.Expired)
}

// GroupByState assigns every item to exactly one bucket in a single pass.
func GroupByState(items []models.FoodItem, now time.Time, soonThresholdDays int) Groups {
	var g Groups
	for _, it := range items {
		switch Classify(it.ExpiryDate, now, soonThresholdDays).State {
		case Fresh:
			g.Fresh = append(g.Fresh, it)
		case ExpiringSoon:
			g.ExpiringSoon = append(g.ExpiringSoon, it)
		case Expired:
			g.Expired = append(g.Expired, it)
		default:
			g.Unknown = append(g.Unknown, it)
		}
	}
	return g
}

// NearlyExpiring returns the items that are expiring soon or already expired,
// soonest expiry first. Items sharing a date keep their input order.
func NearlyExpiring(items []models.FoodItem, now time.Time, soonThresholdDays int) []models.FoodItem {
	g := GroupByState(items, now, soonThresholdDays)
	out := make([]models.FoodItem, 0, len(g.ExpiringSoon)+len(g.Expired))
	out = append(out, g.Expired...)
	out = append(out, g.ExpiringSoon...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(*out[j].ExpiryDate)
	})
	return out
}

// Paginate returns page number page (starting at 1) of size items.
// Pages outside the range, and non-positive sizes, yield an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 || len(items) == 0 {
		return []T{}
	}
	// Compare page indexes before multiplying so huge pages cannot overflow.
	if page-1 > (len(items)-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}

// TotalPages returns how many pages of size hold n items. It is never less
// than 1, so an empty list still renders as "page 1 of 1".
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n-1)/size + 1
}
