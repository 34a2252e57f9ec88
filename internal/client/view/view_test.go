package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newRenderer() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	r := New(&buf, 3)
	r.Now = func() time.Time { return now }
	return r, &buf
}

func food(id string, exp *time.Time) models.FoodItem {
	return models.FoodItem{ID: id, Title: "Food " + id, Category: models.Dairy, Quantity: 1, ExpiryDate: exp}
}

func TestTable(t *testing.T) {
	r, buf := newRenderer()
	r.Table([]models.FoodItem{
		food("a", date(2025, time.March, 12)),
		food("b", date(2025, time.March, 1)),
		food("c", nil),
		food("d", date(2025, time.April, 1)),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "STATE")
	assert.Contains(t, lines[1], "Expiring soon")
	assert.Contains(t, lines[1], "1d 12h 0m left")
	assert.Contains(t, lines[2], "Expired")
	assert.Contains(t, lines[3], "Unknown")
	assert.Contains(t, lines[3], "No expiry info")
	assert.Contains(t, lines[4], "Fresh")
	assert.Contains(t, lines[4], "2025-04-01")
}

func TestTable_Empty(t *testing.T) {
	r, buf := newRenderer()
	r.Table(nil)
	assert.Equal(t, "No food items.\n", buf.String())
}

func TestDetails(t *testing.T) {
	r, buf := newRenderer()
	it := food("x", date(2025, time.March, 11))
	it.Unit = "l"
	it.Quantity = 2
	it.OwnerEmail = "ann@example.com"
	notes := []models.Note{{Text: "opened", CreatedAt: time.Date(2025, 3, 9, 8, 30, 0, 0, time.UTC)}}

	r.Details(it, notes, "ann@example.com")
	out := buf.String()
	assert.Contains(t, out, "2 l")
	assert.Contains(t, out, "Days left:")
	assert.Contains(t, out, "ann@example.com (you)")
	assert.Contains(t, out, "[2025-03-09 08:30] opened")

	buf.Reset()
	r.Details(it, nil, "bob@example.com")
	out = buf.String()
	assert.NotContains(t, out, "(you)")
	assert.Contains(t, out, "No notes.")
}

func TestNearlyPage(t *testing.T) {
	r, buf := newRenderer()
	items := []models.FoodItem{
		food("fresh", date(2025, time.May, 1)),
		food("s1", date(2025, time.March, 11)),
		food("e1", date(2025, time.March, 1)),
		food("s2", date(2025, time.March, 12)),
		food("e2", date(2025, time.March, 10)),
		food("none", nil),
	}

	page := r.NearlyPage(items, 2, 3)
	assert.Equal(t, 2, page)
	out := buf.String()
	assert.Contains(t, out, "Expiring soon: 2  Expired: 2")
	assert.Contains(t, out, "Food s2")
	assert.NotContains(t, out, "Food e1")
	assert.Contains(t, out, "Page 2 of 2")

	buf.Reset()
	assert.Equal(t, 2, r.NearlyPage(items, 9, 3))
	buf.Reset()
	assert.Equal(t, 1, r.NearlyPage(items, 0, 3))
	assert.Contains(t, buf.String(), "Food e1")
}

func TestNearlyPage_Empty(t *testing.T) {
	r, buf := newRenderer()
	assert.Equal(t, 1, r.NearlyPage(nil, 1, 4))
	assert.Contains(t, buf.String(), "Expiring soon: 0  Expired: 0")
	assert.Contains(t, buf.String(), "Page 1 of 1")
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	Help(&buf)
	assert.Contains(t, buf.String(), "nearly [page]")
	assert.Contains(t, buf.String(), "exit")
}

func TestProfile(t *testing.T) {
	r, buf := newRenderer()
	r.Profile("ann@example.com", "Ann", "")
	assert.Contains(t, buf.String(), "ann@example.com")
	assert.Contains(t, buf.String(), "Photo: -")
}
