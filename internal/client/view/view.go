// Package view renders food items for the terminal client. Every expiry
// label comes from the expiry package.
package view

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/atinyakov/FoodKeeper/internal/expiry"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

// Renderer writes views to Out as seen at Now() with the given threshold.
type Renderer struct {
	Out               io.Writer
	Now               func() time.Time
	SoonThresholdDays int
}

// New returns a Renderer using the wall clock.
func New(out io.Writer, soonThresholdDays int) *Renderer {
	return &Renderer{Out: out, Now: time.Now, SoonThresholdDays: soonThresholdDays}
}

func expiryText(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format(models.DateLayout)
}

// Table prints items one per row with state and countdown.
func (r *Renderer) Table(items []models.FoodItem) {
	if len(items) == 0 {
		fmt.Fprintln(r.Out, "No food items.")
		return
	}
	now := r.Now()
	tw := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tQTY\tEXPIRES\tSTATE\tLEFT")
	for _, it := range items {
		c := expiry.Classify(it.ExpiryDate, now, r.SoonThresholdDays)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Title, it.Category, quantity(it),
			expiryText(it.ExpiryDate), c.State, expiry.FormatCountdown(it.ExpiryDate, now))
	}
	_ = tw.Flush()
}

func quantity(it models.FoodItem) string {
	if it.Unit == "" {
		return fmt.Sprint(it.Quantity)
	}
	return fmt.Sprintf("%d %s", it.Quantity, it.Unit)
}

// Details prints a single item with its notes. viewer decides whether the
// ownership hint is shown.
func (r *Renderer) Details(it models.FoodItem, notes []models.Note, viewer string) {
	now := r.Now()
	c := expiry.Classify(it.ExpiryDate, now, r.SoonThresholdDays)

	tw := tabwriter.NewWriter(r.Out, 0, 4, 1, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("ID", it.ID)
	row("Title", it.Title)
	row("Category", string(it.Category))
	row("Quantity", quantity(it))
	row("Expires", expiryText(it.ExpiryDate))
	if c.DaysLeft != nil {
		row("Days left", fmt.Sprint(*c.DaysLeft))
	}
	row("State", c.State.String())
	row("Countdown", expiry.FormatCountdown(it.ExpiryDate, now))
	if !it.AddedDate.IsZero() {
		row("Added", it.AddedDate.Format(models.DateLayout))
	}
	row("Image", it.Image)
	row("Description", it.Description)
	owner := it.OwnerEmail
	if models.CanAnnotate(it, viewer) {
		owner += " (you)"
	}
	row("Owner", owner)
	_ = tw.Flush()

	if len(notes) == 0 {
		fmt.Fprintln(r.Out, "No notes.")
		return
	}
	fmt.Fprintln(r.Out, "Notes:")
	for _, n := range notes {
		fmt.Fprintf(r.Out, "  [%s] %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Text)
	}
}

// Profile prints the account fields of the signed-in user.
func (r *Renderer) Profile(email, name, photo string) {
	tw := tabwriter.NewWriter(r.Out, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "Email:\t%s\n", email)
	fmt.Fprintf(tw, "Name:\t%s\n", name)
	if photo == "" {
		photo = "-"
	}
	fmt.Fprintf(tw, "Photo:\t%s\n", photo)
	_ = tw.Flush()
}

// NearlyPage prints one page of the items that are expiring soon or expired,
// headed by both counts. page is clamped into range and the page shown is
// returned.
func (r *Renderer) NearlyPage(items []models.FoodItem, page, size int) int {
	now := r.Now()
	soon, expired := expiry.GroupByState(items, now, r.SoonThresholdDays).Counts()
	nearly := expiry.NearlyExpiring(items, now, r.SoonThresholdDays)

	total := expiry.TotalPages(len(nearly), size)
	page = min(max(page, 1), total)

	fmt.Fprintf(r.Out, "Expiring soon: %d  Expired: %d\n", soon, expired)
	r.Table(expiry.Paginate(nearly, page, size))
	fmt.Fprintf(r.Out, "Page %d of %d\n", page, total)
	return page
}

var commands = [][2]string{
	{"register", "create an account"},
	{"login", "start a session"},
	{"logout", "end the session"},
	{"profile [edit]", "show or change your name and photo"},
	{"list [search] [category]", "list all food items"},
	{"my", "list your food items"},
	{"nearly [page]", "items expiring soon or expired"},
	{"show <id>", "item details and notes"},
	{"add", "add a food item"},
	{"edit <id>", "update your item"},
	{"delete <id>", "delete your item"},
	{"note <id>", "add a note to your item"},
	{"refresh", "reload the cached list"},
	{"exit", "quit"},
}

// Help prints the command reference.
func Help(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	fmt.Fprintln(tw, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c[0], c[1])
	}
	_ = tw.Flush()
}
