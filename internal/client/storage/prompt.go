package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/atinyakov/FoodKeeper/internal/client/api"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

const minPasswordLen = 6

var fieldCheck = validator.New()

// Prompter reads interactive input line by line.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer

	// ReadPassword reads a line without echo. When nil, passwords are read
	// as plain lines from the input.
	ReadPassword func() ([]byte, error)
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// NewTerminalPrompter reads from stdin and hides passwords when stdin is a
// terminal.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.ReadPassword = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

// Line prints label and returns the next trimmed input line.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Password reads a secret without echo when possible.
func (p *Prompter) Password(label string) (string, error) {
	if p.ReadPassword == nil {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := p.ReadPassword()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Registration is what PromptRegistration collects.
type Registration struct {
	Email    string
	Password string
	Name     string
	Photo    string
}

// PromptRegistration asks for the account fields and repeats the password
// questions until both entries match and are long enough.
func (p *Prompter) PromptRegistration() (Registration, error) {
	var r Registration
	var err error
	for r.Email == "" {
		if r.Email, err = p.Line("Email: "); err != nil {
			return r, err
		}
	}
	if r.Name, err = p.Line("Name: "); err != nil {
		return r, err
	}
	if r.Photo, err = p.Line("Photo URL (optional): "); err != nil {
		return r, err
	}
	for {
		pw, err := p.Password("Password: ")
		if err != nil {
			return r, err
		}
		if len(pw) < minPasswordLen {
			fmt.Fprintf(p.out, "Password must be at least %d characters.\n", minPasswordLen)
			continue
		}
		confirm, err := p.Password("Confirm password: ")
		if err != nil {
			return r, err
		}
		if confirm != pw {
			fmt.Fprintln(p.out, "Passwords do not match.")
			continue
		}
		r.Password = pw
		return r, nil
	}
}

// PromptForFood asks for every editable field of a food item. When cur is
// not nil an empty answer keeps its value.
func (p *Prompter) PromptForFood(cur *models.FoodItem) (api.FoodInput, error) {
	var in api.FoodInput
	if cur != nil {
		in = api.FoodInput{
			Title:       cur.Title,
			Category:    string(cur.Category),
			Quantity:    cur.Quantity,
			Unit:        cur.Unit,
			Image:       cur.Image,
			Description: cur.Description,
		}
		if cur.ExpiryDate != nil {
			in.ExpiryDate = cur.ExpiryDate.Format(models.DateLayout)
		}
	}

	ask := func(label, def string) (string, error) {
		v, err := p.Line(withDefault(label, def))
		if err != nil {
			return "", err
		}
		if v == "" {
			return def, nil
		}
		return v, nil
	}

	var err error
	for {
		if in.Title, err = ask("Title", in.Title); err != nil {
			return in, err
		}
		if in.Title != "" {
			break
		}
		fmt.Fprintln(p.out, "Title is required.")
	}

	for {
		v, err := ask("Category ("+categoryList()+")", in.Category)
		if err != nil {
			return in, err
		}
		c, ok := models.ParseCategory(v)
		if ok {
			in.Category = string(c)
			break
		}
		fmt.Fprintf(p.out, "Unknown category %q.\n", v)
	}

	for {
		def := ""
		if in.Quantity > 0 {
			def = strconv.Itoa(in.Quantity)
		}
		v, err := ask("Quantity", def)
		if err != nil {
			return in, err
		}
		n, convErr := strconv.Atoi(v)
		if convErr == nil && n >= 1 {
			in.Quantity = n
			break
		}
		fmt.Fprintln(p.out, "Quantity must be a whole number of at least 1.")
	}

	if in.Unit, err = ask("Unit", in.Unit); err != nil {
		return in, err
	}
	if in.Image, err = ask("Image URL", in.Image); err != nil {
		return in, err
	}

	for {
		v, err := ask("Expiry date (YYYY-MM-DD)", in.ExpiryDate)
		if err != nil {
			return in, err
		}
		if t, ok := models.ParseDate(v); ok {
			in.ExpiryDate = t.Format(models.DateLayout)
			break
		}
		fmt.Fprintf(p.out, "Invalid date %q.\n", v)
	}

	if in.Description, err = ask("Description", in.Description); err != nil {
		return in, err
	}
	return in, nil
}

// PromptProfile asks for a display name and photo URL, both required. An
// empty answer keeps the value from cur.
func (p *Prompter) PromptProfile(cur api.Profile) (name, photo string, err error) {
	for {
		name, err = p.Line(withDefault("Name", cur.Name))
		if err != nil {
			return "", "", err
		}
		if name == "" {
			name = cur.Name
		}
		if name != "" {
			break
		}
		fmt.Fprintln(p.out, "Name is required.")
	}
	for {
		photo, err = p.Line(withDefault("Photo URL", cur.Photo))
		if err != nil {
			return "", "", err
		}
		if photo == "" {
			photo = cur.Photo
		}
		if fieldCheck.Var(photo, "required,url") == nil {
			return name, photo, nil
		}
		fmt.Fprintln(p.out, "A valid photo URL is required.")
	}
}

func withDefault(label, def string) string {
	if def == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, def)
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(label string) (bool, error) {
	v, err := p.Line(label + " [y/N]: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes", nil
}

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, "/")
}
