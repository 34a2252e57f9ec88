package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/FoodKeeper/internal/client/api"
	"github.com/atinyakov/FoodKeeper/internal/client/session"
	"github.com/atinyakov/FoodKeeper/internal/client/storage"
	"github.com/atinyakov/FoodKeeper/internal/client/view"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

// shell is the interactive command loop.
type shell struct {
	api      *api.Client
	sess     *session.Session
	cache    *storage.LocalStorage
	prompt   *storage.Prompter
	view     *view.Renderer
	out      io.Writer
	pageSize int

	page int
}

// run reads commands until exit or end of input.
func (sh *shell) run(ctx context.Context) {
	if sh.sess.LoggedIn() {
		fmt.Fprintf(sh.out, "Welcome back, %s.\n", displayName(sh.sess))
	} else {
		fmt.Fprintln(sh.out, "Type 'help' for a list of commands.")
	}
	for {
		line, err := sh.prompt.Line("foodkeeper> ")
		if err != nil {
			fmt.Fprintln(sh.out)
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if !sh.exec(ctx, args) {
			fmt.Fprintln(sh.out, "Bye")
			return
		}
	}
}

func displayName(s *session.Session) string {
	if s.Name() != "" {
		return s.Name()
	}
	return s.Email()
}

// exec runs one command and reports whether the loop should continue.
func (sh *shell) exec(ctx context.Context, args []string) bool {
	var err error
	switch args[0] {
	case "help":
		view.Help(sh.out)
	case "register":
		err = sh.register(ctx)
	case "login":
		err = sh.login(ctx)
	case "logout":
		err = sh.sess.Teardown()
		if err == nil {
			fmt.Fprintln(sh.out, "Logged out")
		}
	case "profile":
		err = sh.profile(ctx, args[1:])
	case "list":
		err = sh.list(ctx, args[1:])
	case "my":
		err = sh.mine(ctx)
	case "nearly":
		err = sh.nearly(ctx, args[1:])
	case "refresh":
		err = sh.refresh(ctx)
		if err == nil {
			fmt.Fprintf(sh.out, "%d items cached\n", len(sh.cache.List("", "")))
		}
	case "show", "add", "edit", "delete", "note":
		err = sh.itemCommand(ctx, args)
	case "exit", "quit":
		return false
	default:
		fmt.Fprintln(sh.out, "Unknown command. Type 'help' for a list of commands.")
	}
	if err != nil {
		sh.report(err)
	}
	return true
}

func (sh *shell) itemCommand(ctx context.Context, args []string) error {
	if args[0] == "add" {
		return sh.add(ctx)
	}
	if len(args) < 2 {
		fmt.Fprintf(sh.out, "Usage: %s <id>\n", args[0])
		return nil
	}
	id := args[1]
	switch args[0] {
	case "show":
		return sh.show(ctx, id)
	case "edit":
		return sh.edit(ctx, id)
	case "delete":
		return sh.remove(ctx, id)
	default:
		return sh.note(ctx, id)
	}
}

func (sh *shell) report(err error) {
	var decErr *api.DecodeError
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		fmt.Fprintln(sh.out, "You are not logged in. Use 'login' first.")
	case errors.Is(err, models.ErrInvalidCredentials):
		fmt.Fprintln(sh.out, "Invalid email or password.")
	case errors.Is(err, models.ErrAlreadyExists):
		fmt.Fprintln(sh.out, "An account with this email already exists.")
	case errors.Is(err, models.ErrForbidden):
		fmt.Fprintln(sh.out, "You are not the owner of this item.")
	case errors.Is(err, models.ErrNotFound):
		fmt.Fprintln(sh.out, "Food item not found.")
	case errors.As(err, &decErr):
		fmt.Fprintln(sh.out, "Server sent malformed data:", decErr)
	case errors.Is(err, io.EOF):
		fmt.Fprintln(sh.out, "Input closed.")
	default:
		fmt.Fprintln(sh.out, "Error:", err)
	}
}

func (sh *shell) register(ctx context.Context) error {
	r, err := sh.prompt.PromptRegistration()
	if err != nil {
		return err
	}
	if err := sh.api.Register(ctx, r.Email, r.Password, r.Name, r.Photo); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Registered. Use 'login' to start a session.")
	return nil
}

func (sh *shell) login(ctx context.Context) error {
	email, err := sh.prompt.Line("Email: ")
	if err != nil {
		return err
	}
	password, err := sh.prompt.Password("Password: ")
	if err != nil {
		return err
	}
	res, err := sh.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := sh.sess.Start(res.Token, res.Email, res.Name); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Logged in as %s\n", displayName(sh.sess))
	return nil
}

func (sh *shell) profile(ctx context.Context, args []string) error {
	if !sh.sess.LoggedIn() {
		return models.ErrUnauthorized
	}
	p, err := sh.api.Profile(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		sh.view.Profile(p.Email, p.Name, p.Photo)
		return nil
	}
	if args[0] != "edit" {
		fmt.Fprintln(sh.out, "Usage: profile [edit]")
		return nil
	}
	name, photo, err := sh.prompt.PromptProfile(*p)
	if err != nil {
		return err
	}
	if p, err = sh.api.UpdateProfile(ctx, name, photo); err != nil {
		return err
	}
	if err := sh.sess.Start(sh.sess.Token(), p.Email, p.Name); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Profile updated")
	sh.view.Profile(p.Email, p.Name, p.Photo)
	return nil
}

func (sh *shell) refresh(ctx context.Context) error {
	err := storage.Refresh(ctx, sh.api, sh.cache)
	if errors.Is(err, storage.ErrStale) {
		return nil
	}
	return err
}

// splitListArgs treats a trailing category name as the category filter and
// the remaining words as the search text.
func splitListArgs(args []string) (search, category string) {
	if n := len(args); n > 0 {
		if c, ok := models.ParseCategory(args[n-1]); ok {
			category = string(c)
			args = args[:n-1]
		}
	}
	return strings.Join(args, " "), category
}

func (sh *shell) list(ctx context.Context, args []string) error {
	search, category := splitListArgs(args)
	items, err := sh.api.ListFoods(ctx, search, category)
	if err != nil {
		var decErr *api.DecodeError
		if errors.As(err, &decErr) {
			return err
		}
		fmt.Fprintln(sh.out, "Server unavailable, showing cached items.")
		items = sh.cache.List(search, category)
	}
	sh.view.Table(items)
	return nil
}

func (sh *shell) mine(ctx context.Context) error {
	items, err := sh.api.MyFoods(ctx)
	if err != nil {
		return err
	}
	sh.view.Table(items)
	return nil
}

func (sh *shell) nearly(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		switch args[0] {
		case "next":
			page = sh.page + 1
		case "prev":
			page = sh.page - 1
		default:
			n, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintln(sh.out, "Usage: nearly [page|next|prev]")
				return nil
			}
			page = n
		}
	}
	items, err := sh.api.ExpiringSoon(ctx)
	if err != nil {
		var decErr *api.DecodeError
		if errors.As(err, &decErr) {
			return err
		}
		fmt.Fprintln(sh.out, "Server unavailable, showing cached items.")
		items = sh.cache.List("", "")
	}
	sh.page = sh.view.NearlyPage(items, page, sh.pageSize)
	return nil
}

// lookup fetches id from the server and keeps the cache in step.
func (sh *shell) lookup(ctx context.Context, id string) (*models.FoodItem, error) {
	item, err := sh.api.GetFood(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		sh.cache.Delete(id)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	sh.cache.Put(*item)
	return item, nil
}

// owned returns id when the current user may change it.
func (sh *shell) owned(ctx context.Context, id string) (*models.FoodItem, error) {
	if !sh.sess.LoggedIn() {
		return nil, models.ErrUnauthorized
	}
	item, err := sh.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanAnnotate(*item, sh.sess.Email()) {
		return nil, models.ErrForbidden
	}
	return item, nil
}

func (sh *shell) show(ctx context.Context, id string) error {
	item, err := sh.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		cached := sh.cache.Get(id)
		if cached == nil {
			return err
		}
		fmt.Fprintln(sh.out, "Server unavailable, showing cached item.")
		sh.view.Details(*cached, nil, sh.sess.Email())
		return nil
	}
	notes, err := sh.api.ListNotes(ctx, id)
	if err != nil {
		return err
	}
	sh.view.Details(*item, notes, sh.sess.Email())
	return nil
}

func (sh *shell) add(ctx context.Context) error {
	if !sh.sess.LoggedIn() {
		return models.ErrUnauthorized
	}
	in, err := sh.prompt.PromptForFood(nil)
	if err != nil {
		return err
	}
	id, err := sh.api.CreateFood(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Food item added:", id)
	return sh.refresh(ctx)
}

func (sh *shell) edit(ctx context.Context, id string) error {
	item, err := sh.owned(ctx, id)
	if err != nil {
		return err
	}
	in, err := sh.prompt.PromptForFood(item)
	if err != nil {
		return err
	}
	if _, err := sh.api.UpdateFood(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Food item updated")
	_, err = sh.lookup(ctx, id)
	return err
}

func (sh *shell) remove(ctx context.Context, id string) error {
	item, err := sh.owned(ctx, id)
	if err != nil {
		return err
	}
	ok, err := sh.prompt.Confirm(fmt.Sprintf("Delete %q?", item.Title))
	if err != nil || !ok {
		return err
	}
	if _, err := sh.api.DeleteFood(ctx, id); err != nil {
		return err
	}
	sh.cache.Delete(id)
	fmt.Fprintln(sh.out, "Food item deleted")
	return sh.cache.Save()
}

func (sh *shell) note(ctx context.Context, id string) error {
	if _, err := sh.owned(ctx, id); err != nil {
		return err
	}
	text, err := sh.prompt.Line("Note: ")
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(sh.out, "Empty note discarded")
		return nil
	}
	if _, err := sh.api.AddNote(ctx, id, text); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Note added")
	return nil
}
