package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/FoodKeeper/internal/client/api"
	"github.com/atinyakov/FoodKeeper/internal/client/session"
	"github.com/atinyakov/FoodKeeper/internal/client/storage"
	"github.com/atinyakov/FoodKeeper/internal/client/view"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func respondJSON(t *testing.T, v any) *http.Response {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return respond(http.StatusOK, string(b))
}

func newShell(t *testing.T, input string, fn roundTripperFunc) (*shell, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	sess := session.New(filepath.Join(dir, "session.json"))
	sh := &shell{
		api:      api.New(&http.Client{Transport: fn, Timeout: time.Second}, "http://example.com", sess),
		sess:     sess,
		cache:    storage.NewLocalStorage(filepath.Join(dir, "storage.json")),
		prompt:   storage.NewPrompter(strings.NewReader(input), &out),
		view:     view.New(&out, 7),
		out:      &out,
		pageSize: 4,
	}
	return sh, &out
}

func milk(owner string) models.FoodItem {
	exp := time.Now().AddDate(0, 0, 2)
	return models.FoodItem{
		ID: "f1", Title: "Milk", Category: models.Dairy, Quantity: 1,
		ExpiryDate: &exp, OwnerEmail: owner,
	}
}

func TestShell_HelpAndExit(t *testing.T) {
	sh, out := newShell(t, "help\nbogus\nexit\nlist\n", nil)
	sh.run(context.Background())

	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, out.String(), "Unknown command")
	assert.True(t, strings.HasSuffix(out.String(), "Bye\n"))
}

func TestShell_Login(t *testing.T) {
	sh, out := newShell(t, "ann@example.com\nsecret1\n", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/login", req.URL.Path)
		return respond(http.StatusOK, `{"token":"tok","email":"ann@example.com","name":"Ann"}`), nil
	})

	sh.exec(context.Background(), []string{"login"})

	assert.Contains(t, out.String(), "Logged in as Ann")
	assert.True(t, sh.sess.LoggedIn())
	assert.Equal(t, "tok", sh.sess.Token())
}

func TestShell_LoginInvalid(t *testing.T) {
	sh, out := newShell(t, "ann@example.com\nwrong\n", func(*http.Request) (*http.Response, error) {
		return respond(http.StatusUnauthorized, "invalid credentials"), nil
	})

	sh.exec(context.Background(), []string{"login"})

	assert.Contains(t, out.String(), "Invalid email or password.")
	assert.False(t, sh.sess.LoggedIn())
}

func TestShell_EditRefusedForOtherOwner(t *testing.T) {
	var methods []string
	sh, out := newShell(t, "", func(req *http.Request) (*http.Response, error) {
		methods = append(methods, req.Method)
		return respondJSON(t, milk("bob@example.com")), nil
	})
	require.NoError(t, sh.sess.Start("tok", "ann@example.com", "Ann"))

	for _, cmd := range []string{"edit", "delete", "note"} {
		sh.exec(context.Background(), []string{cmd, "f1"})
	}

	assert.Equal(t, 3, strings.Count(out.String(), "You are not the owner of this item."))
	assert.Equal(t, []string{http.MethodGet, http.MethodGet, http.MethodGet}, methods)
}

func TestShell_EditRequiresLogin(t *testing.T) {
	sh, out := newShell(t, "", func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	sh.exec(context.Background(), []string{"edit", "f1"})
	sh.exec(context.Background(), []string{"add"})

	assert.Equal(t, 2, strings.Count(out.String(), "You are not logged in."))
}

func TestShell_DeleteOwned(t *testing.T) {
	var deleted bool
	sh, out := newShell(t, "y\n", func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodDelete {
			deleted = true
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			return respond(http.StatusOK, `{"deletedCount":1}`), nil
		}
		return respondJSON(t, milk("ann@example.com")), nil
	})
	require.NoError(t, sh.sess.Start("tok", "ann@example.com", "Ann"))

	sh.exec(context.Background(), []string{"delete", "f1"})

	assert.True(t, deleted)
	assert.Contains(t, out.String(), "Food item deleted")
	assert.Nil(t, sh.cache.Get("f1"))
}

func TestShell_ListFallsBackToCache(t *testing.T) {
	sh, out := newShell(t, "", func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	sh.cache.Put(milk("ann@example.com"))
	sh.cache.Put(models.FoodItem{ID: "f2", Title: "Steak", Category: models.Meat, Quantity: 1})

	sh.exec(context.Background(), []string{"list", "Dairy"})

	assert.Contains(t, out.String(), "Server unavailable")
	assert.Contains(t, out.String(), "Milk")
	assert.NotContains(t, out.String(), "Steak")
}

func TestShell_Nearly(t *testing.T) {
	sh, out := newShell(t, "", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/foods/expiring-soon", req.URL.Path)
		return respondJSON(t, []models.FoodItem{milk("ann@example.com")}), nil
	})

	sh.exec(context.Background(), []string{"nearly"})
	assert.Contains(t, out.String(), "Expiring soon: 1  Expired: 0")
	assert.Contains(t, out.String(), "Page 1 of 1")
	assert.Equal(t, 1, sh.page)

	sh.exec(context.Background(), []string{"nearly", "next"})
	assert.Equal(t, 1, sh.page)
}

func TestShell_NearlyOfflineUsesCache(t *testing.T) {
	sh, out := newShell(t, "", func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	sh.cache.Put(milk("ann@example.com"))

	sh.exec(context.Background(), []string{"nearly"})

	assert.Contains(t, out.String(), "Server unavailable")
	assert.Contains(t, out.String(), "Expiring soon: 1  Expired: 0")
}

func TestShell_ProfileEdit(t *testing.T) {
	var sent map[string]string
	sh, out := newShell(t, "Ann B\nhttps://img/a.png\n", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/profile", req.URL.Path)
		if req.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
			return respond(http.StatusOK, `{"email":"ann@example.com","name":"Ann B","photo":"https://img/a.png"}`), nil
		}
		return respond(http.StatusOK, `{"email":"ann@example.com","name":"Ann","photo":""}`), nil
	})
	require.NoError(t, sh.sess.Start("tok", "ann@example.com", "Ann"))

	sh.exec(context.Background(), []string{"profile"})
	assert.Contains(t, out.String(), "Name:  Ann")

	sh.exec(context.Background(), []string{"profile", "edit"})
	assert.Contains(t, out.String(), "Profile updated")
	assert.Equal(t, map[string]string{"name": "Ann B", "photo": "https://img/a.png"}, sent)
	assert.Equal(t, "Ann B", sh.sess.Name())
	assert.Equal(t, "tok", sh.sess.Token())
}

func TestShell_ProfileRequiresLogin(t *testing.T) {
	sh, out := newShell(t, "", func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	sh.exec(context.Background(), []string{"profile"})
	assert.Contains(t, out.String(), "You are not logged in.")
}

func TestSplitListArgs(t *testing.T) {
	tests := []struct {
		args     []string
		search   string
		category string
	}{
		{nil, "", ""},
		{[]string{"milk"}, "milk", ""},
		{[]string{"meat"}, "", "Meat"},
		{[]string{"greek", "yogurt", "dairy"}, "greek yogurt", "Dairy"},
	}
	for _, tt := range tests {
		s, c := splitListArgs(tt.args)
		assert.Equal(t, tt.search, s)
		assert.Equal(t, tt.category, c)
	}
}
