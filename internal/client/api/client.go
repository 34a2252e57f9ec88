// Package api is the typed client of the FoodKeeper REST API. Every response
// passes through a decoder that rejects malformed records with *DecodeError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atinyakov/FoodKeeper/internal/models"
)

const (
	apiRegister     = "/api/register"
	apiLogin        = "/api/login"
	apiFoods        = "/api/foods"
	apiMyFoods      = "/api/myfoods"
	apiProfile      = "/api/profile"
	apiExpiringSoon = "/api/foods/expiring-soon"
)

// Session supplies the bearer token and is torn down when the server rejects it.
type Session interface {
	Token() string
	Teardown() error
}

// StatusError is an unexpected HTTP status from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.Code, e.Body)
}

// Client talks to the API at BaseURL.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Session Session
}

// New returns a Client for baseURL.
func New(httpClient *http.Client, baseURL string, s Session) *Client {
	return &Client{HTTP: httpClient, BaseURL: strings.TrimRight(baseURL, "/"), Session: s}
}

// FoodInput is the create/update payload.
type FoodInput struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit,omitempty"`
	Image       string `json:"image,omitempty"`
	ExpiryDate  string `json:"expiryDate"`
	Description string `json:"description,omitempty"`
}

// LoginResult is the session data returned by Login.
type LoginResult struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo"`
}

// Profile is the signed-in user's public account data.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, auth bool) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := ""
		if c.Session != nil {
			token = c.Session.Token()
		}
		if token == "" {
			return nil, models.ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return nil, models.ErrForbidden
	case resp.StatusCode == http.StatusConflict:
		return nil, models.ErrAlreadyExists
	case resp.StatusCode == http.StatusUnauthorized:
		if !auth {
			return nil, models.ErrInvalidCredentials
		}
		// The server no longer accepts this session.
		if c.Session != nil {
			_ = c.Session.Teardown()
		}
		return nil, models.ErrUnauthorized
	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
}

func decodeInto(what string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return &DecodeError{What: what, Index: -1, Err: err}
	}
	return nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password, name, photo string) error {
	_, err := c.do(ctx, http.MethodPost, apiRegister, nil, map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"photo":    photo,
	}, false)
	return err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	data, err := c.do(ctx, http.MethodPost, apiLogin, nil, map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := decodeInto("login", data, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.Email == "" {
		return nil, &DecodeError{What: "login", Index: -1, Field: "token", Err: errRequired}
	}
	return &res, nil
}

// Profile returns the signed-in user's account.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	data, err := c.do(ctx, http.MethodGet, apiProfile, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeProfile(data)
}

// UpdateProfile sets the display name and photo URL and returns the result.
func (c *Client) UpdateProfile(ctx context.Context, name, photo string) (*Profile, error) {
	data, err := c.do(ctx, http.MethodPut, apiProfile, nil, map[string]string{
		"name":  name,
		"photo": photo,
	}, true)
	if err != nil {
		return nil, err
	}
	return decodeProfile(data)
}

func decodeProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := decodeInto("profile", data, &p); err != nil {
		return nil, err
	}
	if p.Email == "" {
		return nil, &DecodeError{What: "profile", Index: -1, Field: "email", Err: errRequired}
	}
	return &p, nil
}

// ListFoods returns all items matching search (title or category) and category.
func (c *Client) ListFoods(ctx context.Context, search, category string) ([]models.FoodItem, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if category != "" {
		q.Set("category", category)
	}
	data, err := c.do(ctx, http.MethodGet, apiFoods, q, nil, false)
	if err != nil {
		return nil, err
	}
	return DecodeFoods(data)
}

// MyFoods returns the signed-in user's items.
func (c *Client) MyFoods(ctx context.Context) ([]models.FoodItem, error) {
	data, err := c.do(ctx, http.MethodGet, apiMyFoods, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return DecodeFoods(data)
}

// ExpiringSoon returns the server's list of nearly expiring and expired items.
func (c *Client) ExpiringSoon(ctx context.Context) ([]models.FoodItem, error) {
	data, err := c.do(ctx, http.MethodGet, apiExpiringSoon, nil, nil, false)
	if err != nil {
		return nil, err
	}
	return DecodeFoods(data)
}

// GetFood returns a single item.
func (c *Client) GetFood(ctx context.Context, id string) (*models.FoodItem, error) {
	data, err := c.do(ctx, http.MethodGet, apiFoods+"/"+url.PathEscape(id), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return DecodeFood(data)
}

// CreateFood adds an item owned by the signed-in user and returns its id.
func (c *Client) CreateFood(ctx context.Context, in FoodInput) (string, error) {
	data, err := c.do(ctx, http.MethodPost, apiFoods, nil, in, true)
	if err != nil {
		return "", err
	}
	return decodeInsertedID("food", data)
}

// UpdateFood replaces the editable fields of item id.
func (c *Client) UpdateFood(ctx context.Context, id string, in FoodInput) (int64, error) {
	data, err := c.do(ctx, http.MethodPut, apiFoods+"/"+url.PathEscape(id), nil, in, true)
	if err != nil {
		return 0, err
	}
	var res struct {
		ModifiedCount *int64 `json:"modifiedCount"`
	}
	if err := decodeInto("update", data, &res); err != nil {
		return 0, err
	}
	if res.ModifiedCount == nil {
		return 0, &DecodeError{What: "update", Index: -1, Field: "modifiedCount", Err: errRequired}
	}
	return *res.ModifiedCount, nil
}

// DeleteFood removes item id.
func (c *Client) DeleteFood(ctx context.Context, id string) (int64, error) {
	data, err := c.do(ctx, http.MethodDelete, apiFoods+"/"+url.PathEscape(id), nil, nil, true)
	if err != nil {
		return 0, err
	}
	var res struct {
		DeletedCount *int64 `json:"deletedCount"`
	}
	if err := decodeInto("delete", data, &res); err != nil {
		return 0, err
	}
	if res.DeletedCount == nil {
		return 0, &DecodeError{What: "delete", Index: -1, Field: "deletedCount", Err: errRequired}
	}
	return *res.DeletedCount, nil
}

// ListNotes returns the notes of item id, oldest first.
func (c *Client) ListNotes(ctx context.Context, id string) ([]models.Note, error) {
	data, err := c.do(ctx, http.MethodGet, apiFoods+"/"+url.PathEscape(id)+"/notes", nil, nil, false)
	if err != nil {
		return nil, err
	}
	return DecodeNotes(data)
}

// AddNote appends a note to item id and returns the note id.
func (c *Client) AddNote(ctx context.Context, id, text string) (string, error) {
	data, err := c.do(ctx, http.MethodPost, apiFoods+"/"+url.PathEscape(id)+"/notes", nil, map[string]string{"text": text}, true)
	if err != nil {
		return "", err
	}
	return decodeInsertedID("note", data)
}

func decodeInsertedID(what string, data []byte) (string, error) {
	var res struct {
		InsertedID string `json:"insertedId"`
	}
	if err := decodeInto(what, data, &res); err != nil {
		return "", err
	}
	if res.InsertedID == "" {
		return "", &DecodeError{What: what, Index: -1, Field: "insertedId", Err: errRequired}
	}
	return res.InsertedID, nil
}
