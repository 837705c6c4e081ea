package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Message string
	Kind    string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Client talks to the gift exchange HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// UserRow is one registered user
type UserRow struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// GroupRow is one group and its state
type GroupRow struct {
	ID       uint32 `json:"id"`
	IsClosed bool   `json:"is_closed"`
}

// ListUsers returns every user ordered by id
func (c *Client) ListUsers(ctx context.Context) ([]UserRow, error) {
	var raw map[string]string
	if err := c.do(ctx, http.MethodGet, "/users", nil, &raw); err != nil {
		return nil, err
	}
	rows := make([]UserRow, 0, len(raw))
	for k, name := range raw {
		id, err := parseID(k)
		if err != nil {
			return nil, fmt.Errorf("unexpected user id %q in response", k)
		}
		rows = append(rows, UserRow{ID: id, Name: name})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// ListGroups returns every group ordered by id
func (c *Client) ListGroups(ctx context.Context) ([]GroupRow, error) {
	var raw map[string]bool
	if err := c.do(ctx, http.MethodGet, "/groups", nil, &raw); err != nil {
		return nil, err
	}
	rows := make([]GroupRow, 0, len(raw))
	for k, closed := range raw {
		id, err := parseID(k)
		if err != nil {
			return nil, fmt.Errorf("unexpected group id %q in response", k)
		}
		rows = append(rows, GroupRow{ID: id, IsClosed: closed})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// CreateUser registers a user and returns its id
func (c *Client) CreateUser(ctx context.Context, name string) (uint32, error) {
	var resp struct {
		ID uint32 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/user/create", map[string]string{"name": name}, &resp)
	return resp.ID, err
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, userID uint32) error {
	return c.do(ctx, http.MethodPost, "/user/delete", map[string]string{"user_id": formatID(userID)}, nil)
}

// CreateGroup creates a group administered by creatorID and returns its id
func (c *Client) CreateGroup(ctx context.Context, creatorID uint32) (uint32, error) {
	var resp struct {
		GroupID uint32 `json:"group_id"`
	}
	err := c.do(ctx, http.MethodPost, "/group/create", map[string]string{"creator_id": formatID(creatorID)}, &resp)
	return resp.GroupID, err
}

// JoinGroup adds a user to a group
func (c *Client) JoinGroup(ctx context.Context, userID, groupID uint32) error {
	return c.do(ctx, http.MethodPost, "/group/join", map[string]string{
		"user_id":  formatID(userID),
		"group_id": formatID(groupID),
	}, nil)
}

// DemoteAdmin drops the admin right of adminID in the group
func (c *Client) DemoteAdmin(ctx context.Context, adminID, groupID uint32) error {
	return c.do(ctx, http.MethodPost, "/group/unadmin", map[string]string{
		"admin_id": formatID(adminID),
		"group_id": formatID(groupID),
	}, nil)
}

// DeleteGroup removes a group on behalf of one of its admins
func (c *Client) DeleteGroup(ctx context.Context, adminID, groupID uint32) error {
	return c.do(ctx, http.MethodPost, "/group/delete", map[string]string{
		"admin_id": formatID(adminID),
		"group_id": formatID(groupID),
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Kind = payload.Kind
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
