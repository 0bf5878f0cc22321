package client

import (
	"Drive/internal/dto"
	"Drive/internal/services"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DriveAPI is the server surface the reconciler talks to.
type DriveAPI interface {
	GetDrive(ctx context.Context, parent string) (*dto.DriveListingDTO, error)
	CreateFolder(ctx context.Context, parent, name string) (*dto.EntryDTO, error)
	DeleteFilesOrFolders(ctx context.Context, ids []string) error
	MoveFilesOrFolders(ctx context.Context, ids []string, parent string) error
	RenameFileOrFolder(ctx context.Context, id, name string) error
}

// Client wraps HTTP calls to the drive API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	Status     int
	Message    string
	ExistingID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusConflict:
		return target == services.ErrDuplicateName
	case http.StatusNotFound:
		return target == services.ErrNotFound
	}
	return false
}

func (c *Client) GetDrive(ctx context.Context, parent string) (*dto.DriveListingDTO, error) {
	var listing dto.DriveListingDTO
	if err := c.do(ctx, http.MethodGet, "/drive/"+url.PathEscape(parent), nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) CreateFolder(ctx context.Context, parent, name string) (*dto.EntryDTO, error) {
	var folder dto.EntryDTO
	body := map[string]string{"parent": parent, "name": name}
	if err := c.do(ctx, http.MethodPost, "/drive/folders", body, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (c *Client) DeleteFilesOrFolders(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodDelete, "/drive", map[string][]string{"ids": ids}, nil)
}

func (c *Client) MoveFilesOrFolders(ctx context.Context, ids []string, parent string) error {
	body := map[string]interface{}{"ids": ids, "parent": parent}
	return c.do(ctx, http.MethodPatch, "/drive/move", body, nil)
}

func (c *Client) RenameFileOrFolder(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPatch, "/drive/rename", map[string]string{"id": id, "name": name}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error      string `json:"error"`
			ExistingID string `json:"existing_id"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error, ExistingID: errResp.ExistingID}
		}
		return &APIError{Status: resp.StatusCode, Message: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
