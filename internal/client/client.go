// Package client talks to the collection point API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/ecoleta/internal/domain"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned for every non-2xx API response.
type Error struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Message)
	}
	return fmt.Sprintf("api returned status %d: %s: %s", e.Status, e.Message, strings.Join(parts, "; "))
}

// CreatePointRequest is the data of a new collection point. Image holds the
// raw bytes of the photo uploaded as ImageName.
type CreatePointRequest struct {
	Name      string
	Email     string
	Whatsapp  string
	Latitude  float64
	Longitude float64
	City      string
	UF        string
	Items     []int64
	ImageName string
	Image     []byte
}

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) ListItems(ctx context.Context) ([]*domain.Item, error) {
	var items []*domain.Item
	if err := c.get(ctx, "/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListPoints(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	q := url.Values{}
	if filter.City != "" {
		q.Set("city", filter.City)
	}
	if filter.UF != "" {
		q.Set("uf", filter.UF)
	}
	if len(filter.ItemIDs) > 0 {
		q.Set("items", joinIDs(filter.ItemIDs))
	}
	path := "/points"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var points []*domain.Point
	if err := c.get(ctx, path, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) GetPoint(ctx context.Context, id int64) (*domain.PointDetail, error) {
	var detail domain.PointDetail
	if err := c.get(ctx, "/points/"+strconv.FormatInt(id, 10), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreatePoint posts req as a multipart form with the item ids comma-joined.
func (c *Client) CreatePoint(ctx context.Context, req *CreatePointRequest) (*domain.Point, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{"name", req.Name},
		{"email", req.Email},
		{"whatsapp", req.Whatsapp},
		{"latitude", strconv.FormatFloat(req.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(req.Longitude, 'f', -1, 64)},
		{"city", req.City},
		{"uf", req.UF},
		{"items", joinIDs(req.Items)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	if req.Image != nil {
		name := req.ImageName
		if name == "" {
			name = "image"
		}
		fw, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := fw.Write(req.Image); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/points", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var point domain.Point
	if err := c.do(httpReq, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
