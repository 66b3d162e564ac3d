// Package geo looks up Brazilian federative units and their municipalities
// from the IBGE localidades API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const DefaultBaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"

type IBGEClient struct {
	baseURL string
	client  *http.Client
}

func NewIBGEClient(baseURL string) *IBGEClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &IBGEClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// UFs returns every state code, sorted.
func (c *IBGEClient) UFs(ctx context.Context) ([]string, error) {
	var states []struct {
		Sigla string `json:"sigla"`
	}
	if err := c.get(ctx, "/estados", &states); err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}

	ufs := make([]string, 0, len(states))
	for _, s := range states {
		ufs = append(ufs, s.Sigla)
	}
	sort.Strings(ufs)
	return ufs, nil
}

// Cities returns the municipality names of uf in the order IBGE lists them.
func (c *IBGEClient) Cities(ctx context.Context, uf string) ([]string, error) {
	if uf == "" {
		return nil, fmt.Errorf("uf is required")
	}

	var municipios []struct {
		Nome string `json:"nome"`
	}
	if err := c.get(ctx, "/estados/"+url.PathEscape(uf)+"/municipios", &municipios); err != nil {
		return nil, fmt.Errorf("failed to list cities of %s: %w", uf, err)
	}

	cities := make([]string, 0, len(municipios))
	for _, m := range municipios {
		cities = append(cities, m.Nome)
	}
	return cities, nil
}

func (c *IBGEClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call ibge: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ibge returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
