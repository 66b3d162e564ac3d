// Package form holds the state of the point registration form: reference
// data loaded from the API and IBGE, the map position, the selected items and
// the typed fields. A Form is not safe for concurrent use.
package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/ecoleta/internal/client"
	"github.com/vbonduro/ecoleta/internal/domain"
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrUnknownCity  = errors.New("city not listed for the selected uf")
	ErrUnknownItem  = errors.New("item not in catalog")
)

// API is the subset of client.Client the form needs.
type API interface {
	ListItems(ctx context.Context) ([]*domain.Item, error)
	CreatePoint(ctx context.Context, req *client.CreatePointRequest) (*domain.Point, error)
}

// Geo supplies state codes and their cities.
type Geo interface {
	UFs(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, uf string) ([]string, error)
}

type Position struct {
	Latitude  float64
	Longitude float64
}

// ValidationError lists the fields that must be filled before submitting.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

type Form struct {
	api API
	geo Geo

	items       []*domain.Item
	itemsLoaded bool
	ufs         []string
	cities      []string

	initial     Position
	located     bool
	selected    Position
	mapClicked  bool
	uf          string
	city        string
	selectedIDs []int64

	name      string
	email     string
	whatsapp  string
	imageName string
	image     []byte

	created *domain.Point
}

func New(api API, geo Geo) *Form {
	return &Form{api: api, geo: geo}
}

// Locate records the device position used to center the map.
func (f *Form) Locate(lat, lng float64) {
	f.initial = Position{Latitude: lat, Longitude: lng}
	f.located = true
}

func (f *Form) InitialPosition() (Position, bool) {
	return f.initial, f.located
}

func (f *Form) LoadItems(ctx context.Context) error {
	items, err := f.api.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	f.items = items
	f.itemsLoaded = true
	return nil
}

func (f *Form) Items() []*domain.Item {
	return f.items
}

func (f *Form) ItemsLoaded() bool {
	return f.itemsLoaded
}

func (f *Form) LoadUFs(ctx context.Context) error {
	ufs, err := f.geo.UFs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ufs: %w", err)
	}
	f.ufs = ufs
	return nil
}

func (f *Form) UFs() []string {
	return f.ufs
}

// SelectUF changes the state and reloads its cities. The selected city
// always belongs to the previous state, so it is cleared.
func (f *Form) SelectUF(ctx context.Context, uf string) error {
	if uf == f.uf {
		return nil
	}
	f.uf = uf
	f.city = ""
	f.cities = nil
	if uf == "" {
		return nil
	}

	cities, err := f.geo.Cities(ctx, uf)
	if err != nil {
		return fmt.Errorf("failed to load cities: %w", err)
	}
	f.cities = cities
	return nil
}

func (f *Form) UF() string {
	return f.uf
}

func (f *Form) Cities() []string {
	return f.cities
}

func (f *Form) SelectCity(city string) error {
	if city != "" && !slices.Contains(f.cities, city) {
		return fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	f.city = city
	return nil
}

func (f *Form) City() string {
	return f.city
}

// ClickMap sets the point position.
func (f *Form) ClickMap(lat, lng float64) {
	f.selected = Position{Latitude: lat, Longitude: lng}
	f.mapClicked = true
}

func (f *Form) SelectedPosition() Position {
	return f.selected
}

// SetField sets one of the typed fields: name, email or whatsapp.
func (f *Form) SetField(name, value string) error {
	switch name {
	case "name":
		f.name = value
	case "email":
		f.email = value
	case "whatsapp":
		f.whatsapp = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func (f *Form) Field(name string) string {
	switch name {
	case "name":
		return f.name
	case "email":
		return f.email
	case "whatsapp":
		return f.whatsapp
	}
	return ""
}

func (f *Form) SetImage(filename string, data []byte) {
	f.imageName = filename
	f.image = data
}

// ToggleItem selects id if it is not selected and deselects it otherwise.
// Once the catalog is loaded, ids outside it are rejected.
func (f *Form) ToggleItem(id int64) error {
	if f.itemsLoaded && !slices.ContainsFunc(f.items, func(it *domain.Item) bool { return it.ID == id }) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	if i := slices.Index(f.selectedIDs, id); i >= 0 {
		f.selectedIDs = slices.Delete(f.selectedIDs, i, i+1)
		return nil
	}
	f.selectedIDs = append(f.selectedIDs, id)
	return nil
}

func (f *Form) IsSelected(id int64) bool {
	return slices.Contains(f.selectedIDs, id)
}

// SelectedItems returns the selected ids in the order they were selected.
func (f *Form) SelectedItems() []int64 {
	return slices.Clone(f.selectedIDs)
}

// Validate reports every required field still missing.
func (f *Form) Validate() error {
	var missing []string
	for _, field := range []struct {
		name string
		ok   bool
	}{
		{"name", strings.TrimSpace(f.name) != ""},
		{"email", strings.TrimSpace(f.email) != ""},
		{"whatsapp", strings.TrimSpace(f.whatsapp) != ""},
		{"uf", f.uf != ""},
		{"city", f.city != ""},
		{"position", f.mapClicked},
		{"items", len(f.selectedIDs) > 0},
		{"image", len(f.image) > 0},
	} {
		if !field.ok {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Submit posts the form and returns the created point.
func (f *Form) Submit(ctx context.Context) (*domain.Point, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	point, err := f.api.CreatePoint(ctx, f.request())
	if err != nil {
		return nil, fmt.Errorf("failed to create point: %w", err)
	}
	f.created = point
	return point, nil
}

// Created is the point returned by the last successful Submit, if any.
func (f *Form) Created() *domain.Point {
	return f.created
}

func (f *Form) request() *client.CreatePointRequest {
	return &client.CreatePointRequest{
		Name:      strings.TrimSpace(f.name),
		Email:     strings.TrimSpace(f.email),
		Whatsapp:  strings.TrimSpace(f.whatsapp),
		Latitude:  f.selected.Latitude,
		Longitude: f.selected.Longitude,
		City:      f.city,
		UF:        f.uf,
		Items:     slices.Clone(f.selectedIDs),
		ImageName: f.imageName,
		Image:     f.image,
	}
}
