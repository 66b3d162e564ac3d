package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/ecoleta/internal/client"
	"github.com/vbonduro/ecoleta/internal/domain"
)

type fakeAPI struct {
	items     []*domain.Item
	listErr   error
	createErr error
	requests  []*client.CreatePointRequest
}

func (a *fakeAPI) ListItems(context.Context) ([]*domain.Item, error) {
	return a.items, a.listErr
}

func (a *fakeAPI) CreatePoint(_ context.Context, req *client.CreatePointRequest) (*domain.Point, error) {
	a.requests = append(a.requests, req)
	if a.createErr != nil {
		return nil, a.createErr
	}
	return &domain.Point{ID: int64(len(a.requests)), Name: req.Name, City: req.City, UF: req.UF}, nil
}

type fakeGeo struct {
	cities    map[string][]string
	cityCalls []string
	citiesErr error
}

func (g *fakeGeo) UFs(context.Context) ([]string, error) {
	return []string{"PE", "SP"}, nil
}

func (g *fakeGeo) Cities(_ context.Context, uf string) ([]string, error) {
	g.cityCalls = append(g.cityCalls, uf)
	if g.citiesErr != nil {
		return nil, g.citiesErr
	}
	return g.cities[uf], nil
}

func newTestForm() (*Form, *fakeAPI, *fakeGeo) {
	api := &fakeAPI{items: []*domain.Item{
		{ID: 1, Title: "Lâmpadas"},
		{ID: 2, Title: "Pilhas e Baterias"},
		{ID: 3, Title: "Papéis e Papelão"},
	}}
	geo := &fakeGeo{cities: map[string][]string{
		"PE": {"Recife", "Olinda"},
		"SP": {"São Paulo", "Campinas"},
	}}
	return New(api, geo), api, geo
}

// filledForm walks the form the way a user would.
func filledForm(t *testing.T) (*Form, *fakeAPI) {
	t.Helper()
	ctx := context.Background()
	f, api, _ := newTestForm()

	f.Locate(-8.05, -34.9)
	require.NoError(t, f.LoadItems(ctx))
	require.NoError(t, f.LoadUFs(ctx))
	require.NoError(t, f.SelectUF(ctx, "PE"))
	require.NoError(t, f.SelectCity("Recife"))
	f.ClickMap(-8.0476, -34.877)
	require.NoError(t, f.SetField("name", "Mercado do Zé"))
	require.NoError(t, f.SetField("email", "ze@example.com"))
	require.NoError(t, f.SetField("whatsapp", "81988887777"))
	f.SetImage("fachada.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, f.ToggleItem(1))
	require.NoError(t, f.ToggleItem(3))
	return f, api
}

func TestLocate(t *testing.T) {
	f, _, _ := newTestForm()

	_, ok := f.InitialPosition()
	assert.False(t, ok)

	f.Locate(-23.55, -46.63)
	pos, ok := f.InitialPosition()
	assert.True(t, ok)
	assert.Equal(t, Position{Latitude: -23.55, Longitude: -46.63}, pos)
}

func TestLoadItems(t *testing.T) {
	f, api, _ := newTestForm()
	assert.False(t, f.ItemsLoaded())

	require.NoError(t, f.LoadItems(context.Background()))
	assert.True(t, f.ItemsLoaded())
	assert.Len(t, f.Items(), 3)

	api.listErr = errors.New("connection refused")
	g, _, _ := newTestForm()
	g.api = api
	assert.Error(t, g.LoadItems(context.Background()))
	assert.False(t, g.ItemsLoaded())
}

func TestSelectUFLoadsCitiesAndClearsCity(t *testing.T) {
	ctx := context.Background()
	f, _, geo := newTestForm()
	require.NoError(t, f.LoadUFs(ctx))
	assert.Equal(t, []string{"PE", "SP"}, f.UFs())

	require.NoError(t, f.SelectUF(ctx, "PE"))
	assert.Equal(t, []string{"Recife", "Olinda"}, f.Cities())
	require.NoError(t, f.SelectCity("Olinda"))

	require.NoError(t, f.SelectUF(ctx, "SP"))
	assert.Equal(t, "SP", f.UF())
	assert.Empty(t, f.City())
	assert.Equal(t, []string{"São Paulo", "Campinas"}, f.Cities())

	// Reselecting the same UF does not refetch.
	require.NoError(t, f.SelectUF(ctx, "SP"))
	assert.Equal(t, []string{"PE", "SP"}, geo.cityCalls)

	require.NoError(t, f.SelectUF(ctx, ""))
	assert.Empty(t, f.Cities())
}

func TestSelectUFFailure(t *testing.T) {
	f, _, geo := newTestForm()
	geo.citiesErr = errors.New("ibge down")

	err := f.SelectUF(context.Background(), "PE")
	assert.Error(t, err)
	assert.Equal(t, "PE", f.UF())
	assert.Empty(t, f.Cities())
}

func TestSelectCityMustBelongToUF(t *testing.T) {
	f, _, _ := newTestForm()
	require.NoError(t, f.SelectUF(context.Background(), "PE"))

	err := f.SelectCity("Campinas")
	assert.ErrorIs(t, err, ErrUnknownCity)
	assert.Empty(t, f.City())

	require.NoError(t, f.SelectCity("Recife"))
	assert.Equal(t, "Recife", f.City())
}

func TestToggleItem(t *testing.T) {
	f, _, _ := newTestForm()
	require.NoError(t, f.LoadItems(context.Background()))

	require.NoError(t, f.ToggleItem(2))
	before := f.SelectedItems()
	assert.Equal(t, []int64{2}, before)

	require.NoError(t, f.ToggleItem(3))
	assert.True(t, f.IsSelected(3))
	require.NoError(t, f.ToggleItem(3))
	assert.False(t, f.IsSelected(3))
	assert.Equal(t, before, f.SelectedItems())

	assert.ErrorIs(t, f.ToggleItem(99), ErrUnknownItem)
	assert.Equal(t, before, f.SelectedItems())
}

func TestSelectedItemsIsACopy(t *testing.T) {
	f, _, _ := newTestForm()
	require.NoError(t, f.ToggleItem(1))

	got := f.SelectedItems()
	got[0] = 42
	assert.Equal(t, []int64{1}, f.SelectedItems())
}

func TestSetField(t *testing.T) {
	f, _, _ := newTestForm()

	require.NoError(t, f.SetField("email", "ze@example.com"))
	assert.Equal(t, "ze@example.com", f.Field("email"))
	assert.ErrorIs(t, f.SetField("fax", "123"), ErrUnknownField)
}

func TestSubmit(t *testing.T) {
	f, api := filledForm(t)

	point, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), point.ID)
	assert.Same(t, point, f.Created())

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, "Mercado do Zé", req.Name)
	assert.Equal(t, "ze@example.com", req.Email)
	assert.Equal(t, "81988887777", req.Whatsapp)
	assert.Equal(t, "Recife", req.City)
	assert.Equal(t, "PE", req.UF)
	assert.Equal(t, -8.0476, req.Latitude)
	assert.Equal(t, -34.877, req.Longitude)
	assert.Equal(t, []int64{1, 3}, req.Items)
	assert.Equal(t, "fachada.jpg", req.ImageName)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, req.Image)
}

func TestSubmitRequiresItems(t *testing.T) {
	f, api := filledForm(t)
	require.NoError(t, f.ToggleItem(1))
	require.NoError(t, f.ToggleItem(3))

	_, err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"items"}, verr.Missing)
	assert.Empty(t, api.requests)
}

func TestSubmitReportsEveryMissingField(t *testing.T) {
	f, api, _ := newTestForm()

	_, err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name", "email", "whatsapp", "uf", "city", "position", "items", "image"}, verr.Missing)
	assert.Empty(t, api.requests)
}

func TestSubmitAPIError(t *testing.T) {
	f, api := filledForm(t)
	api.createErr = &client.Error{Status: 400, Message: "validation failed"}

	_, err := f.Submit(context.Background())
	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Nil(t, f.Created())
}
