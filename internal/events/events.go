package events

import (
	"context"
	"time"

	"github.com/vbonduro/ecoleta/internal/domain"
)

// PointCreated is emitted once a collection point and its items are committed.
type PointCreated struct {
	PointID   int64     `json:"point_id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	UF        string    `json:"uf"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	ImageURL  string    `json:"image_url"`
	ItemIDs   []int64   `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPointCreated(p *domain.Point, itemIDs []int64, at time.Time) PointCreated {
	return PointCreated{
		PointID:   p.ID,
		Name:      p.Name,
		City:      p.City,
		UF:        p.UF,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		ImageURL:  p.ImageURL,
		ItemIDs:   itemIDs,
		CreatedAt: at.UTC(),
	}
}

type Publisher interface {
	PublishPointCreated(ctx context.Context, ev PointCreated) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishPointCreated(context.Context, PointCreated) error { return nil }
