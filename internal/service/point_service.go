package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/ecoleta/internal/domain"
	"github.com/vbonduro/ecoleta/internal/events"
	"github.com/vbonduro/ecoleta/internal/photostore"
)

const publishTimeout = 5 * time.Second

// pointRepository is the subset of store.PointStore that PointService requires.
type pointRepository interface {
	Create(ctx context.Context, np *domain.NewPoint) (*domain.Point, error)
	GetByID(ctx context.Context, id int64) (*domain.Point, error)
	List(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error)
}

// itemRepository is the subset of store.ItemStore that PointService requires.
type itemRepository interface {
	List(ctx context.Context) ([]*domain.Item, error)
	ListByPointID(ctx context.Context, pointID int64) ([]*domain.Item, error)
}

type PointService struct {
	pointStore pointRepository
	itemStore  itemRepository
	photoStg   photostore.PhotoStore
	publisher  events.Publisher
	uploadsURL string
	logger     *slog.Logger
	now        func() time.Time
}

// NewPointService builds the service. uploadsURL is prepended to stored image
// filenames to form the image_url of every returned point and item.
func NewPointService(
	pointStore pointRepository,
	itemStore itemRepository,
	photoStg photostore.PhotoStore,
	publisher events.Publisher,
	uploadsURL string,
	logger *slog.Logger,
) *PointService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &PointService{
		pointStore: pointStore,
		itemStore:  itemStore,
		photoStg:   photoStg,
		publisher:  publisher,
		uploadsURL: uploadsURL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *PointService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.itemStore.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.ImageURL = s.imageURL(item.Image)
	}
	return items, nil
}

func (s *PointService) ListPoints(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	points, err := s.pointStore.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		p.ImageURL = s.imageURL(p.Image)
	}
	return points, nil
}

// GetPoint returns the point with every item it accepts, or
// domain.ErrPointNotFound.
func (s *PointService) GetPoint(ctx context.Context, id int64) (*domain.PointDetail, error) {
	point, err := s.pointStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}
	if point == nil {
		return nil, domain.ErrPointNotFound
	}
	point.ImageURL = s.imageURL(point.Image)

	items, err := s.itemStore.ListByPointID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	for _, item := range items {
		item.ImageURL = s.imageURL(item.Image)
	}

	return &domain.PointDetail{Point: point, Items: items}, nil
}

// CreatePoint stores the image, then inserts the point and its items
// atomically. The stored image is removed again if the insert fails.
func (s *PointService) CreatePoint(ctx context.Context, np *domain.NewPoint, imageData []byte, mimeType string) (*domain.Point, error) {
	if len(np.ItemIDs) == 0 {
		return nil, domain.ErrNoItems
	}
	s.logger.Info("create point started", "name", np.Name, "city", np.City, "uf", np.UF, "items", len(np.ItemIDs))

	filename, err := s.photoStg.Save(ctx, mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	s.logger.Debug("image saved", "filename", filename, "bytes", len(imageData))

	np.Image = filename
	point, err := s.pointStore.Create(ctx, np)
	if err != nil {
		if derr := s.photoStg.Delete(ctx, filename); derr != nil {
			s.logger.Error("failed to remove image after create error", "filename", filename, "error", derr)
		}
		return nil, err
	}
	point.ImageURL = s.imageURL(point.Image)

	s.publishCreated(ctx, point, np.ItemIDs)

	s.logger.Info("create point complete", "point_id", point.ID)
	return point, nil
}

// publishCreated notifies subscribers. The point is already committed, so a
// failure is only logged.
func (s *PointService) publishCreated(ctx context.Context, point *domain.Point, itemIDs []int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := events.NewPointCreated(point, itemIDs, s.now())
	if err := s.publisher.PublishPointCreated(ctx, ev); err != nil {
		s.logger.Error("failed to publish point created", "point_id", point.ID, "error", err)
	}
}

func (s *PointService) imageURL(filename string) string {
	return s.uploadsURL + filename
}
