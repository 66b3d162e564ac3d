package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/ecoleta/internal/domain"
)

const pointColumns = `p.id, p.image, p.name, p.email, p.whatsapp, p.latitude, p.longitude, p.city, p.uf`

type PointStore struct {
	db *sql.DB
}

func NewPointStore(db *sql.DB) *PointStore {
	return &PointStore{db: db}
}

// Create inserts the point and one point_items row per distinct item id in a
// single transaction. Nothing is written unless every insert succeeds.
func (s *PointStore) Create(ctx context.Context, np *domain.NewPoint) (*domain.Point, error) {
	itemIDs := uniqueIDs(np.ItemIDs)
	if len(itemIDs) == 0 {
		return nil, domain.ErrNoItems
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Returns sql.ErrTxDone after a successful commit.
		_ = tx.Rollback()
	}()

	var known int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE id IN (`+placeholders(len(itemIDs))+`)`,
		int64Args(itemIDs)...,
	).Scan(&known); err != nil {
		return nil, fmt.Errorf("failed to check items: %w", err)
	}
	if known != len(itemIDs) {
		return nil, domain.ErrUnknownItem
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO points (image, name, email, whatsapp, latitude, longitude, city, uf)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, np.Image, np.Name, np.Email, np.Whatsapp, np.Latitude, np.Longitude, np.City, np.UF)
	if err != nil {
		return nil, fmt.Errorf("failed to create point: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO point_items (point_id, item_id) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare point item insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("failed to close statement", "error", err)
		}
	}()

	for _, itemID := range itemIDs {
		if _, err := stmt.ExecContext(ctx, id, itemID); err != nil {
			return nil, fmt.Errorf("failed to create point item %d: %w", itemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit point: %w", err)
	}

	return &domain.Point{
		ID:        id,
		Image:     np.Image,
		Name:      np.Name,
		Email:     np.Email,
		Whatsapp:  np.Whatsapp,
		Latitude:  np.Latitude,
		Longitude: np.Longitude,
		City:      np.City,
		UF:        np.UF,
	}, nil
}

func (s *PointStore) GetByID(ctx context.Context, id int64) (*domain.Point, error) {
	p := &domain.Point{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+pointColumns+` FROM points p WHERE p.id = ?
	`, id).Scan(&p.ID, &p.Image, &p.Name, &p.Email, &p.Whatsapp, &p.Latitude, &p.Longitude, &p.City, &p.UF)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}

	return p, nil
}

// List returns the points matching every non-empty field of filter. A point
// accepting several of the requested items appears once.
func (s *PointStore) List(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	query := `SELECT DISTINCT ` + pointColumns + ` FROM points p`
	var (
		conds []string
		args  []any
	)

	if ids := uniqueIDs(filter.ItemIDs); len(ids) > 0 {
		query += ` JOIN point_items pi ON pi.point_id = p.id`
		conds = append(conds, `pi.item_id IN (`+placeholders(len(ids))+`)`)
		args = append(args, int64Args(ids)...)
	}
	if filter.City != "" {
		conds = append(conds, `p.city = ?`)
		args = append(args, filter.City)
	}
	if filter.UF != "" {
		conds = append(conds, `p.uf = ?`)
		args = append(args, filter.UF)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY p.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	points := make([]*domain.Point, 0)
	for rows.Next() {
		p := &domain.Point{}
		if err := rows.Scan(&p.ID, &p.Image, &p.Name, &p.Email, &p.Whatsapp, &p.Latitude, &p.Longitude, &p.City, &p.UF); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}

	return points, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
