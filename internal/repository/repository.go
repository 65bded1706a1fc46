package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/models"
)

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	FetchPhotosForGeotagging(ctx context.Context, limit int) ([]models.Photo, error)
	UpdatePhotoLocation(ctx context.Context, photoID int, coord geo.Coordinate, place *models.Place) error
	IncrementFailureCount(ctx context.Context, photoID int, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
