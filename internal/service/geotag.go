package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/geotag"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/internal/repository"
)

// batchSize is the maximum number of photos fetched per polling round.
const batchSize = 100

// ErrNullIsland is recorded for photos whose GPS tags resolve to 0°, 0°,
// the value cameras write when they have no fix.
var ErrNullIsland = errors.New("gps tags resolve to the origin (0, 0)")

// GeotagService resolves the raw GPS tags of stored photos into coordinates,
// optionally looks up a place name for them, and persists the result.
type GeotagService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Interface for data repository access
	provider     geocoding.Provider   // Reverse geocoding provider, nil disables lookups
	providerName string               // Name of the provider for metrics labeling
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	numWorkers   int                  // Number of concurrent workers for processing
	pollInterval time.Duration        // Interval for polling new photos

	running    atomic.Bool  // Set while Run is polling
	lastPoll   atomic.Int64 // Unix nanoseconds of the last finished polling round
	pollFailed atomic.Bool  // Whether the last fetch from the repository failed
}

// Status is a snapshot of the service state used by readiness probes.
type Status struct {
	Running    bool      // Running reports whether the polling loop is active.
	LastPoll   time.Time // LastPoll is zero until the first round finishes.
	PollFailed bool      // PollFailed reports whether the last fetch failed.
}

// Ready reports whether the service is polling and the last fetch succeeded.
func (s Status) Ready() bool {
	return s.Running && !s.PollFailed
}

// NewGeotagService creates a new instance of GeotagService.
// A nil provider turns off place lookups.
func NewGeotagService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
) *GeotagService {
	return &GeotagService{
		log:          log,
		repo:         repo,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
	}
}

// Run starts the geotag service, which periodically polls for new photos.
// It listens for a cancellation signal from the context to gracefully stop the service.
func (gs *GeotagService) Run(ctx context.Context) {
	ticker := time.NewTicker(gs.pollInterval)
	defer ticker.Stop()

	gs.running.Store(true)
	defer gs.running.Store(false)

	gs.log.InfoContext(ctx, "Geotag service started...")

	for {
		select {
		case <-ctx.Done():
			gs.log.InfoContext(ctx, "Geotag service stopped.")
			return
		case <-ticker.C:
			gs.log.InfoContext(ctx, "Polling for new photos to geotag...")
			gs.processPhotos(ctx)
		}
	}
}

// processPhotos fetches a batch of photos, fans them out to the worker pool
// and waits for all workers to finish.
func (gs *GeotagService) processPhotos(ctx context.Context) {
	defer func() { gs.lastPoll.Store(time.Now().UnixNano()) }()

	photos, err := gs.repo.FetchPhotosForGeotagging(ctx, batchSize)
	gs.pollFailed.Store(err != nil)
	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to fetch photos", "error", err)
		return
	}
	if len(photos) == 0 {
		gs.log.InfoContext(ctx, "No photos to process.")
		return
	}

	gs.log.InfoContext(
		ctx,
		"Found photos to process. Starting worker pool.",
		"jobs", len(photos),
		"num_workers", gs.numWorkers,
	)

	jobs := make(chan models.Photo, len(photos))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.numWorkers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, i, &wgr, jobs)
	}

	for _, photo := range photos {
		jobs <- photo
	}
	close(jobs)

	wgr.Wait()
	gs.log.InfoContext(ctx, "Processing batch finished")
}

// Status returns the current state of the polling loop.
func (gs *GeotagService) Status() Status {
	status := Status{
		Running:    gs.running.Load(),
		PollFailed: gs.pollFailed.Load(),
	}
	if nanos := gs.lastPoll.Load(); nanos != 0 {
		status.LastPoll = time.Unix(0, nanos)
	}

	return status
}

// worker processes photos from the jobs channel until it is closed.
func (gs *GeotagService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Photo) {
	defer wg.Done()
	for photo := range jobs {
		gs.metrics.ActiveWorkers.Inc()
		gs.processPhoto(ctx, idx, photo)
		gs.metrics.ActiveWorkers.Dec()
	}
}

func (gs *GeotagService) processPhoto(ctx context.Context, idx int, photo models.Photo) {
	gs.log.DebugContext(ctx, "Processing photo", "worker", idx, "photo", photo.ID)

	coord, err := geotag.Locate(photo.Tags)
	if err == nil && coord.IsOrigin() {
		err = ErrNullIsland
	}
	if err != nil {
		gs.log.WarnContext(ctx, "Failed to locate photo", "worker", idx, "photo", photo.ID, "error", err)
		gs.metrics.PhotosProcessed.WithLabelValues("failure").Inc()

		if err = gs.repo.IncrementFailureCount(ctx, photo.ID, err.Error()); err != nil {
			gs.log.ErrorContext(
				ctx,
				"Could not update failure count for photo",
				"worker", idx,
				"photo", photo.ID,
				"error", err,
			)
		}
		return
	}

	gs.log.DebugContext(ctx, "Photo located", "worker", idx, "photo", photo.ID, "dms", coord.DMSString())

	place := gs.lookupPlace(ctx, idx, photo.ID, coord)

	if err = gs.repo.UpdatePhotoLocation(ctx, photo.ID, coord, place); err != nil {
		gs.log.ErrorContext(
			ctx,
			"Failed to update location for photo",
			"worker", idx,
			"photo", photo.ID,
			"error", err,
		)
		gs.metrics.PhotosProcessed.WithLabelValues("failure").Inc()
		return
	}
	gs.metrics.PhotosProcessed.WithLabelValues("success").Inc()

	gs.log.DebugContext(ctx, "Worker successfully processed the photo", "worker", idx, "photo", photo.ID)
}

// lookupPlace asks the provider for a place name. Failures only cost the name,
// the coordinate is stored regardless.
func (gs *GeotagService) lookupPlace(ctx context.Context, idx, photoID int, coord geo.Coordinate) *models.Place {
	if gs.provider == nil {
		return nil
	}

	startTime := time.Now()
	place, err := gs.provider.Lookup(ctx, coord)
	gs.metrics.RequestSeconds.WithLabelValues(gs.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to look up place", "worker", idx, "photo", photoID, "error", err)
		gs.metrics.ProviderErrors.Inc()
		return nil
	}

	return place
}
