package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func kyivTags() models.GPSTags {
	return models.GPSTags{
		LatitudeRef:  "N",
		Latitude:     []models.Rational{models.NewRational(50, 1), models.NewRational(30, 1), models.NewRational(0, 1)},
		LongitudeRef: "E",
		Longitude:    []models.Rational{models.NewRational(30, 1), models.NewRational(15, 1), models.NewRational(0, 1)},
	}
}

func zeroTags() models.GPSTags {
	zero := []models.Rational{models.NewRational(0, 1), models.NewRational(0, 1), models.NewRational(0, 1)}
	return models.GPSTags{LatitudeRef: "N", Latitude: zero, LongitudeRef: "E", Longitude: zero}
}

func TestProcessPhotos(t *testing.T) {
	mockRepo := mocks.NewInterface(t)
	mockProvider := mocks.NewProvider(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)
	ctx := t.Context()
	service := NewGeotagService(logger, mockRepo, mockProvider, "nominatim", appMetrics, 2, 1*time.Second)
	kyiv := geo.New(50.5, 30.25)

	t.Run("successfull processing", func(t *testing.T) {
		samplePhotos := []models.Photo{{ID: 1, Path: "/photos/kyiv.jpg", Tags: kyivTags()}}
		samplePlace := &models.Place{Name: "Kyiv, Ukraine"}

		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
		mockProvider.On("Lookup", ctx, kyiv).Return(samplePlace, nil).Once()
		mockRepo.On("UpdatePhotoLocation", ctx, 1, kyiv, samplePlace).Return(nil).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("fetch photos return error", func(t *testing.T) {
		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(nil, assert.AnError).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("fetch photos return empty list", func(t *testing.T) {
		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return([]models.Photo{}, nil).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("missing gps tags are recorded as failure", func(t *testing.T) {
		samplePhotos := []models.Photo{{ID: 2, Path: "/photos/blank.jpg"}}

		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
		mockRepo.On("IncrementFailureCount", ctx, 2, "gps latitude is missing: got 0 components").Return(nil).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("origin coordinates are rejected", func(t *testing.T) {
		samplePhotos := []models.Photo{{ID: 3, Path: "/photos/nofix.jpg", Tags: zeroTags()}}

		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
		mockRepo.On("IncrementFailureCount", ctx, 3, ErrNullIsland.Error()).Return(nil).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("error to increment failure count", func(t *testing.T) {
		samplePhotos := []models.Photo{{ID: 3, Path: "/photos/nofix.jpg", Tags: zeroTags()}}

		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
		mockRepo.On("IncrementFailureCount", ctx, 3, ErrNullIsland.Error()).Return(assert.AnError).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("provider error still stores coordinate", func(t *testing.T) {
		samplePhotos := []models.Photo{{ID: 1, Path: "/photos/kyiv.jpg", Tags: kyivTags()}}
		errorsBefore := testutil.ToFloat64(appMetrics.ProviderErrors)

		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
		mockProvider.On("Lookup", ctx, kyiv).Return(nil, assert.AnError).Once()
		mockRepo.On("UpdatePhotoLocation", ctx, 1, kyiv, (*models.Place)(nil)).Return(nil).Once()

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
		assert.InDelta(t, errorsBefore+1, testutil.ToFloat64(appMetrics.ProviderErrors), 0)
	})

	t.Run("error to update photo location", func(t *testing.T) {
		samplePhotos := []models.Photo{{ID: 1, Path: "/photos/kyiv.jpg", Tags: kyivTags()}}
		samplePlace := &models.Place{Name: "Kyiv, Ukraine"}

		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
		mockProvider.On("Lookup", ctx, kyiv).Return(samplePlace, nil).Once()
		mockRepo.On("UpdatePhotoLocation", ctx, 1, kyiv, samplePlace).Return(assert.AnError).Once()
		successBefore := testutil.ToFloat64(appMetrics.PhotosProcessed.WithLabelValues("success"))
		failureBefore := testutil.ToFloat64(appMetrics.PhotosProcessed.WithLabelValues("failure"))

		service.processPhotos(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
		assert.InDelta(t, successBefore, testutil.ToFloat64(appMetrics.PhotosProcessed.WithLabelValues("success")), 0)
		assert.InDelta(t, failureBefore+1, testutil.ToFloat64(appMetrics.PhotosProcessed.WithLabelValues("failure")), 0)
	})

	t.Run("start context cancelled", func(t *testing.T) {
		tctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		service.Run(tctx)
	})
}

func TestStatus(t *testing.T) {
	mockRepo := mocks.NewInterface(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	ctx := t.Context()
	service := NewGeotagService(logger, mockRepo, nil, "none", appMetrics, 1, time.Hour)

	status := service.Status()
	assert.False(t, status.Running)
	assert.True(t, status.LastPoll.IsZero())
	assert.False(t, status.Ready())

	t.Run("failed fetch is reported", func(t *testing.T) {
		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(nil, assert.AnError).Once()

		service.processPhotos(ctx)

		status := service.Status()
		assert.True(t, status.PollFailed)
		assert.False(t, status.LastPoll.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("successful fetch clears the failure", func(t *testing.T) {
		mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return([]models.Photo{}, nil).Once()

		service.processPhotos(ctx)

		assert.False(t, service.Status().PollFailed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("running while polling", func(t *testing.T) {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			service.Run(runCtx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return service.Status().Ready() }, time.Second, 5*time.Millisecond)

		cancel()
		<-done
		assert.False(t, service.Status().Running)
	})
}

func TestProcessPhotos_WithoutProvider(t *testing.T) {
	mockRepo := mocks.NewInterface(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	ctx := t.Context()
	service := NewGeotagService(logger, mockRepo, nil, "none", appMetrics, 1, time.Second)

	alt := models.NewRational(1795, 10)
	tags := kyivTags()
	tags.Altitude = &alt
	samplePhotos := []models.Photo{{ID: 7, Path: "/photos/kyiv.jpg", Tags: tags}}

	mockRepo.On("FetchPhotosForGeotagging", ctx, 100).Return(samplePhotos, nil).Once()
	mockRepo.On("UpdatePhotoLocation", ctx, 7, geo.NewWithAltitude(50.5, 30.25, 179.5), (*models.Place)(nil)).
		Return(nil).Once()

	service.processPhotos(ctx)

	mockRepo.AssertExpectations(t)
	assert.InDelta(t, 1.0, testutil.ToFloat64(appMetrics.PhotosProcessed.WithLabelValues("success")), 0)
}
