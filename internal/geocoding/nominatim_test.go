package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func TestNominatimProvider_Lookup(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	coord := geo.New(50.4501, 30.5234)
	unlimited := rate.NewLimiter(rate.Inf, 0)

	t.Run("successful lookup", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), geocoding.NominatimBaseURL)
				assert.Equal(t, "50.4501", req.URL.Query().Get("lat"))
				assert.Equal(t, "30.5234", req.URL.Query().Get("lon"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(
					t,
					"Meridian-Geotag-Service/1.0 (https://github.com/UnknownOlympus/meridian)",
					req.Header.Get("User-Agent"),
				)

				return respond(http.StatusOK, `{"place_id":123456,"display_name":"Хрещатик, Київ, Україна"}`)(req)
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		place, err := provider.Lookup(ctx, coord)

		require.NoError(t, err)
		require.NotNil(t, place)
		assert.Equal(t, "Хрещатик, Київ, Україна", place.Name)
		assert.Equal(t, "123456", place.PlaceID)
	})

	t.Run("unable to geocode", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{"error":"Unable to geocode"}`)}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		place, err := provider.Lookup(ctx, geo.New(0, -140))

		require.Error(t, err)
		require.Nil(t, place)
		assert.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`)}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		place, err := provider.Lookup(ctx, coord)

		require.Error(t, err)
		require.Nil(t, place)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `invalid json`)}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		place, err := provider.Lookup(ctx, coord)

		require.Error(t, err)
		require.Nil(t, place)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		place, err := provider.Lookup(ctx, coord)

		require.Error(t, err)
		require.Nil(t, place)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute reverse geocoding request")
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		rateCtx, cancel := context.WithCancel(context.Background())
		cancel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called when rate limit blocks")
				return &http.Response{}, nil
			},
		}

		limiter := rate.NewLimiter(rate.Every(time.Second), 1)

		provider := geocoding.NewNominatimProviderWithClient(mockClient, limiter, logger)
		place, err := provider.Lookup(rateCtx, coord)

		require.Error(t, err)
		assert.Nil(t, place)
		assert.ErrorContains(t, err, "rate limit exceeded")
	})
}

func TestNewNominatimProvider(t *testing.T) {
	logger := slog.Default()

	require.NotNil(t, geocoding.NewNominatimProvider(1, logger))
	require.NotNil(t, geocoding.NewNominatimProvider(0, logger))
}
