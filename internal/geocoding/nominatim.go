package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/models"
	"golang.org/x/time/rate"
)

// NominatimBaseURL is the public OpenStreetMap reverse geocoding endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"

const nominatimUserAgent = "Meridian-Geotag-Service/1.0 (https://github.com/UnknownOlympus/meridian)"

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Nominatim API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents the JSON response from the Nominatim reverse endpoint.
type nominatimResponse struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
)

// NewNominatimProvider creates a new Nominatim provider allowing rateLimit
// requests per second. A non-positive rateLimit falls back to the fair use limit.
func NewNominatimProvider(rateLimit int, log *slog.Logger) *NominatimProvider {
	const timeout = 10

	if rateLimit <= 0 {
		rateLimit = 1
	}

	return NewNominatimProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		rate.NewLimiter(rate.Limit(rateLimit), 1),
		log,
	)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:    client,
		baseURL:   NominatimBaseURL,
		log:       log,
		limiter:   limiter,
		userAgent: nominatimUserAgent,
	}
}

// Lookup resolves the coordinate to a display name using the Nominatim API.
// It respects Nominatim's usage policy by including a User-Agent header and
// throttling requests.
func (np *NominatimProvider) Lookup(ctx context.Context, coord geo.Coordinate) (*models.Place, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim", "coordinate", coord.String())

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", strconv.FormatFloat(coord.Latitude(), 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coord.Longitude(), 'f', -1, 64))
	query.Set("format", "json")
	query.Set("accept-language", "uk,en") // Prefer Ukrainian, fallback to English
	reqURL.RawQuery = query.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers per Nominatim usage policy
	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	np.log.DebugContext(ctx, "Nominatim raw response", "body", string(body))

	var result nominatimResponse
	if err = json.Unmarshal(body, &result); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	// Nominatim answers 200 with an "error" field when nothing is found.
	if result.Error != "" || result.DisplayName == "" {
		return nil, ErrNominatimEmptyResponse
	}

	place := &models.Place{Name: result.DisplayName}
	if result.PlaceID != 0 {
		place.PlaceID = strconv.FormatInt(result.PlaceID, 10)
	}

	return place, nil
}
