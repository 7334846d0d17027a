// Package weather fetches current weather from the open-meteo API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gojektech/heimdall/v6"
	"github.com/gojektech/heimdall/v6/httpclient"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
)

const (
	requestTimeout    = 10 * time.Second
	retryCount        = 2
	retryBackoff      = 500 * time.Millisecond
	retryJitter       = 5 * time.Millisecond
	forecastTimeShape = "2006-01-02T15:04"
)

type coordinates struct {
	lat float64
	lon float64
}

// Known event locations. Unknown cities fall back to Muscat.
var cityCoordinates = map[string]coordinates{
	"muscat":  {lat: 23.5880, lon: 58.3829},
	"salalah": {lat: 17.0151, lon: 54.0924},
	"sohar":   {lat: 24.3490, lon: 56.7290},
	"nizwa":   {lat: 22.9333, lon: 57.5333},
}

var defaultCoordinates = cityCoordinates["muscat"]

// Client calls the open-meteo current-weather endpoint. Transient failures
// are retried here with a constant backoff; callers see only the final
// outcome.
type Client struct {
	http    *httpclient.Client
	baseURL string
	log     *logger.Logger
}

// NewClient constructs a Client against the given base URL.
func NewClient(baseURL string, baseLog *logger.Logger) *Client {
	backoff := heimdall.NewConstantBackoff(retryBackoff, retryJitter)
	retrier := heimdall.NewRetrier(backoff)

	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(requestTimeout),
		httpclient.WithRetrier(retrier),
		httpclient.WithRetryCount(retryCount),
	)

	return &Client{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     baseLog.With("client", "WeatherClient"),
	}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature   float64 `json:"temperature"`
		Windspeed     float64 `json:"windspeed"`
		Winddirection float64 `json:"winddirection"`
		Time          string  `json:"time"`
	} `json:"current_weather"`
}

// GetWeather returns current weather for the city, or nil when the API has
// no data for it.
func (c *Client) GetWeather(ctx context.Context, city string) (*model.WeatherInfo, error) {
	coords, ok := cityCoordinates[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		coords = defaultCoordinates
	}

	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true",
		c.baseURL, coords.lat, coords.lon,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if parsed.CurrentWeather == nil {
		c.log.Warn("weather api returned no data", "city", city)
		return nil, nil
	}

	info := &model.WeatherInfo{
		Summary:      "Current Weather",
		TemperatureC: &parsed.CurrentWeather.Temperature,
	}
	if ts, err := time.Parse(forecastTimeShape, parsed.CurrentWeather.Time); err == nil {
		utc := ts.UTC()
		info.ForecastTimeUTC = &utc
	}
	return info, nil
}
