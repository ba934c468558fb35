package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

// Network calls are bounded; a slow API is treated as an ordinary
// failure, never a hang.
const requestTimeout = 10 * time.Second

// Client resolves a US ZIP code to coordinates and fetches the current
// temperature plus today's forecast high/low in Fahrenheit.
type Client struct {
	httpClient  *http.Client
	geocodeURL  string
	forecastURL string
}

func NewClient() *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		geocodeURL:  "https://api.zippopotam.us/us",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
	}
}

type geocodeResponse struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
	} `json:"current"`
	Daily struct {
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Coordinates resolves a ZIP code via the Zippopotam geocoding service.
func (c *Client) Coordinates(ctx context.Context, zipCode string) (float64, float64, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.geocodeURL, url.PathEscape(zipCode)))
	if err != nil {
		return 0, 0, fmt.Errorf("geocode zip %s: %w", zipCode, err)
	}

	var data geocodeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, 0, fmt.Errorf("geocode zip %s: unmarshal: %w", zipCode, err)
	}
	if len(data.Places) == 0 {
		return 0, 0, fmt.Errorf("geocode zip %s: no places returned", zipCode)
	}

	lat, err := strconv.ParseFloat(data.Places[0].Latitude, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode zip %s: parse latitude: %w", zipCode, err)
	}
	lon, err := strconv.ParseFloat(data.Places[0].Longitude, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode zip %s: parse longitude: %w", zipCode, err)
	}
	return lat, lon, nil
}

// Fetch returns one weather snapshot for the ZIP code from Open-Meteo.
func (c *Client) Fetch(ctx context.Context, zipCode string) (models.WeatherData, error) {
	if zipCode == "" {
		return models.WeatherData{}, fmt.Errorf("zip code not provided")
	}

	lat, lon, err := c.Coordinates(ctx, zipCode)
	if err != nil {
		return models.WeatherData{}, err
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("current", "temperature_2m")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("timezone", "auto")

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", c.forecastURL, values.Encode()))
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("fetch forecast: %w", err)
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.WeatherData{}, fmt.Errorf("fetch forecast: unmarshal: %w", err)
	}
	if len(data.Daily.TemperatureMax) == 0 || len(data.Daily.TemperatureMin) == 0 {
		return models.WeatherData{}, fmt.Errorf("fetch forecast: empty daily series")
	}

	return models.WeatherData{
		CurrentTemp: data.Current.Temperature,
		DailyHigh:   data.Daily.TemperatureMax[0],
		DailyLow:    data.Daily.TemperatureMin[0],
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
