// Package weather provides the simulation's weather, seasons, and day clock,
// plus optional real-world weather data integration.
// OpenWeatherMap conditions can drive the simulated weather kind.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

const (
	owmEndpoint   = "https://api.openweathermap.org/data/2.5/weather"
	maxBackoff    = 10 * time.Minute
	staleAfter    = 30 * time.Minute
	stormWindMS   = 15.0
	maxErrorBytes = 512
)

// Client fetches current conditions from OpenWeatherMap. The simulation
// never waits on it: Poll refreshes in the background and the cycle reads
// Latest.
type Client struct {
	apiKey   string
	location string
	baseURL  string
	hc       *http.Client

	latest atomic.Pointer[observation]
}

type observation struct {
	cond *Conditions
	at   time.Time
}

// NewClient creates a weather API client. Returns nil if apiKey is empty.
func NewClient(apiKey, location string) *Client {
	if apiKey == "" {
		return nil
	}
	if location == "" {
		location = "Lisbon,PT"
	}
	return &Client{
		apiKey:   apiKey,
		location: location,
		baseURL:  owmEndpoint,
		hc:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Conditions holds parsed weather data from the API.
type Conditions struct {
	Temp        float64 `json:"temp"` // Celsius
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"` // m/s
	IsStorm     bool    `json:"is_storm"`
	IsSnow      bool    `json:"is_snow"`
	IsRain      bool    `json:"is_rain"`
}

// Latest returns the most recent fetched conditions, if they are fresh.
func (c *Client) Latest() (*Conditions, bool) {
	obs := c.latest.Load()
	if obs == nil || time.Since(obs.at) > staleAfter {
		return nil, false
	}
	return obs.cond, true
}

// Poll fetches immediately and then every interval until ctx is done.
// Failures back off exponentially up to ten minutes.
func (c *Client) Poll(ctx context.Context, interval time.Duration) {
	var backoff time.Duration
	for {
		wait := interval
		if _, err := c.Fetch(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			backoff = min(max(2*backoff, time.Minute), maxBackoff)
			wait = backoff
			slog.Warn("weather fetch failed", "location", c.location, "retry_in", wait, "error", err)
		} else {
			backoff = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Fetch retrieves current conditions and records them as the latest.
func (c *Client) Fetch(ctx context.Context) (*Conditions, error) {
	apiURL := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(c.location), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather API call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, fmt.Errorf("weather API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	cond, err := decodeOWM(resp.Body)
	if err != nil {
		return nil, err
	}
	c.latest.Store(&observation{cond: cond, at: time.Now()})
	slog.Debug("weather fetched", "temp", cond.Temp, "desc", cond.Description)
	return cond, nil
}

// decodeOWM reads the subset of an OpenWeatherMap current-weather response
// the simulation uses.
func decodeOWM(r io.Reader) (*Conditions, error) {
	var owm struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(r).Decode(&owm); err != nil {
		return nil, fmt.Errorf("parse weather: %w", err)
	}

	cond := &Conditions{Temp: owm.Main.Temp, WindSpeed: owm.Wind.Speed}
	cond.IsStorm = cond.WindSpeed > stormWindMS
	if len(owm.Weather) > 0 {
		cond.Description = owm.Weather[0].Description
		switch strings.ToLower(owm.Weather[0].Main) {
		case "rain", "drizzle":
			cond.IsRain = true
		case "snow":
			cond.IsSnow = true
		case "thunderstorm":
			cond.IsStorm = true
		}
	}
	return cond, nil
}

// KindFromConditions maps real conditions onto a simulated weather kind.
// Storms win over snow, snow over rain.
func KindFromConditions(c *Conditions) Kind {
	switch {
	case c == nil:
		return Clear
	case c.IsStorm:
		return Storm
	case c.IsSnow:
		return Snow
	case c.IsRain:
		return Rain
	default:
		return Clear
	}
}
