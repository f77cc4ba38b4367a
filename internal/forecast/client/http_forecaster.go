package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ridloal/pos-forecast-engine/internal/forecast/domain"
	"github.com/shopspring/decimal"
)

const DefaultTimeout = 30 * time.Second

// ErrUpstreamUnavailable wraps every failure talking to the remote forecaster:
// transport errors, timeouts, non-2xx responses, bad payloads.
var ErrUpstreamUnavailable = errors.New("forecaster unavailable")

type salesResponse struct {
	Success  bool `json:"success"`
	Forecast []struct {
		Month          string          `json:"month"`
		PredictedSales decimal.Decimal `json:"predictedSales"`
		ActualSales    decimal.Decimal `json:"actualSales"`
		Trend          string          `json:"trend"`
		Confidence     *int            `json:"confidence"`
	} `json:"forecast"`
	ModelType      string `json:"modelType"`
	ModelTypeSnake string `json:"model_type"`
}

type categoryResponse struct {
	Success    bool                       `json:"success"`
	Categories map[string]decimal.Decimal `json:"categories"`
}

// HTTPForecaster talks to the remote forecasting service.
type HTTPForecaster struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPForecaster(baseURL string, timeout time.Duration) *HTTPForecaster {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPForecaster{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstreamUnavailable, fmt.Sprintf(format, args...))
}

func (f *HTTPForecaster) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	reqURL := f.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, unavailable("build request %s: %v", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, unavailable("GET %s: %v", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, unavailable("GET %s returned status %d", path, resp.StatusCode)
	}
	return resp, nil
}

// SalesForecast calls GET /api/forecast/sales?months=N.
func (f *HTTPForecaster) SalesForecast(ctx context.Context, months int) ([]domain.ForecastPoint, string, error) {
	resp, err := f.get(ctx, "/api/forecast/sales", url.Values{"months": {strconv.Itoa(months)}})
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var payload salesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", unavailable("decode sales forecast: %v", err)
	}
	if !payload.Success || payload.Forecast == nil {
		return nil, "", unavailable("sales forecast reported no result")
	}

	points := make([]domain.ForecastPoint, 0, len(payload.Forecast))
	for _, p := range payload.Forecast {
		points = append(points, domain.ForecastPoint{
			Month:          p.Month,
			PredictedSales: p.PredictedSales,
			ActualSales:    p.ActualSales,
			Trend:          p.Trend,
			Confidence:     p.Confidence,
		})
	}
	modelType := payload.ModelType
	if modelType == "" {
		modelType = payload.ModelTypeSnake
	}
	return points, modelType, nil
}

// CategoryForecast calls GET /api/forecast/categories.
func (f *HTTPForecaster) CategoryForecast(ctx context.Context) (map[string]decimal.Decimal, error) {
	resp, err := f.get(ctx, "/api/forecast/categories", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload categoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, unavailable("decode category forecast: %v", err)
	}
	if !payload.Success || payload.Categories == nil {
		return nil, unavailable("category forecast reported no result")
	}
	return payload.Categories, nil
}

// Ping succeeds iff GET / answers with a 2xx status.
func (f *HTTPForecaster) Ping(ctx context.Context) error {
	resp, err := f.get(ctx, "/", nil)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
