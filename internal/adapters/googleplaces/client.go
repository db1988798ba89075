// internal/adapters/googleplaces/client.go
package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"tripscout/internal/adapters/observability"
	"tripscout/internal/domain"
)

const providerName = "Google Places"

type Client struct {
	base  string
	hc    *http.Client
	key   string
	rl    *rate.Limiter
	limit int // review cap per place
}

func New(base, key string, rps, reviewLimit int, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if reviewLimit <= 0 || reviewLimit > 5 {
		reviewLimit = 5 // details endpoint returns at most 5 reviews
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  base,
		hc:    &http.Client{Timeout: timeout},
		key:   key,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		limit: reviewLimit,
	}, nil
}

func (c *Client) Name() string { return providerName }

// ---- wire schemas ----
// Author fields are deliberately absent: reviewer identities never enter the
// domain model.

type searchResponse struct {
	Results []struct {
		PlaceID string `json:"place_id"`
		Name    string `json:"name"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type detailsResponse struct {
	Result struct {
		PlaceID          string      `json:"place_id"`
		Name             string      `json:"name"`
		FormattedAddress *string     `json:"formatted_address"`
		Rating           *float64    `json:"rating"`
		UserRatingsTotal *int        `json:"user_ratings_total"`
		Reviews          []rawReview `json:"reviews"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type rawReview struct {
	Rating       *float64 `json:"rating"`
	Text         string   `json:"text"`
	Time         *int64   `json:"time"`
	RelativeTime *string  `json:"relative_time_description"`
}

// ---- public API ----

func (c *Client) SearchAndFetchReviews(ctx context.Context, query, locationHint string) (domain.PlaceResult, error) {
	query, err := domain.ValidatePlaceQuery(query)
	if err != nil {
		return domain.PlaceResult{}, err
	}

	params := url.Values{"query": {query}}
	if hint := strings.TrimSpace(locationHint); hint != "" {
		if looksLikeLatLng(hint) {
			params.Set("location", hint)
		} else {
			// Text search has no "near" parameter; fold the hint into the query.
			params.Set("query", query+" "+hint)
		}
	}

	var sr searchResponse
	if err := c.get(ctx, "textsearch", params, &sr); err != nil {
		return domain.PlaceResult{}, err
	}
	if sr.Status == "ZERO_RESULTS" || len(sr.Results) == 0 {
		return domain.PlaceResult{}, &domain.NotFoundError{Provider: providerName, Query: query}
	}
	if sr.Status != "OK" {
		return domain.PlaceResult{}, &domain.UpstreamError{Provider: providerName, Message: statusMessage(sr.Status, sr.ErrorMessage)}
	}
	placeID := sr.Results[0].PlaceID
	log.Info().Str("place_id", placeID).Str("name", sr.Results[0].Name).Msg("google place found")

	var dr detailsResponse
	dp := url.Values{
		"place_id": {placeID},
		"fields":   {"place_id,name,formatted_address,rating,user_ratings_total,reviews"},
	}
	if err := c.get(ctx, "details", dp, &dr); err != nil {
		return domain.PlaceResult{}, err
	}
	if dr.Status == "NOT_FOUND" || dr.Status == "ZERO_RESULTS" {
		return domain.PlaceResult{}, &domain.NotFoundError{Provider: providerName, Query: query}
	}
	if dr.Status != "OK" {
		return domain.PlaceResult{}, &domain.UpstreamError{Provider: providerName, Message: statusMessage(dr.Status, dr.ErrorMessage)}
	}

	name := dr.Result.Name
	if name == "" {
		name = "Unknown"
	}
	return domain.PlaceResult{
		PlaceID:      placeID,
		Name:         name,
		Address:      dr.Result.FormattedAddress,
		Rating:       dr.Result.Rating,
		TotalReviews: dr.Result.UserRatingsTotal,
		Reviews:      normalizeReviews(dr.Result.Reviews, c.limit),
	}, nil
}

// normalizeReviews drops unusable records and applies the latest-first
// policy: stable sort descending by timestamp, a missing timestamp keyed
// as zero.
func normalizeReviews(in []rawReview, limit int) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.Text) == "" {
			log.Warn().Str("provider", providerName).Msg("skipping review without text")
			continue
		}
		out = append(out, domain.Review{
			Rating:       r.Rating,
			Text:         r.Text,
			Time:         r.Time,
			RelativeTime: r.RelativeTime,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return timeKey(out[i]) > timeKey(out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func timeKey(r domain.Review) int64 {
	if r.Time == nil {
		return 0
	}
	return *r.Time
}

// ---- transport ----

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &domain.UpstreamError{Provider: providerName, Message: err.Error()}
	}

	params.Set("key", c.key)
	u := fmt.Sprintf("%s/%s/json?%s", c.base, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.UpstreamError{Provider: providerName, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tripscout/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("google_places", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return &domain.UpstreamError{Provider: providerName, Message: ctx.Err().Error()}
		}
		return &domain.UpstreamError{Provider: providerName, Message: err.Error()}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("google_places", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.UpstreamError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(b)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{Provider: providerName, Message: "decode response: " + err.Error()}
	}
	return nil
}

func statusMessage(status, msg string) string {
	if msg == "" {
		return status
	}
	return status + ": " + msg
}

// looksLikeLatLng reports whether the hint is a "lat,lng" pair rather than
// a place name.
func looksLikeLatLng(s string) bool {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return false
	}
	first := strings.TrimSpace(s[:i])
	for _, r := range first {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
