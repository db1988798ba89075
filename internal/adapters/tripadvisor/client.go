// internal/adapters/tripadvisor/client.go
package tripadvisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"tripscout/internal/adapters/observability"
	"tripscout/internal/domain"
)

const (
	providerName = "TripAdvisor"
	maxReviews   = 5 // Content API caps reviews at 5 for most accounts
)

type Client struct {
	base  string
	hc    *http.Client
	key   string
	rl    *rate.Limiter
	limit int
	lang  string
}

func New(base, key string, rps, reviewLimit int, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if reviewLimit <= 0 || reviewLimit > maxReviews {
		reviewLimit = maxReviews
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  base,
		hc:    &http.Client{Timeout: timeout},
		key:   strings.TrimSpace(key),
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		limit: reviewLimit,
		lang:  "en",
	}, nil
}

func (c *Client) Name() string { return providerName }

// ---- wire schemas ----
// Field shapes vary across Content API deployments; ambiguous fields decode
// as `any` and go through the ordered coercion helpers below.

type locationRecord struct {
	LocationID   string  `json:"location_id"`
	LocationIDV2 string  `json:"locationId"`
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	AddressStr   *string `json:"address_string"`
	LocationStr  *string `json:"location_string"`
	Rating       any     `json:"rating"`
	NumReviews   any     `json:"num_reviews"`
	ReviewCount  any     `json:"review_count"`
	TotalReviews any     `json:"total_reviews"`
}

func (l locationRecord) id() string {
	if l.LocationID != "" {
		return l.LocationID
	}
	return l.LocationIDV2
}

func (l locationRecord) address() *string {
	for _, p := range []*string{l.Address, l.AddressStr, l.LocationStr} {
		if p != nil && *p != "" {
			return p
		}
	}
	return nil
}

type searchResponse struct {
	Data []locationRecord `json:"data"`
}

type detailsResponse struct {
	Data locationRecord `json:"data"`
}

type rawReview struct {
	Rating        any     `json:"rating"`
	RatingBubble  any     `json:"rating_bubble"`
	Text          string  `json:"text"`
	ReviewText    string  `json:"review_text"`
	Review        string  `json:"review"`
	PublishedDate any     `json:"published_date"`
	PublishedStr  *string `json:"published_date_string"`
	RelativeTime  *string `json:"relative_time_description"`
}

type reviewsResponse struct {
	Data []rawReview `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errEmptyResult marks the business-logic 404: the API answered, nothing
// matched.
var errEmptyResult = errors.New("tripadvisor: no matching location")

// ---- public API ----

func (c *Client) SearchAndFetchReviews(ctx context.Context, query, locationHint string) (domain.PlaceResult, error) {
	query, err := domain.ValidatePlaceQuery(query)
	if err != nil {
		return domain.PlaceResult{}, err
	}

	rec, err := c.search(ctx, query, locationHint)
	if err != nil {
		return domain.PlaceResult{}, err
	}
	id := rec.id()
	if id == "" {
		return domain.PlaceResult{}, &domain.NotFoundError{Provider: providerName, Query: query}
	}
	log.Info().Str("location_id", id).Str("name", rec.Name).Msg("tripadvisor location found")

	// Search records are sometimes sparse; pull details for missing fields.
	if rec.address() == nil || rec.Rating == nil {
		if det, derr := c.details(ctx, id); derr == nil {
			if rec.address() == nil {
				rec.Address = det.address()
			}
			if rec.Rating == nil {
				rec.Rating = det.Rating
			}
			if rec.NumReviews == nil {
				rec.NumReviews = det.NumReviews
			}
			if rec.Name == "" {
				rec.Name = det.Name
			}
		} else {
			log.Warn().Err(derr).Str("location_id", id).Msg("tripadvisor details fetch failed")
		}
	}

	// Reviews are best-effort: the place itself is still worth returning.
	var raw []rawReview
	if rr, rerr := c.reviews(ctx, id); rerr != nil {
		log.Warn().Err(rerr).Str("location_id", id).Msg("tripadvisor reviews fetch failed")
	} else {
		raw = rr
	}

	name := rec.Name
	if name == "" {
		name = "Unknown"
	}
	return domain.PlaceResult{
		PlaceID:      id,
		Name:         name,
		Address:      rec.address(),
		Rating:       floatFrom(rec.Rating),
		TotalReviews: intFrom(rec.NumReviews, rec.ReviewCount, rec.TotalReviews),
		Reviews:      normalizeReviews(raw, c.limit),
	}, nil
}

func (c *Client) search(ctx context.Context, query, locationHint string) (locationRecord, error) {
	params := url.Values{
		"searchQuery": {query},
		"limit":       {"1"},
	}
	if hint := strings.TrimSpace(locationHint); hint != "" {
		if looksLikeLatLng(hint) {
			params.Set("latlong", hint)
		} else {
			params.Set("near", hint)
		}
	}

	var sr searchResponse
	if err := c.get(ctx, "/location/search", params, &sr); err != nil {
		if errors.Is(err, errEmptyResult) {
			return locationRecord{}, &domain.NotFoundError{Provider: providerName, Query: query}
		}
		return locationRecord{}, err
	}
	if len(sr.Data) == 0 {
		return locationRecord{}, &domain.NotFoundError{Provider: providerName, Query: query}
	}
	return sr.Data[0], nil
}

func (c *Client) details(ctx context.Context, id string) (locationRecord, error) {
	var dr detailsResponse
	if err := c.get(ctx, "/location/"+id, nil, &dr); err != nil {
		return locationRecord{}, err
	}
	return dr.Data, nil
}

func (c *Client) reviews(ctx context.Context, id string) ([]rawReview, error) {
	params := url.Values{
		"limit":    {strconv.Itoa(c.limit)},
		"language": {c.lang},
	}
	var rr reviewsResponse
	if err := c.get(ctx, "/location/"+id+"/reviews", params, &rr); err != nil {
		if errors.Is(err, errEmptyResult) {
			return nil, nil
		}
		return nil, err
	}
	return rr.Data, nil
}

// ---- normalization ----

// normalizeReviews drops unusable records and applies the latest-first
// policy with explicit partitioning: timestamped reviews sorted descending,
// untimestamped reviews appended in input order.
func normalizeReviews(in []rawReview, limit int) []domain.Review {
	var withTime, withoutTime []domain.Review
	for _, r := range in {
		text := firstNonEmpty(r.Text, r.ReviewText, r.Review)
		if strings.TrimSpace(text) == "" {
			log.Warn().Str("provider", providerName).Msg("skipping review without text")
			continue
		}
		rv := domain.Review{
			Rating:       reviewRating(r),
			Text:         text,
			Time:         timestampFrom(r.PublishedDate),
			RelativeTime: relativeTime(r),
		}
		if rv.Time != nil {
			withTime = append(withTime, rv)
		} else {
			withoutTime = append(withoutTime, rv)
		}
	}
	sort.SliceStable(withTime, func(i, j int) bool { return *withTime[i].Time > *withTime[j].Time })
	out := append(withTime, withoutTime...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func reviewRating(r rawReview) *float64 {
	if f := floatFrom(r.Rating); f != nil {
		return f
	}
	// "5.0 of 5 bubbles" style
	if s, ok := r.RatingBubble.(string); ok {
		fields := strings.Fields(s)
		if len(fields) > 0 {
			if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
				return &f
			}
		}
	}
	return floatFrom(r.RatingBubble)
}

func relativeTime(r rawReview) *string {
	if r.RelativeTime != nil && *r.RelativeTime != "" {
		return r.RelativeTime
	}
	if r.PublishedStr != nil && *r.PublishedStr != "" {
		return r.PublishedStr
	}
	return nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// floatFrom coerces float64/int/json string values.
func floatFrom(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

func intFrom(vals ...any) *int {
	for _, v := range vals {
		switch t := v.(type) {
		case float64:
			n := int(t)
			return &n
		case int:
			n := t
			return &n
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return &n
			}
		}
	}
	return nil
}

// timestampFrom accepts a unix-seconds number or a handful of date layouts.
func timestampFrom(v any) *int64 {
	switch t := v.(type) {
	case float64:
		n := int64(t)
		return &n
	case int:
		n := int64(t)
		return &n
	case string:
		s := t
		if i := strings.IndexByte(s, '.'); i >= 0 {
			s = s[:i]
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, s); err == nil {
				n := ts.Unix()
				return &n
			}
		}
	}
	return nil
}

// ---- transport ----

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &domain.UpstreamError{Provider: providerName, Message: err.Error()}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.key)
	u := fmt.Sprintf("%s/%s?%s", c.base, strings.TrimPrefix(endpoint, "/"), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.UpstreamError{Provider: providerName, Message: err.Error()}
	}
	// Content API rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "tripscout/1.0")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("tripadvisor", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return &domain.UpstreamError{Provider: providerName, Message: ctx.Err().Error()}
		}
		return &domain.UpstreamError{Provider: providerName, Message: "failed to connect: " + err.Error()}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("tripadvisor", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg := errorMessage(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return &domain.UpstreamError{
				Provider: providerName,
				Status:   resp.StatusCode,
				Message:  "invalid API key or authentication failed: " + msg,
			}
		case http.StatusNotFound:
			// A 404 body saying "not found" is an empty business result, not
			// a broken endpoint.
			if isNotFoundMessage(msg) {
				log.Warn().Str("endpoint", endpoint).Str("msg", msg).Msg("tripadvisor location not found")
				return errEmptyResult
			}
			return &domain.UpstreamError{
				Provider: providerName,
				Status:   resp.StatusCode,
				Message:  "resource not found: " + endpoint + ": " + msg,
			}
		default:
			return &domain.UpstreamError{Provider: providerName, Status: resp.StatusCode, Message: msg}
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{Provider: providerName, Message: "decode response: " + err.Error()}
	}
	return nil
}

// isNotFoundMessage decides whether upstream error wording means "no such
// location". The Content API has no structured code for this, so the
// distinction rides on message text; keep every call site behind this one
// predicate.
func isNotFoundMessage(text string) bool {
	low := strings.ToLower(text)
	return strings.Contains(low, "location was not found") || strings.Contains(low, "not found")
}

func errorMessage(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 4096))
	var er errorResponse
	if err := json.Unmarshal(b, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return strings.TrimSpace(string(b))
}

func looksLikeLatLng(s string) bool {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return false
	}
	for _, r := range strings.TrimSpace(s[:i]) {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
