package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripscout/internal/domain"
)

// ReviewService is the engine's single entry point: query both providers,
// reconcile, format. Business failures never escape as errors — they are
// rendered into the returned text, because the consumer is a language
// model, not a program that can branch on error types.
type ReviewService struct {
	google   domain.PlaceProvider
	advisor  domain.PlaceProvider
	cache    domain.Cache
	cacheTTL time.Duration
	rec      *Reconciler
	sem      *semaphore.Weighted // bounds concurrent upstream round-trips across requests
}

func NewReviewService(google, advisor domain.PlaceProvider, cache domain.Cache, ttl time.Duration, maxConcurrent int64) *ReviewService {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &ReviewService{
		google:   google,
		advisor:  advisor,
		cache:    cache,
		cacheTTL: ttl,
		rec:      NewReconciler(),
		sem:      semaphore.NewWeighted(maxConcurrent),
	}
}

// searchAttempt is one (query, location) pair tried against TripAdvisor.
type searchAttempt struct {
	query    string
	location string
}

// GetCombinedReviews always returns renderable text. Invalid input yields
// an ERROR string without touching the network.
func (s *ReviewService) GetCombinedReviews(ctx context.Context, placeName, locationHint string) string {
	placeName = strings.TrimSpace(placeName)
	locationHint = strings.TrimSpace(locationHint)
	if placeName == "" {
		return "ERROR: Invalid place_name. Please provide a non-empty string with the name of the place. Example: 'Eiffel Tower' or 'Central Park'"
	}

	key := "placereviews:" + strings.ToLower(placeName) + "|" + strings.ToLower(locationHint)
	if s.cache != nil {
		if cached, ok, _ := s.cache.Get(ctx, key); ok {
			return cached
		}
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "ERROR: " + err.Error() + ". Please try again with a different place name or location."
	}
	defer s.sem.Release(1)

	// Provider A first; its result steers the TripAdvisor search.
	var gRes *domain.PlaceResult
	var gErr string
	if r, err := s.google.SearchAndFetchReviews(ctx, placeName, locationHint); err != nil {
		gErr = explainGoogleFailure(placeName, err)
		log.Warn().Str("place", placeName).Err(err).Msg("google places lookup failed")
	} else {
		gRes = &r
	}

	aRes, aErr := s.searchAdvisor(ctx, placeName, locationHint, gRes)

	verdict := s.rec.Reconcile(gRes, aRes)
	out := FormatCombined(verdict, placeName, locationHint, gErr, aErr)

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, s.cacheTTL)
	}
	return out
}

// searchAdvisor runs the multi-attempt TripAdvisor search. When Google
// succeeded with an address, its name becomes the query and location
// candidates are derived from the address; TripAdvisor's own free-text
// search is too unreliable to trust with the raw user input.
func (s *ReviewService) searchAdvisor(ctx context.Context, placeName, locationHint string, google *domain.PlaceResult) (*domain.PlaceResult, string) {
	attempts := advisorAttempts(placeName, locationHint, google)

	var lastErr error
	for i, at := range attempts {
		log.Info().
			Int("attempt", i+1).
			Str("query", at.query).
			Str("location", at.location).
			Msg("tripadvisor search attempt")
		r, err := s.advisor.SearchAndFetchReviews(ctx, at.query, at.location)
		if err == nil {
			return &r, ""
		}
		lastErr = err
	}
	log.Warn().Str("place", placeName).Err(lastErr).Int("attempts", len(attempts)).Msg("tripadvisor lookup exhausted")
	return nil, explainAdvisorFailure()
}

// advisorAttempts enumerates the (query, location) pairs in priority order,
// deduplicated. Falls back to the caller's own inputs when Google gave no
// address to mine.
func advisorAttempts(placeName, locationHint string, google *domain.PlaceResult) []searchAttempt {
	if google == nil || google.Address == nil {
		return []searchAttempt{{query: placeName, location: locationHint}}
	}

	parts := splitAddress(*google.Address)
	if len(parts) < 2 {
		return []searchAttempt{{query: google.Name, location: locationHint}}
	}

	// (a) "city, country" from the address tail, (b) just the city,
	// (c) the caller's own hint.
	candidates := []string{
		parts[len(parts)-2] + ", " + parts[len(parts)-1],
		parts[len(parts)-2],
	}
	if locationHint != "" {
		candidates = append(candidates, locationHint)
	}

	seen := make(map[string]struct{}, len(candidates))
	attempts := make([]searchAttempt, 0, len(candidates))
	for _, loc := range candidates {
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		attempts = append(attempts, searchAttempt{query: google.Name, location: loc})
	}
	return attempts
}

func splitAddress(addr string) []string {
	raw := strings.Split(addr, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return parts
}

func explainGoogleFailure(placeName string, err error) string {
	if domain.IsNotFound(err) || domain.IsValidation(err) {
		return fmt.Sprintf(
			"The place '%s' was not found in Google Places. Possible reasons:\n"+
				"1. The place name might be misspelled or incomplete\n"+
				"2. The location context might be too specific or incorrect\n"+
				"3. Try providing a more general location (e.g., 'Paris' instead of '123 Main St, Paris')\n"+
				"4. Try a more complete place name (e.g., 'Eiffel Tower' instead of just 'Eiffel')\n"+
				"5. The place might not exist in Google Places database",
			placeName)
	}
	return "Google Places API error: " + err.Error()
}

func explainAdvisorFailure() string {
	return "The place could not be found in TripAdvisor after trying multiple search strategies. " +
		"This might mean:\n" +
		"1. The place doesn't exist in TripAdvisor's database\n" +
		"2. The place name or location might need to be different on TripAdvisor\n" +
		"3. Try searching TripAdvisor directly with the place name"
}
