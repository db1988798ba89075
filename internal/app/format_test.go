package app_test

import (
	"strings"
	"testing"

	"tripscout/internal/app"
	"tripscout/internal/domain"
)

func TestFormatCombined_MatchedPlaces(t *testing.T) {
	g := &domain.PlaceResult{
		PlaceID: "g1", Name: "Dan Tel Aviv",
		Address: ptr("99 Hayarkon Street, Tel Aviv"),
		Rating:  pfloat(4.5), TotalReviews: ptr(1200),
		Reviews: []domain.Review{
			{Rating: pfloat(5), Text: "Great stay", Time: pint64(1700000000)},
		},
	}
	a := &domain.PlaceResult{
		PlaceID: "t1", Name: "Dan Tel Aviv Hotel",
		Address: ptr("99 Hayarkon St, Tel Aviv"),
		Rating:  pfloat(4.0), TotalReviews: ptr(800),
		Reviews: []domain.Review{
			{Rating: pfloat(4), Text: "Nice view", RelativeTime: ptr("2 weeks ago")},
		},
	}
	v := domain.ReconciliationVerdict{SamePlace: true, Google: g, Advisor: a, Basis: domain.MatchAddress}

	out := app.FormatCombined(v, "Dan Tel Aviv", "Tel Aviv", "", "")

	for _, want := range []string{
		"PLACE REVIEWS SUMMARY",
		"Search Query: Dan Tel Aviv (in Tel Aviv)",
		"📍 LOCATION INFORMATION:",
		"  • Average Rating: 4.2/5.0",
		"Source: Google Places",
		"Source: TripAdvisor",
		"Overall Rating: 4.5/5.0",
		"Total Reviews: 1200",
		"Review 1:",
		"  Date: 2023-11-14",
		"  Posted: 2 weeks ago",
		"SUMMARY:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "DIFFERENT PLACES FOUND") {
		t.Fatalf("unexpected mismatch warning:\n%s", out)
	}
	if n := strings.Count(out, "Average Rating:"); n != 1 {
		t.Fatalf("expected exactly one average line, got %d", n)
	}
}

func TestFormatCombined_DifferentPlacesWarning(t *testing.T) {
	g := &domain.PlaceResult{PlaceID: "g1", Name: "Joe's Diner", Address: ptr("123 Main St, Springfield"), Rating: pfloat(4.0)}
	a := &domain.PlaceResult{PlaceID: "t1", Name: "Moe's Tavern", Address: ptr("456 Oak Ave, Shelbyville"), Rating: pfloat(3.5)}
	v := domain.ReconciliationVerdict{SamePlace: false, Google: g, Advisor: a, Basis: domain.MatchNone}

	out := app.FormatCombined(v, "diner", "", "", "")

	for _, want := range []string{
		"⚠️ WARNING: DIFFERENT PLACES FOUND",
		"  • Google Places: Joe's Diner at 123 Main St, Springfield",
		"  • TripAdvisor: Moe's Tavern at 456 Oak Ave, Shelbyville",
		"⚠️ IMPORTANT: Different places were found.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Average Rating:") {
		t.Fatalf("average must not be shown for different places:\n%s", out)
	}
}

func TestFormatCombined_BothProvidersFailed(t *testing.T) {
	v := domain.ReconciliationVerdict{SamePlace: true, Basis: domain.MatchNone}

	out := app.FormatCombined(v, "Atlantis", "", "google broke", "advisor broke")

	if !strings.Contains(out, "Status: ERROR - google broke") {
		t.Fatalf("missing google error block:\n%s", out)
	}
	if !strings.Contains(out, "Status: ERROR - advisor broke") {
		t.Fatalf("missing advisor error block:\n%s", out)
	}
	// Still a full template: header and summary frame both present.
	if !strings.Contains(out, "PLACE REVIEWS SUMMARY") || !strings.Contains(out, "SUMMARY:") {
		t.Fatalf("expected full template:\n%s", out)
	}
}

func TestFormatCombined_Deterministic(t *testing.T) {
	g := &domain.PlaceResult{PlaceID: "g1", Name: "Louvre", Address: ptr("Rue de Rivoli, Paris"), Rating: pfloat(4.7)}
	v := domain.ReconciliationVerdict{SamePlace: true, Google: g, Basis: domain.MatchNone}

	a := app.FormatCombined(v, "Louvre", "Paris", "", "tripadvisor down")
	b := app.FormatCombined(v, "Louvre", "Paris", "", "tripadvisor down")
	if a != b {
		t.Fatalf("same inputs must produce identical output")
	}
}
