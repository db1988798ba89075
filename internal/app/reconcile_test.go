package app_test

import (
	"testing"

	"tripscout/internal/app"
	"tripscout/internal/domain"
)

func place(name string, addr *string) *domain.PlaceResult {
	return &domain.PlaceResult{PlaceID: "x", Name: name, Address: addr}
}

func TestReconcile_StreetNumberAndName(t *testing.T) {
	rc := app.NewReconciler()

	g := place("Dan Tel Aviv", ptr("99 Hayarkon Street, Tel Aviv-Yafo, Israel"))
	a := place("Dan Hotel", ptr("99 Hayarkon St., Tel Aviv 6340133 Israel"))

	v := rc.Reconcile(g, a)
	if !v.SamePlace || v.Basis != domain.MatchAddress {
		t.Fatalf("expected ADDRESS match, got same=%v basis=%s", v.SamePlace, v.Basis)
	}
}

func TestReconcile_SharedTokensWithoutNumbers(t *testing.T) {
	rc := app.NewReconciler()

	g := place("Colosseum", ptr("Piazza del Colosseo, Roma, Italy"))
	a := place("The Colosseum", ptr("Piazza del Colosseo 00184, Roma"))

	v := rc.Reconcile(g, a)
	if !v.SamePlace || v.Basis != domain.MatchAddress {
		t.Fatalf("expected ADDRESS match, got same=%v basis=%s", v.SamePlace, v.Basis)
	}
}

func TestReconcile_DifferentPlaces(t *testing.T) {
	rc := app.NewReconciler()

	g := place("Joe's Diner", ptr("123 Main St, Springfield"))
	a := place("Moe's Tavern", ptr("456 Oak Ave, Shelbyville"))

	v := rc.Reconcile(g, a)
	if v.SamePlace {
		t.Fatalf("expected different places, got basis=%s", v.Basis)
	}
	if v.Basis != domain.MatchNone {
		t.Fatalf("expected NONE basis, got %s", v.Basis)
	}
}

func TestReconcile_NameTieBreak(t *testing.T) {
	rc := app.NewReconciler()

	// No addresses; two significant shared name tokens carry the match.
	g := place("The Grand Budapest Hotel", nil)
	a := place("Grand Budapest Hotel Lobby Bar", nil)

	v := rc.Reconcile(g, a)
	if !v.SamePlace || v.Basis != domain.MatchName {
		t.Fatalf("expected NAME match, got same=%v basis=%s", v.SamePlace, v.Basis)
	}
}

func TestReconcile_NameThresholdConfigurable(t *testing.T) {
	rc := app.NewReconciler()
	rc.NameTokenThreshold = 3

	g := place("The Grand Budapest Hotel", nil)
	a := place("Grand Budapest Cafe", nil)

	// Only "grand" and "budapest" are shared; a threshold of 3 rejects it.
	if v := rc.Reconcile(g, a); v.SamePlace {
		t.Fatalf("expected no match with raised threshold, got basis=%s", v.Basis)
	}
}

func TestReconcile_AbsentSideIsTriviallySame(t *testing.T) {
	rc := app.NewReconciler()

	v := rc.Reconcile(place("Anything", nil), nil)
	if !v.SamePlace || v.Basis != domain.MatchNone {
		t.Fatalf("expected trivially same, got same=%v basis=%s", v.SamePlace, v.Basis)
	}
	v = rc.Reconcile(nil, nil)
	if !v.SamePlace {
		t.Fatalf("expected trivially same for two absent results")
	}
}

func TestReconcile_NumberMismatchFallsToName(t *testing.T) {
	rc := app.NewReconciler()

	// Same street, different numbers: address evidence says nothing, names
	// decide.
	g := place("Starbucks Reserve Roastery", ptr("10 Hudson Yards, New York"))
	a := place("Starbucks Reserve Roastery", ptr("61 Ninth Avenue, New York"))

	v := rc.Reconcile(g, a)
	if !v.SamePlace || v.Basis != domain.MatchName {
		t.Fatalf("expected NAME match, got same=%v basis=%s", v.SamePlace, v.Basis)
	}
}
