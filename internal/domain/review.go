package domain

// Review is one normalized provider review. Author-identifying fields are
// stripped at the adapter boundary and never reach this type.
type Review struct {
	Rating       *float64
	Text         string
	Time         *int64 // unix seconds
	RelativeTime *string
}

// PlaceResult is one provider's answer for a place query. Reviews keep the
// provider's sort order (latest-first, untimestamped reviews last).
type PlaceResult struct {
	PlaceID      string
	Name         string
	Address      *string
	Rating       *float64
	TotalReviews *int
	Reviews      []Review
}

// MatchBasis records which signal decided a reconciliation verdict.
type MatchBasis string

const (
	MatchAddress MatchBasis = "ADDRESS"
	MatchName    MatchBasis = "NAME"
	MatchNone    MatchBasis = "NONE"
)

// ReconciliationVerdict is the reconciler's answer for one request. With one
// or both results absent SamePlace is trivially true: there is nothing to
// contradict.
type ReconciliationVerdict struct {
	SamePlace bool
	Google    *PlaceResult
	Advisor   *PlaceResult
	Basis     MatchBasis
}
