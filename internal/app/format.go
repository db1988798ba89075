package app

import (
	"fmt"
	"strings"
	"time"

	"tripscout/internal/domain"
)

// The combined output is a fixed template consumed by the language model.
// Keep it deterministic: same inputs, same bytes.

const (
	sourceGoogle  = "Google Places"
	sourceAdvisor = "TripAdvisor"

	ruleHeavy = "============================================================"
	ruleLight = "------------------------------------------------------------"
)

// FormatCombined renders the reconciled results (or their failure
// explanations) into the single string handed back to the agent.
func FormatCombined(v domain.ReconciliationVerdict, query, locationHint, googleErr, advisorErr string) string {
	var b strings.Builder

	b.WriteString("\nPLACE REVIEWS SUMMARY\n")
	b.WriteString(ruleHeavy + "\n")
	b.WriteString("Search Query: " + query)
	if locationHint != "" {
		b.WriteString(" (in " + locationHint + ")")
	}
	b.WriteString("\n" + ruleHeavy + "\n")

	bothFound := v.Google != nil && v.Advisor != nil
	if !v.SamePlace && bothFound {
		b.WriteString("\n⚠️ WARNING: DIFFERENT PLACES FOUND\n")
		b.WriteString("Google Places and TripAdvisor returned different locations:\n")
		fmt.Fprintf(&b, "  • Google Places: %s at %s\n", v.Google.Name, addressOr(v.Google.Address))
		fmt.Fprintf(&b, "  • TripAdvisor: %s at %s\n", v.Advisor.Name, addressOr(v.Advisor.Address))
		b.WriteString("Please note these are DIFFERENT places. Provide information separately and ask the user which one they want details about.\n")
		b.WriteString(ruleLight + "\n\n")
	}

	b.WriteString("\n📍 LOCATION INFORMATION:\n")
	writeLocationSummary(&b, sourceGoogle, v.Google)
	writeLocationSummary(&b, sourceAdvisor, v.Advisor)
	if v.SamePlace && bothFound && v.Google.Rating != nil && v.Advisor.Rating != nil {
		avg := (*v.Google.Rating + *v.Advisor.Rating) / 2
		fmt.Fprintf(&b, "  • Average Rating: %.1f/5.0\n", avg)
	}
	b.WriteString("\n" + ruleLight + "\n\n")

	b.WriteString(providerBlock(sourceGoogle, v.Google, query, googleErr))
	b.WriteString("\n")
	b.WriteString(providerBlock(sourceAdvisor, v.Advisor, query, advisorErr))

	b.WriteString("\n" + ruleHeavy + "\n")
	b.WriteString("SUMMARY:\n")
	b.WriteString("This tool searched for reviews from both Google Places and TripAdvisor.\n")
	if !v.SamePlace {
		b.WriteString("⚠️ IMPORTANT: Different places were found. Clearly indicate this to the user and separate the information for each place.\n")
		b.WriteString("IMPORTANT: Ask the user which place they're interested in, or if they want details about both.\n")
	} else {
		b.WriteString("The address(es) and ratings shown above indicate the location found.\n")
	}
	b.WriteString("If either API returned an error, see the error explanation above.\n")
	b.WriteString("If no reviews were found, the place might not exist or have reviews.\n")
	b.WriteString("You can suggest the user try a different place name or location.\n")
	b.WriteString(ruleHeavy + "\n")

	return b.String()
}

func writeLocationSummary(b *strings.Builder, source string, p *domain.PlaceResult) {
	if p == nil || p.Address == nil {
		return
	}
	fmt.Fprintf(b, "  📍 %s:\n", source)
	fmt.Fprintf(b, "     Name: %s\n", p.Name)
	fmt.Fprintf(b, "     Address: %s\n", *p.Address)
	if p.Rating != nil {
		fmt.Fprintf(b, "     Rating: %.1f/5.0\n", *p.Rating)
	}
}

// providerBlock renders one provider's section: either its place data with
// the enumerated reviews, or an ERROR status with the explanation.
func providerBlock(source string, p *domain.PlaceResult, query, errMsg string) string {
	var b strings.Builder
	b.WriteString("\n" + ruleHeavy + "\n")
	b.WriteString("Source: " + source + "\n")

	if errMsg != "" || p == nil {
		if errMsg == "" {
			errMsg = fmt.Sprintf("No result available for %q", query)
		}
		b.WriteString("Status: ERROR - " + errMsg + "\n")
		b.WriteString(ruleHeavy + "\n")
		return b.String()
	}

	if p.Address != nil {
		b.WriteString("📍 ADDRESS: " + *p.Address + "\n")
		b.WriteString(ruleLight + "\n")
	}
	b.WriteString("Place Name: " + p.Name + "\n")
	if p.Rating != nil {
		fmt.Fprintf(&b, "Overall Rating: %.1f/5.0\n", *p.Rating)
	}
	if p.TotalReviews != nil {
		fmt.Fprintf(&b, "Total Reviews: %d\n", *p.TotalReviews)
	}

	if len(p.Reviews) == 0 {
		b.WriteString("Reviews: No reviews available\n")
	} else {
		fmt.Fprintf(&b, "\nReviews (%d latest):\n", len(p.Reviews))
		b.WriteString(ruleLight + "\n")
		for i, r := range p.Reviews {
			fmt.Fprintf(&b, "\nReview %d:\n", i+1)
			if r.Rating != nil {
				fmt.Fprintf(&b, "  Rating: %.1f/5.0\n", *r.Rating)
			}
			b.WriteString("  Review Text: " + r.Text + "\n")
			if r.Time != nil {
				b.WriteString("  Date: " + time.Unix(*r.Time, 0).UTC().Format("2006-01-02") + "\n")
			}
			if r.RelativeTime != nil && *r.RelativeTime != "" {
				b.WriteString("  Posted: " + *r.RelativeTime + "\n")
			}
		}
	}

	b.WriteString("\n" + ruleHeavy + "\n")
	return b.String()
}

func addressOr(p *string) string {
	if p == nil || *p == "" {
		return "Address not available"
	}
	return *p
}
