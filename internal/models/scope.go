package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrIncompleteScope is returned before any SQL is built when one of the
// scope fields is missing.
var ErrIncompleteScope = errors.New("incomplete scope")

// Scope narrows every query to one operational unit: a route/stocker pair
// plus the store being serviced.
type Scope struct {
	RouteID   string `json:"route_id"`
	StockerID string `json:"stocker_id"`
	StoreCode string `json:"store_code"`
}

func (s Scope) Validate() error {
	switch {
	case strings.TrimSpace(s.RouteID) == "":
		return fmt.Errorf("%w: route_id is required", ErrIncompleteScope)
	case strings.TrimSpace(s.StockerID) == "":
		return fmt.Errorf("%w: stocker_id is required", ErrIncompleteScope)
	case strings.TrimSpace(s.StoreCode) == "":
		return fmt.Errorf("%w: store_code is required", ErrIncompleteScope)
	}
	return nil
}

// Focus selects the negative-stock and/or stockout-risk subsets of a listing.
type Focus int

const (
	FocusAll Focus = iota
	FocusNegatives
	FocusRisk
	FocusNegativesAndRisk
)

func (f Focus) Negatives() bool {
	return f == FocusNegatives || f == FocusNegativesAndRisk
}

func (f Focus) Risk() bool {
	return f == FocusRisk || f == FocusNegativesAndRisk
}

func (f Focus) String() string {
	switch f {
	case FocusNegatives:
		return "negatives"
	case FocusRisk:
		return "risk"
	case FocusNegativesAndRisk:
		return "negatives+risk"
	default:
		return "all"
	}
}

// ParseFocus accepts the wire values used by the listing endpoints.
// Unknown values fall back to FocusAll.
func ParseFocus(s string) Focus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negatives":
		return FocusNegatives
	case "risk":
		return FocusRisk
	case "negatives+risk", "negatives_and_risk":
		return FocusNegativesAndRisk
	default:
		return FocusAll
	}
}

// minSearchLen is the minimum trimmed length before a search term
// contributes a predicate.
const minSearchLen = 2

// FilterSet is the optional filter state applied on top of a Scope.
// An empty brand list means "all brands".
type FilterSet struct {
	Brands []string `json:"brands"`
	Focus  Focus    `json:"focus"`
	Search string   `json:"search"`
}

// ActiveSearch returns the trimmed search term and whether it is long
// enough to activate the search predicate. Length is counted in
// characters, not bytes, so accented terms are measured correctly.
func (f FilterSet) ActiveSearch() (string, bool) {
	s := strings.TrimSpace(f.Search)
	return s, utf8.RuneCountInString(s) >= minSearchLen
}
