package services

import (
	"errors"
	"sort"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/errs"
)

// ErrZoneNotFound is returned by Resolve when no active zone contains the point.
var ErrZoneNotFound = errors.New("zone not found")

// ErrQueryIsRequired is returned by Search for a blank query.
var ErrQueryIsRequired = errs.NewValueIsRequiredError("query")

// MatchRank orders search hits. Lower ranks come first.
type MatchRank int

const (
	// MatchNamePrefix means the zone name starts with the query.
	MatchNamePrefix MatchRank = iota
	// MatchLandmarkPrefix means one of the landmarks starts with the query.
	MatchLandmarkPrefix
	// MatchSubstring means the query occurs inside the name or a landmark.
	MatchSubstring
)

func (r MatchRank) String() string {
	switch r {
	case MatchNamePrefix:
		return "NAME_PREFIX"
	case MatchLandmarkPrefix:
		return "LANDMARK_PREFIX"
	case MatchSubstring:
		return "SUBSTRING"
	}
	return "UNKNOWN"
}

// Match is one neighborhood search hit.
type Match struct {
	Zone *zone.Zone
	Rank MatchRank
	// Landmark is the landmark that matched, empty when the name matched.
	Landmark string
}

// ZoneResolver is a domain service that picks zones for coordinates and ranks
// zones for free-text neighborhood search.
//
// Business rules:
//   - Only active zones resolve a coordinate
//   - Overlapping zones are decided by priority, then the most recently created
//     zone, then the smaller id, so resolution is deterministic
//   - Search is case-insensitive and covers zones in any status
//
// Example usage:
//
//	resolver := services.NewZoneResolver()
//	z, err := resolver.Resolve(point, activeZones)
//	if errors.Is(err, services.ErrZoneNotFound) {
//	    // the point is outside the delivery area
//	}
type ZoneResolver struct{}

func NewZoneResolver() ZoneResolver {
	return ZoneResolver{}
}

// Resolve returns the zone that serves point.
//
// Returns:
//   - *zone.Zone: the winning active zone containing point
//   - error: ErrZoneNotFound when none contains it, or a validation error
func (r ZoneResolver) Resolve(point kernel.GeoPoint, zones []*zone.Zone) (*zone.Zone, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	var best *zone.Zone
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return nil, err
		}
		if !z.IsActive() || !z.Contains(point) {
			continue
		}
		if best == nil || outranks(z, best) {
			best = z
		}
	}

	if best == nil {
		return nil, ErrZoneNotFound
	}

	return best, nil
}

// Search matches query against zone names and landmarks and returns hits
// ordered by rank, then priority (highest first), then name.
func (r ZoneResolver) Search(query string, zones []*zone.Zone) ([]Match, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, ErrQueryIsRequired
	}

	matches := make([]Match, 0)
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return nil, err
		}
		if m, ok := matchZone(z, needle); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if a.Zone.Priority() != b.Zone.Priority() {
			return a.Zone.Priority() > b.Zone.Priority()
		}
		an, bn := strings.ToLower(a.Zone.Name()), strings.ToLower(b.Zone.Name())
		if an != bn {
			return an < bn
		}
		return a.Zone.ID().String() < b.Zone.ID().String()
	})

	return matches, nil
}

// outranks reports whether candidate beats current for an overlapping point.
func outranks(candidate, current *zone.Zone) bool {
	if candidate.Priority() != current.Priority() {
		return candidate.Priority() > current.Priority()
	}
	if !candidate.CreatedAt().Equal(current.CreatedAt()) {
		return candidate.CreatedAt().After(current.CreatedAt())
	}
	return candidate.ID().String() < current.ID().String()
}

func matchZone(z *zone.Zone, needle string) (Match, bool) {
	name := strings.ToLower(z.Name())
	if strings.HasPrefix(name, needle) {
		return Match{Zone: z, Rank: MatchNamePrefix}, true
	}

	for _, landmark := range z.Landmarks() {
		if strings.HasPrefix(strings.ToLower(landmark), needle) {
			return Match{Zone: z, Rank: MatchLandmarkPrefix, Landmark: landmark}, true
		}
	}

	if strings.Contains(name, needle) {
		return Match{Zone: z, Rank: MatchSubstring}, true
	}
	for _, landmark := range z.Landmarks() {
		if strings.Contains(strings.ToLower(landmark), needle) {
			return Match{Zone: z, Rank: MatchSubstring, Landmark: landmark}, true
		}
	}

	return Match{}, false
}
