package booking

import (
	"context"
	"time"
)

// candidateFinder is the single query SQLMatcher needs; WorkerRepo
// implements it.
type candidateFinder interface {
	FindCandidate(ctx context.Context, categoryID uint64, pincode, city string, slot time.Time, excluded []uint64) (uint64, float64, error)
}

// SQLMatcher is the default Matcher, backed by the ranked candidate
// query in the worker repository.  Deployments with a dedicated
// matching service swap in their own Matcher at wiring time.
type SQLMatcher struct {
	finder candidateFinder
}

// NewSQLMatcher wraps the repository candidate query as a Matcher.
func NewSQLMatcher(finder candidateFinder) *SQLMatcher {
	return &SQLMatcher{finder: finder}
}

// Match returns the top-ranked free worker for the request, or nil
// when none exists.
func (m *SQLMatcher) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	id, score, err := m.finder.FindCandidate(ctx, req.CategoryID, req.Pincode, req.City, req.Slot, req.Excluded)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return &MatchResult{WorkerID: id, Score: score}, nil
}
