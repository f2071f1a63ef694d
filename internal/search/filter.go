// Package search narrows an advocate record set against free-text input.
package search

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"AdvocateDirectory/internal/domain"
)

// Matches reports whether the advocate matches the query. Text fields are
// compared case-insensitively; years of experience are compared against the
// raw query.
func Matches(a domain.Advocate, query string) bool {
	return matchesLowered(a, query, strings.ToLower(query))
}

func matchesLowered(a domain.Advocate, raw, lowered string) bool {
	if strings.Contains(strings.ToLower(a.FirstName), lowered) ||
		strings.Contains(strings.ToLower(a.LastName), lowered) ||
		strings.Contains(strings.ToLower(a.City), lowered) ||
		strings.Contains(strings.ToLower(a.Degree), lowered) {
		return true
	}
	for _, s := range a.Specialties {
		if strings.Contains(strings.ToLower(s), lowered) {
			return true
		}
	}
	return strings.Contains(strconv.Itoa(a.YearsOfExperience), raw)
}

// Filter returns records unchanged for an empty query, otherwise the matching
// records in their original order. The query is not trimmed.
func Filter(records []domain.Advocate, query string) []domain.Advocate {
	if query == "" {
		return records
	}

	lowered := strings.ToLower(query)
	out := make([]domain.Advocate, 0, len(records))
	for _, a := range records {
		if matchesLowered(a, query, lowered) {
			out = append(out, a)
		}
	}
	return out
}

// Set is an immutable full record set. Its pointer identity is what the
// Engine memoizes on, so a new fetch must produce a new Set.
type Set struct {
	records []domain.Advocate
}

// NewSet copies records into a new Set.
func NewSet(records []domain.Advocate) *Set {
	cp := make([]domain.Advocate, len(records))
	copy(cp, records)
	return &Set{records: cp}
}

// Records returns the full set. Callers must not modify it.
func (s *Set) Records() []domain.Advocate {
	if s == nil {
		return nil
	}
	return s.records
}

// Len returns the number of records.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Engine memoizes Filter against the last (set, query) pair. It is not safe
// for concurrent use.
type Engine struct {
	logger *zap.Logger

	lastSet    *Set
	lastQuery  string
	lastResult []domain.Advocate
	primed     bool

	computations int
}

// NewEngine builds an engine; a nil logger disables diagnostics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Filter returns the visible subset of set for query, reusing the previous
// result when neither input changed.
func (e *Engine) Filter(set *Set, query string) []domain.Advocate {
	if e.primed && set == e.lastSet && query == e.lastQuery {
		return e.lastResult
	}

	var result []domain.Advocate
	if query == "" {
		result = set.Records()
	} else {
		e.computations++
		e.logger.Debug("filtering advocates",
			zap.String("query", query),
			zap.Int("records", set.Len()),
		)
		result = Filter(set.Records(), query)
	}

	e.lastSet = set
	e.lastQuery = query
	e.lastResult = result
	e.primed = true
	return result
}

// Computations returns how many non-empty filter passes actually ran.
func (e *Engine) Computations() int {
	return e.computations
}
