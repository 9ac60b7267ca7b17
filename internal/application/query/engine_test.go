package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"hirepath/internal/application/models"
)

var t0 = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func app(id, name, email string, createdAt time.Time) *models.Application {
	return &models.Application{
		ID:                id,
		FullName:          name,
		Email:             email,
		Phone:             "5551234567",
		SalaryExpectation: 50000.129,
		CreatedAt:         createdAt,
	}
}

func ids(r models.ListingResult) []string {
	out := make([]string, 0, len(r.Results))
	for _, v := range r.Results {
		out = append(out, v.ID)
	}
	return out
}

type EngineSuite struct {
	suite.Suite
	engine  *Engine
	records []*models.Application
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine()
	// Insertion order: T2, T1, T3.
	s.records = []*models.Application{
		app("t2", "Bob", "bob@example.com", t0.Add(2*time.Hour)),
		app("t1", "alice", "alice@work.org", t0.Add(1*time.Hour)),
		app("t3", "Carol", "carol@example.com", t0.Add(3*time.Hour)),
	}
}

func (s *EngineSuite) query(q models.ListingQuery) models.ListingResult {
	if q.Limit == 0 {
		q.Limit = 10
	}
	return s.engine.Query(s.records, q)
}

func (s *EngineSuite) TestSortOldestAndNewest() {
	s.Equal([]string{"t1", "t2", "t3"}, ids(s.query(models.ListingQuery{Sort: models.SortOldest})))
	s.Equal([]string{"t3", "t2", "t1"}, ids(s.query(models.ListingQuery{Sort: models.SortNewest})))
}

func (s *EngineSuite) TestSortNameIsLocaleAware() {
	r := s.query(models.ListingQuery{Sort: models.SortName})

	names := make([]string, 0, len(r.Results))
	for _, v := range r.Results {
		names = append(names, v.FullName)
	}
	s.Equal([]string{"alice", "Bob", "Carol"}, names)
}

func (s *EngineSuite) TestSortTiesKeepInsertionOrder() {
	s.records = []*models.Application{
		app("a", "Same", "a@example.com", t0),
		app("b", "Same", "b@example.com", t0),
		app("c", "Same", "c@example.com", t0),
	}
	for _, key := range []models.SortKey{models.SortNewest, models.SortOldest, models.SortName} {
		s.Equal([]string{"a", "b", "c"}, ids(s.query(models.ListingQuery{Sort: key})), key)
	}
}

func (s *EngineSuite) TestUnknownSortKeepsInsertionOrder() {
	s.Equal([]string{"t2", "t1", "t3"}, ids(s.query(models.ListingQuery{Sort: "salary"})))
	s.Equal([]string{"t2", "t1", "t3"}, ids(s.query(models.ListingQuery{})))
}

func (s *EngineSuite) TestSearchMatchesNameOrEmailIgnoringCase() {
	s.Equal([]string{"t2"}, ids(s.query(models.ListingQuery{Search: "BOB"})))
	s.Equal([]string{"t1"}, ids(s.query(models.ListingQuery{Search: "WORK.ORG"})))
	s.Equal([]string{"t2", "t3"}, ids(s.query(models.ListingQuery{Search: "example.com"})))
	s.Empty(ids(s.query(models.ListingQuery{Search: "zed"})))
}

func (s *EngineSuite) TestPageBeyondEndIsEmpty() {
	r := s.engine.Query(s.records, models.ListingQuery{Page: 5, Limit: 10})

	s.Equal(3, r.Total)
	s.Equal(1, r.TotalPages)
	s.Equal(5, r.Page)
	s.NotNil(r.Results)
	s.Empty(r.Results)
}

func (s *EngineSuite) TestClampsPageAndLimit() {
	r := s.engine.Query(s.records, models.ListingQuery{Page: -3, Limit: 500})
	s.Equal(1, r.Page)
	s.Len(r.Results, 3)

	r = s.engine.Query(s.records, models.ListingQuery{Page: 2, Limit: 0})
	s.Equal([]string{"t1"}, ids(r), "limit 0 clamps to 1")
	s.Equal(3, r.TotalPages)
}

func (s *EngineSuite) TestResultsAreRedacted() {
	r := s.query(models.ListingQuery{})
	for _, v := range r.Results {
		s.Regexp(`^\*\*\*\d{3}$`, v.Phone)
		s.Regexp(`^.{3}\*{3}@`, v.Email)
		s.Equal(50000.13, v.SalaryExpectation)
	}
}

func (s *EngineSuite) TestQueryIsIdempotentAndDoesNotMutateInput() {
	q := models.ListingQuery{Search: "o", Sort: models.SortName, Page: 1, Limit: 2}
	first := s.engine.Query(s.records, q)
	second := s.engine.Query(s.records, q)

	s.Equal(first, second)
	s.Equal("t2", s.records[0].ID)
	s.Equal("bob@example.com", s.records[0].Email)
}

func TestPaginationCoversEveryRecordExactlyOnce(t *testing.T) {
	engine := NewEngine()
	var records []*models.Application
	for i := range 23 {
		records = append(records, app(fmt.Sprintf("id-%02d", i), fmt.Sprintf("Name %02d", i),
			fmt.Sprintf("n%02d@example.com", i), t0.Add(time.Duration(i)*time.Minute)))
	}

	for _, limit := range []int{1, 3, 7, 10, 23, 50} {
		first := engine.Query(records, models.ListingQuery{Sort: models.SortOldest, Page: 1, Limit: limit})
		require.Equal(t, 23, first.Total)

		seen := map[string]bool{}
		sum := 0
		for page := 1; page <= first.TotalPages; page++ {
			r := engine.Query(records, models.ListingQuery{Sort: models.SortOldest, Page: page, Limit: limit})
			assert.LessOrEqual(t, len(r.Results), limit)
			sum += len(r.Results)
			for _, v := range r.Results {
				assert.False(t, seen[v.ID], "duplicate %s", v.ID)
				seen[v.ID] = true
			}
		}
		assert.Equal(t, first.Total, sum, "limit %d", limit)
	}
}

func TestEmptyStore(t *testing.T) {
	r := NewEngine().Query(nil, models.ListingQuery{Page: 1, Limit: 10})
	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0, r.TotalPages)
	assert.Empty(t, r.Results)
}

func TestWithLocaleIgnoresInvalidTag(t *testing.T) {
	e := NewEngine(WithLocale("!!"))
	assert.Equal(t, "und", e.locale.String())

	e = NewEngine(WithLocale("sv"))
	assert.Equal(t, "sv", e.locale.String())
}
