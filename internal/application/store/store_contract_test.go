package store_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"hirepath/internal/application/models"
	"hirepath/internal/application/store"
	"hirepath/pkg/platform/sentinel"
)

// contractSuite exercises behaviour every backend must share. Backend suites
// embed it and set newStore.
type contractSuite struct {
	suite.Suite
	newStore func() store.Store
}

func ptr[T any](v T) *T { return &v }

func newApplication(name string, createdAt time.Time) *models.Application {
	return &models.Application{
		FullName:          name,
		Email:             "candidate@example.com",
		Phone:             "5551234567",
		CoverLetter:       ptr("Hello"),
		SalaryExpectation: 65000.5,
		StartDate:         ptr(createdAt.Add(60 * 24 * time.Hour)),
		NoticePeriod:      ptr(30),
		IsRemote:          ptr(false),
		OfficeLocation:    ptr("Lisbon"),
		ResumePath:        "uploads/" + name + ".pdf",
		CreatedAt:         createdAt,
	}
}

func (s *contractSuite) TestAppendAssignsIDAndRoundTrips() {
	ctx := context.Background()
	st := s.newStore()
	createdAt := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	app := newApplication("Ada Lovelace", createdAt)

	id, err := st.Append(ctx, app)
	s.Require().NoError(err)
	s.NotEmpty(id)
	s.Empty(app.ID, "caller's record is not mutated")

	got, err := st.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("Ada Lovelace", got.FullName)
	s.True(createdAt.Equal(got.CreatedAt))
	s.Require().NotNil(got.NoticePeriod)
	s.Equal(30, *got.NoticePeriod)
	s.Require().NotNil(got.IsRemote)
	s.False(*got.IsRemote)
	s.Equal("Lisbon", *got.OfficeLocation)
	s.Equal("uploads/Ada Lovelace.pdf", got.ResumePath)
}

func (s *contractSuite) TestOptionalFieldsStayAbsent() {
	ctx := context.Background()
	st := s.newStore()
	app := &models.Application{
		FullName:          "Grace Hopper",
		Email:             "grace@example.com",
		Phone:             "5550000000",
		SalaryExpectation: 90000,
		ResumePath:        "uploads/g.pdf",
		CreatedAt:         time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
	}

	id, err := st.Append(ctx, app)
	s.Require().NoError(err)
	got, err := st.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(got.CoverLetter)
	s.Nil(got.StartDate)
	s.Nil(got.NoticePeriod)
	s.Nil(got.IsRemote)
	s.Nil(got.OfficeLocation)
}

func (s *contractSuite) TestGetUnknownIsNotFound() {
	_, err := s.newStore().Get(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestListPreservesInsertionOrder() {
	ctx := context.Background()
	st := s.newStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	// createdAt deliberately runs backwards to prove List ignores it.
	var want []string
	for i := range 5 {
		id, err := st.Append(ctx, newApplication(fmt.Sprintf("Candidate %c", 'A'+i), base.Add(-time.Duration(i)*time.Hour)))
		s.Require().NoError(err)
		want = append(want, id)
	}

	got, err := st.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, len(want))
	for i, app := range got {
		s.Equal(want[i], app.ID)
	}
}

func (s *contractSuite) TestDuplicateIDConflicts() {
	ctx := context.Background()
	st := s.newStore()
	app := newApplication("Dup", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	app.ID = "fixed-id"

	_, err := st.Append(ctx, app)
	s.Require().NoError(err)
	_, err = st.Append(ctx, app)
	s.ErrorIs(err, sentinel.ErrConflict)

	all, err := st.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *contractSuite) TestConcurrentAppendsAreAllKept() {
	ctx := context.Background()
	st := s.newStore()
	const writers = 40

	var wg sync.WaitGroup
	ids := make(chan string, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := st.Append(ctx, newApplication(fmt.Sprintf("Writer %d", i), time.Now().UTC()))
			if err == nil {
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	s.Len(seen, writers)

	all, err := st.List(ctx)
	s.Require().NoError(err)
	s.Len(all, writers)
	for _, app := range all {
		s.True(seen[app.ID])
	}
}
