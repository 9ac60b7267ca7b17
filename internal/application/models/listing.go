package models

import "time"

// SortKey orders a listing.
type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortName   SortKey = "name"
)

// IsValid reports whether the engine knows how to apply the key. Unknown keys
// are accepted and leave the filtered order untouched.
func (k SortKey) IsValid() bool {
	switch k {
	case SortNewest, SortOldest, SortName:
		return true
	}
	return false
}

const (
	MinLimit = 1
	MaxLimit = 50
)

// ListingQuery selects one page of applications. LimitSet marks a limit the
// caller supplied explicitly, so an explicit 0 clamps to MinLimit instead of
// falling back to the default page size.
type ListingQuery struct {
	Search   string
	Sort     SortKey
	Page     int
	Limit    int
	LimitSet bool
}

// Normalize clamps page to ≥1 and limit to [MinLimit, MaxLimit].
func (q ListingQuery) Normalize() ListingQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < MinLimit {
		q.Limit = MinLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// ApplicationView is the privacy-preserving projection used by listing and
// single-record fetch. Phone and email are masked, salary is rounded.
type ApplicationView struct {
	ID                string     `json:"id"`
	FullName          string     `json:"fullName"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	CoverLetter       *string    `json:"coverLetter,omitempty"`
	SalaryExpectation float64    `json:"salaryExpectation"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	NoticePeriod      *int       `json:"noticePeriod,omitempty"`
	IsRemote          *bool      `json:"isRemote,omitempty"`
	OfficeLocation    *string    `json:"officeLocation,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ListingResult is one page of redacted applications.
type ListingResult struct {
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Results    []ApplicationView `json:"results"`
}
