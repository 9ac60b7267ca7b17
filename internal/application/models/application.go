package models

import (
	"time"

	"github.com/google/uuid"
)

// Field names as they appear on the wire. Violations are keyed by these.
const (
	FieldFullName          = "fullName"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldResume            = "resume"
	FieldCoverLetter       = "coverLetter"
	FieldSalaryExpectation = "salaryExpectation"
	FieldStartDate         = "startDate"
	FieldNoticePeriod      = "noticePeriod"
	FieldIsRemote          = "isRemote"
	FieldOfficeLocation    = "officeLocation"
)

// Attachment is an uploaded file as received from the intake layer.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the attachment length in bytes.
func (a Attachment) Size() int64 {
	return int64(len(a.Data))
}

// RawSubmission is the field-keyed form payload before any coercion. Every value
// arrives as a string, exactly as a multipart form delivers it.
type RawSubmission struct {
	Fields map[string]string
	Files  []Attachment
}

// Draft is a decoded submission: strings have been coerced into their typed
// counterparts but no rule has been checked yet. Pointer fields are nil when the
// value was absent.
type Draft struct {
	FullName          string
	Email             string
	Phone             string
	Resumes           []Attachment
	CoverLetter       *string
	SalaryExpectation *float64
	StartDate         *time.Time
	NoticePeriod      *float64
	IsRemote          *bool
	OfficeLocation    *string
}

// Submission is a draft that passed schema validation: normalized and typed.
type Submission struct {
	FullName          string
	Email             string
	Phone             string
	Resume            Attachment
	CoverLetter       *string
	SalaryExpectation float64
	StartDate         *time.Time
	NoticePeriod      *int
	IsRemote          *bool
	OfficeLocation    *string
}

// Application is an accepted submission. It is never mutated after Append.
//
// Invariants:
//   - ID is unique and assigned by the store on append
//   - CreatedAt is set once, at acceptance
//   - ResumePath references the stored resume blob
type Application struct {
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
	ResumePath        string     `json:"resumePath"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// NewApplication builds the record stored for an accepted submission.
func NewApplication(sub *Submission, resumePath string, now time.Time) *Application {
	return &Application{
		FullName:          sub.FullName,
		Email:             sub.Email,
		Phone:             sub.Phone,
		CoverLetter:       sub.CoverLetter,
		SalaryExpectation: sub.SalaryExpectation,
		StartDate:         sub.StartDate,
		NoticePeriod:      sub.NoticePeriod,
		IsRemote:          sub.IsRemote,
		OfficeLocation:    sub.OfficeLocation,
		ResumePath:        resumePath,
		CreatedAt:         now,
	}
}

// Clone returns a deep copy so stored records cannot be mutated through a
// returned pointer.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	c.CoverLetter = clonePtr(a.CoverLetter)
	c.StartDate = clonePtr(a.StartDate)
	c.NoticePeriod = clonePtr(a.NoticePeriod)
	c.IsRemote = clonePtr(a.IsRemote)
	c.OfficeLocation = clonePtr(a.OfficeLocation)
	return &c
}

// NewApplicationID returns a time-ordered UUIDv7. The random tail keeps
// collisions negligible for appends within the same millisecond.
func NewApplicationID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
