// Package validation decides whether a decoded draft may become an application.
//
// Two stages run in order:
//
//  1. Schema rules check each field and the cross-field conditions. Every rule
//     runs; all violations are collected so the form can show them together.
//  2. Business rules run only on a schema-valid submission. Any business
//     violation rejects the whole submission and only the business violations
//     are returned.
//
// Rules are independent predicates. Adding one means appending to a list, not
// editing a chain.
package validation

import (
	"strings"
	"time"

	"hirepath/internal/application/models"
	dErrors "hirepath/pkg/domain-errors"
)

// Violation kinds. KindBusinessRule lets callers tell policy failures from
// structural ones.
const (
	KindRequired     = "required"
	KindInvalid      = "invalid"
	KindBusinessRule = "business_rule"
)

// Violation is a single failed check attached to one field.
type Violation struct {
	Field   string
	Kind    string
	Message string
}

// Rule checks a decoded draft against the validation timestamp.
type Rule func(d *models.Draft, now time.Time) []Violation

// BusinessRule checks a submission that already passed every schema rule.
type BusinessRule func(s *models.Submission) []Violation

// Validator runs the schema rules and then the business rules.
type Validator struct {
	schema   []Rule
	business []BusinessRule
}

type Option func(*Validator)

// WithEmailDomainSuffix enables the stricter email variant: addresses must end
// with suffix (for example ".com"). Matching is case-insensitive.
func WithEmailDomainSuffix(suffix string) Option {
	return func(v *Validator) {
		suffix = strings.TrimSpace(suffix)
		if suffix == "" {
			return
		}
		v.schema = append(v.schema, emailSuffixRule(suffix))
	}
}

// WithMaxResumeBytes rejects resumes larger than limit. Zero or negative
// disables the check.
func WithMaxResumeBytes(limit int64) Option {
	return func(v *Validator) {
		if limit > 0 {
			v.schema = append(v.schema, resumeSizeRule(limit))
		}
	}
}

// WithRules appends extra schema rules.
func WithRules(rules ...Rule) Option {
	return func(v *Validator) {
		v.schema = append(v.schema, rules...)
	}
}

// WithBusinessRules appends extra business rules.
func WithBusinessRules(rules ...BusinessRule) Option {
	return func(v *Validator) {
		v.business = append(v.business, rules...)
	}
}

// New builds a Validator with the default schema and business rules.
func New(opts ...Option) *Validator {
	v := &Validator{
		schema:   DefaultRules(),
		business: DefaultBusinessRules(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate runs both stages. On success it returns the normalized submission;
// on failure a CodeValidation or CodeBusinessRule error carrying field
// violations. Never both.
func (v *Validator) Validate(d *models.Draft, now time.Time) (*models.Submission, error) {
	sub, err := v.ValidateSchema(d, now)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateBusiness(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ValidateSchema evaluates every schema rule and unions the violations.
func (v *Validator) ValidateSchema(d *models.Draft, now time.Time) (*models.Submission, error) {
	if d == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "submission is required")
	}

	fields := dErrors.FieldErrors{}
	for _, rule := range v.schema {
		for _, violation := range rule(d, now) {
			fields.Add(violation.Field, violation.Kind, violation.Message)
		}
	}
	if len(fields) > 0 {
		return nil, dErrors.WithFields(dErrors.CodeValidation, "submission is invalid", fields)
	}
	return normalize(d), nil
}

// ValidateBusiness evaluates the business rules. A failure discards the
// submission entirely.
func (v *Validator) ValidateBusiness(s *models.Submission) error {
	fields := dErrors.FieldErrors{}
	for _, rule := range v.business {
		for _, violation := range rule(s) {
			fields.Add(violation.Field, violation.Kind, violation.Message)
		}
	}
	if len(fields) > 0 {
		return dErrors.WithFields(dErrors.CodeBusinessRule, "submission violates business rules", fields)
	}
	return nil
}

// normalize assumes the draft passed every schema rule.
func normalize(d *models.Draft) *models.Submission {
	sub := &models.Submission{
		FullName:          d.FullName,
		Email:             d.Email,
		Phone:             d.Phone,
		Resume:            d.Resumes[0],
		CoverLetter:       d.CoverLetter,
		SalaryExpectation: *d.SalaryExpectation,
		StartDate:         d.StartDate,
		IsRemote:          d.IsRemote,
		OfficeLocation:    d.OfficeLocation,
	}
	if d.NoticePeriod != nil {
		days := int(*d.NoticePeriod)
		sub.NoticePeriod = &days
	}
	return sub
}
