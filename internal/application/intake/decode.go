// Package intake turns the string-typed form payload into a typed draft.
//
// Coercion happens before validation: a value that cannot be read as its
// declared type is a malformed input, not a rule violation.
package intake

import (
	"math"
	"strconv"
	"strings"
	"time"

	"hirepath/internal/application/models"
	dErrors "hirepath/pkg/domain-errors"
)

// KindParse tags coercion failures in the field error map.
const KindParse = "parse_error"

// dateLayouts are tried in order. Browsers send Date.toISOString(), date
// pickers send a bare calendar date.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Decode coerces raw form values. Empty optional values are treated as absent.
// All coercion failures are collected and returned together as a
// CodeMalformedInput error.
func Decode(raw models.RawSubmission) (*models.Draft, error) {
	d := &models.Draft{
		FullName: field(raw, models.FieldFullName),
		Email:    field(raw, models.FieldEmail),
		Phone:    field(raw, models.FieldPhone),
		Resumes:  raw.Files,
	}
	bad := dErrors.FieldErrors{}

	if v, ok := rawField(raw, models.FieldCoverLetter); ok && strings.TrimSpace(v) != "" {
		d.CoverLetter = &v
	}
	if v := field(raw, models.FieldOfficeLocation); v != "" {
		d.OfficeLocation = &v
	}

	if v := field(raw, models.FieldSalaryExpectation); v != "" {
		n, err := parseNumber(v)
		if err != nil {
			bad.Add(models.FieldSalaryExpectation, KindParse, "Salary expectation must be a number")
		} else {
			d.SalaryExpectation = &n
		}
	}

	if v := field(raw, models.FieldNoticePeriod); v != "" {
		n, err := parseNumber(v)
		if err != nil {
			bad.Add(models.FieldNoticePeriod, KindParse, "Notice period must be a number")
		} else {
			d.NoticePeriod = &n
		}
	}

	if v := field(raw, models.FieldStartDate); v != "" {
		t, err := ParseDate(v)
		if err != nil {
			bad.Add(models.FieldStartDate, KindParse, "Start date must be an ISO-8601 date")
		} else {
			d.StartDate = &t
		}
	}

	if v := field(raw, models.FieldIsRemote); v != "" {
		b, err := parseBool(v)
		if err != nil {
			bad.Add(models.FieldIsRemote, KindParse, `Remote preference must be "true" or "false"`)
		} else {
			d.IsRemote = &b
		}
	}

	if len(bad) > 0 {
		return nil, dErrors.WithFields(dErrors.CodeMalformedInput, "submission contains values that could not be parsed", bad)
	}
	return d, nil
}

// ParseDate accepts an RFC 3339 timestamp or a calendar date. Calendar dates
// are interpreted as midnight UTC.
func ParseDate(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseNumber(v string) (float64, error) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, strconv.ErrSyntax
}

func rawField(raw models.RawSubmission, name string) (string, bool) {
	if raw.Fields == nil {
		return "", false
	}
	v, ok := raw.Fields[name]
	return v, ok
}

func field(raw models.RawSubmission, name string) string {
	v, _ := rawField(raw, name)
	return strings.TrimSpace(v)
}
