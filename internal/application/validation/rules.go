package validation

import (
	"fmt"
	"math"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"hirepath/internal/application/models"
)

const (
	minNameLength   = 2
	maxNameLength   = 100
	maxEmailLength  = 254
	maxCoverLetter  = 2000
	minSalary       = 30000
	maxSalary       = 500000
	maxNoticeDays   = math.MaxInt32
	pdfContentType  = "application/pdf"
	phoneDigits     = 10
	seniorMinSalary = 80000
	seniorMarker    = "senior"
	executiveMarker = "executive"
)

var (
	emailPattern = regexp.MustCompile(
		`^[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+)*` +
			`@([A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d}$`, phoneDigits))
)

// DefaultRules returns the schema rules in evaluation order. Order affects only
// the order of messages within a field, never which violations are reported.
func DefaultRules() []Rule {
	return []Rule{
		fullNameRule,
		emailRule,
		phoneRule,
		resumeRule,
		coverLetterRule,
		salaryRule,
		startDateRule,
		noticePeriodRule,
		officeLocationRule,
		noticeCoverageRule,
	}
}

// DefaultBusinessRules returns the policy rules applied after schema validation.
func DefaultBusinessRules() []BusinessRule {
	return []BusinessRule{
		seniorSalaryRule,
		executiveCoverLetterRule,
	}
}

func one(field, kind, message string) []Violation {
	return []Violation{{Field: field, Kind: kind, Message: message}}
}

func fullNameRule(d *models.Draft, _ time.Time) []Violation {
	if d.FullName == "" {
		return one(models.FieldFullName, KindRequired, "Full name is required")
	}
	var out []Violation
	n := utf8.RuneCountInString(d.FullName)
	if n < minNameLength {
		out = append(out, Violation{models.FieldFullName, KindInvalid, "Name must be at least 2 characters"})
	}
	if n > maxNameLength {
		out = append(out, Violation{models.FieldFullName, KindInvalid, "Name must be less than 100 characters"})
	}
	if strings.IndexFunc(d.FullName, notNameRune) >= 0 {
		out = append(out, Violation{models.FieldFullName, KindInvalid, "Name contains invalid characters"})
	}
	return out
}

func notNameRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '\'' && r != '-'
}

func emailRule(d *models.Draft, _ time.Time) []Violation {
	if d.Email == "" {
		return one(models.FieldEmail, KindRequired, "Email is required")
	}
	if !ValidEmail(d.Email) {
		return one(models.FieldEmail, KindInvalid, "Invalid email address")
	}
	return nil
}

// ValidEmail reports whether addr is a syntactically valid address.
func ValidEmail(addr string) bool {
	return len(addr) <= maxEmailLength && emailPattern.MatchString(addr)
}

func emailSuffixRule(suffix string) Rule {
	lower := strings.ToLower(suffix)
	msg := fmt.Sprintf("Only %s domains are accepted", suffix)
	return func(d *models.Draft, _ time.Time) []Violation {
		if d.Email == "" || strings.HasSuffix(strings.ToLower(d.Email), lower) {
			return nil
		}
		return one(models.FieldEmail, KindInvalid, msg)
	}
}

func phoneRule(d *models.Draft, _ time.Time) []Violation {
	if d.Phone == "" {
		return one(models.FieldPhone, KindRequired, "Phone number is required")
	}
	if !phonePattern.MatchString(d.Phone) {
		return one(models.FieldPhone, KindInvalid, "Invalid phone number (10 digits required)")
	}
	return nil
}

func resumeRule(d *models.Draft, _ time.Time) []Violation {
	switch len(d.Resumes) {
	case 0:
		return one(models.FieldResume, KindRequired, "Resume is required")
	case 1:
	default:
		return one(models.FieldResume, KindInvalid, "Only one resume may be attached")
	}
	if !IsPDF(d.Resumes[0]) {
		return one(models.FieldResume, KindInvalid, "Only PDF files are accepted")
	}
	return nil
}

func resumeSizeRule(limit int64) Rule {
	msg := fmt.Sprintf("Resume must be at most %s", humanBytes(limit))
	return func(d *models.Draft, _ time.Time) []Violation {
		for _, file := range d.Resumes {
			if file.Size() > limit {
				return one(models.FieldResume, KindInvalid, msg)
			}
		}
		return nil
	}
}

func humanBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}

// IsPDF requires both the declared content type and the file's leading bytes
// to identify a PDF. Client headers alone are not trusted.
func IsPDF(a models.Attachment) bool {
	declared, _, err := mime.ParseMediaType(a.ContentType)
	if err != nil || declared != pdfContentType {
		return false
	}
	return http.DetectContentType(a.Data) == pdfContentType
}

func coverLetterRule(d *models.Draft, _ time.Time) []Violation {
	if d.CoverLetter == nil {
		return nil
	}
	if utf8.RuneCountInString(*d.CoverLetter) > maxCoverLetter {
		return one(models.FieldCoverLetter, KindInvalid, "Cover letter must be at most 2000 characters")
	}
	return nil
}

func salaryRule(d *models.Draft, _ time.Time) []Violation {
	if d.SalaryExpectation == nil {
		return one(models.FieldSalaryExpectation, KindRequired, "Salary expectation is required")
	}
	switch s := *d.SalaryExpectation; {
	case s < minSalary:
		return one(models.FieldSalaryExpectation, KindInvalid, "Minimum salary is $30,000")
	case s > maxSalary:
		return one(models.FieldSalaryExpectation, KindInvalid, "Maximum salary is $500,000")
	}
	return nil
}

func startDateRule(d *models.Draft, now time.Time) []Violation {
	if d.StartDate == nil || d.StartDate.After(now) {
		return nil
	}
	return one(models.FieldStartDate, KindInvalid, "Start date must be in the future")
}

func noticePeriodRule(d *models.Draft, _ time.Time) []Violation {
	if d.NoticePeriod == nil {
		return nil
	}
	n := *d.NoticePeriod
	var out []Violation
	if n < 0 {
		out = append(out, Violation{models.FieldNoticePeriod, KindInvalid, "Notice period cannot be negative"})
	}
	if n != math.Trunc(n) {
		out = append(out, Violation{models.FieldNoticePeriod, KindInvalid, "Notice period must be a whole number of days"})
	}
	if n > maxNoticeDays {
		out = append(out, Violation{models.FieldNoticePeriod, KindInvalid, "Notice period is too large"})
	}
	return out
}

// officeLocationRule: an explicit on-site preference needs a location.
func officeLocationRule(d *models.Draft, _ time.Time) []Violation {
	if d.IsRemote == nil || *d.IsRemote {
		return nil
	}
	if d.OfficeLocation != nil && strings.TrimSpace(*d.OfficeLocation) != "" {
		return nil
	}
	return one(models.FieldOfficeLocation, KindRequired, "Office location is required for non-remote positions")
}

// noticeCoverageRule: the start date must leave room for the notice period.
// Skipped when the notice period itself is invalid; that already reports.
func noticeCoverageRule(d *models.Draft, now time.Time) []Violation {
	if d.NoticePeriod == nil || d.StartDate == nil || len(noticePeriodRule(d, now)) > 0 {
		return nil
	}
	earliest := now.AddDate(0, 0, int(*d.NoticePeriod))
	if d.StartDate.Before(earliest) {
		return one(models.FieldStartDate, KindInvalid, "Start date must account for notice period")
	}
	return nil
}

func seniorSalaryRule(s *models.Submission) []Violation {
	if !strings.Contains(strings.ToLower(s.FullName), seniorMarker) || s.SalaryExpectation >= seniorMinSalary {
		return nil
	}
	return one(models.FieldSalaryExpectation, KindBusinessRule, "Senior positions must have salary expectation of at least $80,000")
}

func executiveCoverLetterRule(s *models.Submission) []Violation {
	if !strings.Contains(strings.ToLower(s.FullName), executiveMarker) {
		return nil
	}
	if s.CoverLetter != nil && strings.TrimSpace(*s.CoverLetter) != "" {
		return nil
	}
	return one(models.FieldCoverLetter, KindBusinessRule, "Cover letter is required for executive positions")
}
