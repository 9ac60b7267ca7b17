package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"hirepath/internal/application/models"
	dErrors "hirepath/pkg/domain-errors"
)

var now = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func pdf() models.Attachment {
	return models.Attachment{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7\n%stub")}
}

func validDraft() *models.Draft {
	return &models.Draft{
		FullName:          "Jane O'Neil-Smith",
		Email:             "jane@example.com",
		Phone:             "5551234567",
		Resumes:           []models.Attachment{pdf()},
		SalaryExpectation: ptr(60000.0),
		IsRemote:          ptr(true),
	}
}

func fieldsOf(t *testing.T, err error, code dErrors.Code) dErrors.FieldErrors {
	t.Helper()
	de, ok := dErrors.As(err)
	require.True(t, ok, "expected domain error, got %v", err)
	require.Equal(t, code, de.Code)
	return de.Fields
}

func messages(fe []dErrors.FieldError) []string {
	out := make([]string, 0, len(fe))
	for _, f := range fe {
		out = append(out, f.Message)
	}
	return out
}

type ValidatorSuite struct {
	suite.Suite
	v *Validator
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.v = New()
}

func (s *ValidatorSuite) TestValidDraftNormalizes() {
	d := validDraft()
	d.NoticePeriod = ptr(14.0)
	d.StartDate = ptr(now.AddDate(0, 1, 0))

	sub, err := s.v.Validate(d, now)
	s.Require().NoError(err)
	s.Equal("Jane O'Neil-Smith", sub.FullName)
	s.Equal(60000.0, sub.SalaryExpectation)
	s.Require().NotNil(sub.NoticePeriod)
	s.Equal(14, *sub.NoticePeriod)
	s.Equal("cv.pdf", sub.Resume.Filename)
}

func (s *ValidatorSuite) TestReportsEveryMissingRequiredField() {
	_, err := s.v.Validate(&models.Draft{}, now)

	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.ElementsMatch([]string{
		models.FieldFullName,
		models.FieldEmail,
		models.FieldPhone,
		models.FieldResume,
		models.FieldSalaryExpectation,
	}, fields.Fields())
	for _, name := range fields.Fields() {
		s.Equal(KindRequired, fields[name][0].Type, name)
	}
}

func (s *ValidatorSuite) TestCollectsSeveralViolationsForOneField() {
	d := validDraft()
	d.FullName = "7"

	_, err := s.v.Validate(d, now)

	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.ElementsMatch([]string{
		"Name must be at least 2 characters",
		"Name contains invalid characters",
	}, messages(fields[models.FieldFullName]))
}

func (s *ValidatorSuite) TestNameAcceptsUnicodeLetters() {
	d := validDraft()
	d.FullName = "José Ñúñez"

	_, err := s.v.Validate(d, now)
	s.NoError(err)
}

func (s *ValidatorSuite) TestNameLengthCap() {
	d := validDraft()
	d.FullName = strings.Repeat("a", 101)

	_, err := s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.Equal([]string{"Name must be less than 100 characters"}, messages(fields[models.FieldFullName]))
}

func (s *ValidatorSuite) TestEmailSyntax() {
	for _, tc := range []struct {
		email string
		ok    bool
	}{
		{"jane@example.com", true},
		{"jane.doe+jobs@mail.example.org", true},
		{"jane@example", false},
		{"jane@@example.com", false},
		{"jane example@example.com", false},
		{"@example.com", false},
	} {
		d := validDraft()
		d.Email = tc.email
		_, err := s.v.Validate(d, now)
		if tc.ok {
			s.NoError(err, tc.email)
			continue
		}
		fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
		s.Equal([]string{"Invalid email address"}, messages(fields[models.FieldEmail]), tc.email)
	}
}

func (s *ValidatorSuite) TestEmailSuffixOption() {
	v := New(WithEmailDomainSuffix(".com"))

	d := validDraft()
	d.Email = "jane@example.org"
	_, err := v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.Equal([]string{"Only .com domains are accepted"}, messages(fields[models.FieldEmail]))

	d.Email = "JANE@EXAMPLE.COM"
	_, err = v.Validate(d, now)
	s.NoError(err)
}

func (s *ValidatorSuite) TestPhoneRequiresTenDigits() {
	for _, phone := range []string{"555123456", "55512345678", "555-123-4567", "555123456x"} {
		d := validDraft()
		d.Phone = phone
		_, err := s.v.Validate(d, now)
		fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
		s.Equal([]string{"Invalid phone number (10 digits required)"}, messages(fields[models.FieldPhone]), phone)
	}
}

func (s *ValidatorSuite) TestResumeMustBeSinglePDF() {
	tests := []struct {
		name    string
		resumes []models.Attachment
		msg     string
	}{
		{
			name:    "declared as word document",
			resumes: []models.Attachment{{Filename: "cv.docx", ContentType: "application/msword", Data: []byte("%PDF-1.7")}},
			msg:     "Only PDF files are accepted",
		},
		{
			name:    "declared pdf but plain text bytes",
			resumes: []models.Attachment{{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("hello")}},
			msg:     "Only PDF files are accepted",
		},
		{
			name:    "two files",
			resumes: []models.Attachment{pdf(), pdf()},
			msg:     "Only one resume may be attached",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			d := validDraft()
			d.Resumes = tt.resumes
			_, err := s.v.Validate(d, now)
			fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
			s.Equal([]string{tt.msg}, messages(fields[models.FieldResume]))
		})
	}
}

func (s *ValidatorSuite) TestResumeSizeCap() {
	v := New(WithMaxResumeBytes(1 << 20))

	d := validDraft()
	_, err := v.Validate(d, now)
	s.NoError(err)

	big := pdf()
	big.Data = append(big.Data, make([]byte, 1<<20)...)
	d.Resumes = []models.Attachment{big}
	_, err = v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.Equal([]string{"Resume must be at most 1 MB"}, messages(fields[models.FieldResume]))
}

func (s *ValidatorSuite) TestCoverLetterLength() {
	d := validDraft()
	d.CoverLetter = ptr(strings.Repeat("é", 2000))
	_, err := s.v.Validate(d, now)
	s.NoError(err)

	d.CoverLetter = ptr(strings.Repeat("é", 2001))
	_, err = s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.Contains(fields, models.FieldCoverLetter)
}

func (s *ValidatorSuite) TestSalaryBounds() {
	for _, tc := range []struct {
		salary float64
		msg    string
	}{
		{30000, ""},
		{500000, ""},
		{29999.99, "Minimum salary is $30,000"},
		{500000.01, "Maximum salary is $500,000"},
	} {
		d := validDraft()
		d.SalaryExpectation = ptr(tc.salary)
		_, err := s.v.Validate(d, now)
		if tc.msg == "" {
			s.NoError(err)
			continue
		}
		fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
		s.Equal([]string{tc.msg}, messages(fields[models.FieldSalaryExpectation]))
	}
}

func (s *ValidatorSuite) TestStartDateMustBeInFuture() {
	d := validDraft()
	d.StartDate = ptr(now)

	_, err := s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.Equal([]string{"Start date must be in the future"}, messages(fields[models.FieldStartDate]))
}

func (s *ValidatorSuite) TestNoticePeriodMustBeWholeAndNonNegative() {
	d := validDraft()
	d.NoticePeriod = ptr(-1.5)

	_, err := s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.ElementsMatch([]string{
		"Notice period cannot be negative",
		"Notice period must be a whole number of days",
	}, messages(fields[models.FieldNoticePeriod]))
}

func (s *ValidatorSuite) TestOfficeLocationRequiredWhenOnSite() {
	tests := []struct {
		name     string
		remote   *bool
		location *string
		wantErr  bool
	}{
		{name: "on-site without location", remote: ptr(false), wantErr: true},
		{name: "on-site with blank location", remote: ptr(false), location: ptr("   "), wantErr: true},
		{name: "on-site with location", remote: ptr(false), location: ptr("Berlin")},
		{name: "remote without location", remote: ptr(true)},
		{name: "preference absent", remote: nil},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			d := validDraft()
			d.IsRemote = tt.remote
			d.OfficeLocation = tt.location
			_, err := s.v.Validate(d, now)
			if !tt.wantErr {
				s.NoError(err)
				return
			}
			fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
			s.Equal([]string{"Office location is required for non-remote positions"},
				messages(fields[models.FieldOfficeLocation]))
		})
	}
}

func (s *ValidatorSuite) TestStartDateMustCoverNoticePeriod() {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	s.Run("start today with thirty days notice", func() {
		d := validDraft()
		d.NoticePeriod = ptr(30.0)
		d.StartDate = ptr(today)
		_, err := s.v.Validate(d, now)
		fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
		s.Contains(messages(fields[models.FieldStartDate]), "Start date must account for notice period")
	})

	s.Run("start in twenty days with thirty days notice", func() {
		d := validDraft()
		d.NoticePeriod = ptr(30.0)
		d.StartDate = ptr(today.AddDate(0, 0, 20))
		_, err := s.v.Validate(d, now)
		fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
		s.Equal([]string{"Start date must account for notice period"}, messages(fields[models.FieldStartDate]))
	})

	s.Run("start after notice elapses", func() {
		d := validDraft()
		d.NoticePeriod = ptr(30.0)
		d.StartDate = ptr(today.AddDate(0, 0, 31))
		_, err := s.v.Validate(d, now)
		s.NoError(err)
	})
}

func (s *ValidatorSuite) TestSeniorSalaryFloor() {
	d := validDraft()
	d.FullName = "Senior Jane"

	d.SalaryExpectation = ptr(79999.0)
	_, err := s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeBusinessRule)
	s.Equal([]string{models.FieldSalaryExpectation}, fields.Fields())
	s.Equal(KindBusinessRule, fields[models.FieldSalaryExpectation][0].Type)

	d.SalaryExpectation = ptr(80000.0)
	_, err = s.v.Validate(d, now)
	s.NoError(err)
}

func (s *ValidatorSuite) TestExecutiveNeedsCoverLetter() {
	d := validDraft()
	d.FullName = "Jane Executive"

	_, err := s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeBusinessRule)
	s.Equal([]string{"Cover letter is required for executive positions"}, messages(fields[models.FieldCoverLetter]))

	d.CoverLetter = ptr("I have led teams.")
	_, err = s.v.Validate(d, now)
	s.NoError(err)
}

func (s *ValidatorSuite) TestBusinessRulesWaitForSchema() {
	d := validDraft()
	d.FullName = "Senior Jane"
	d.SalaryExpectation = ptr(20000.0)

	_, err := s.v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	for _, fe := range fields[models.FieldSalaryExpectation] {
		s.NotEqual(KindBusinessRule, fe.Type)
	}
}

func (s *ValidatorSuite) TestCustomRulesAreAppended() {
	noJohn := func(d *models.Draft, _ time.Time) []Violation {
		if strings.HasPrefix(d.FullName, "John") {
			return []Violation{{Field: models.FieldFullName, Kind: KindInvalid, Message: "no"}}
		}
		return nil
	}
	v := New(WithRules(noJohn))

	d := validDraft()
	d.FullName = "John Doe"
	_, err := v.Validate(d, now)
	fields := fieldsOf(s.T(), err, dErrors.CodeValidation)
	s.Equal([]string{"no"}, messages(fields[models.FieldFullName]))
}

func TestValidateSchemaRejectsNilDraft(t *testing.T) {
	_, err := New().ValidateSchema(nil, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF(models.Attachment{ContentType: "application/pdf; charset=binary", Data: []byte("%PDF-1.4")}))
	assert.False(t, IsPDF(models.Attachment{ContentType: "application/pdf", Data: nil}))
	assert.False(t, IsPDF(models.Attachment{ContentType: "", Data: []byte("%PDF-1.4")}))
}
