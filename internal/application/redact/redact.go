// Package redact produces the two outward views of an application.
//
// The listing view masks phone and email and rounds the salary. The export
// view is the owner's copy and carries full detail. The two are kept apart on
// purpose; neither is derived from the other.
package redact

import (
	"math"
	"strings"
	"unicode/utf8"

	"hirepath/internal/application/models"
)

const (
	mask          = "***"
	visibleLocal  = 3
	visiblePhone  = 3
	salaryDecimal = 100
)

// View returns the privacy-preserving projection of app.
func View(app *models.Application) models.ApplicationView {
	return models.ApplicationView{
		ID:                app.ID,
		FullName:          app.FullName,
		Email:             MaskEmail(app.Email),
		Phone:             MaskPhone(app.Phone),
		CoverLetter:       app.CoverLetter,
		SalaryExpectation: RoundSalary(app.SalaryExpectation),
		StartDate:         app.StartDate,
		NoticePeriod:      app.NoticePeriod,
		IsRemote:          app.IsRemote,
		OfficeLocation:    app.OfficeLocation,
		CreatedAt:         app.CreatedAt,
	}
}

// MaskPhone keeps the last three characters: "5551234567" -> "***567".
func MaskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) > visiblePhone {
		runes = runes[len(runes)-visiblePhone:]
	}
	return mask + string(runes)
}

// MaskEmail keeps the first three characters of the local part and the domain:
// "jane.doe@example.com" -> "jan***@example.com". Shorter local parts are
// padded with '*' so every masked address has the same shape.
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		domain = ""
	}
	prefix := local
	if utf8.RuneCountInString(prefix) > visibleLocal {
		prefix = string([]rune(prefix)[:visibleLocal])
	}
	if n := utf8.RuneCountInString(prefix); n < visibleLocal {
		prefix += strings.Repeat("*", visibleLocal-n)
	}
	return prefix + mask + "@" + domain
}

// RoundSalary rounds half away from zero to two decimals.
func RoundSalary(v float64) float64 {
	return math.Round(v*salaryDecimal) / salaryDecimal
}
