package redact

import (
	"fmt"
	"strings"
	"time"

	"hirepath/internal/application/models"
)

// Field is one labelled line of an export document.
type Field struct {
	Label string
	Value string
	// Long values are rendered as a wrapped block below the label.
	Long bool
}

// Document is the linear, unredacted export of one application.
type Document struct {
	Title     string
	Subject   string
	CreatedAt time.Time
	Fields    []Field
}

// NewDocument builds the owner's export. Nothing is masked.
func NewDocument(app *models.Application) Document {
	doc := Document{
		Title:     "Job Application",
		Subject:   app.ID,
		CreatedAt: app.CreatedAt,
		Fields: []Field{
			{Label: "Full Name", Value: app.FullName},
			{Label: "Email", Value: app.Email},
			{Label: "Salary Expectation", Value: fmt.Sprintf("$%.2f", app.SalaryExpectation)},
			{Label: "Submitted", Value: app.CreatedAt.UTC().Format(time.RFC3339)},
		},
	}
	if app.CoverLetter != nil && strings.TrimSpace(*app.CoverLetter) != "" {
		doc.Fields = append(doc.Fields, Field{Label: "Cover Letter", Value: *app.CoverLetter, Long: true})
	}
	return doc
}

// Text renders the document as plain text, one field per line.
func (d Document) Text() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n\n")
	for _, f := range d.Fields {
		if f.Long {
			fmt.Fprintf(&b, "%s:\n%s\n", f.Label, f.Value)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	return b.String()
}

// Filename is the download name offered for an export.
func Filename(applicationID string) string {
	return "application_" + applicationID + ".pdf"
}
