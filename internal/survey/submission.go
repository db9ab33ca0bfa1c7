package survey

import "fmt"

// Wire field names of the audit form.
const (
	FieldName    = "nombre"
	FieldContact = "contacto"
	FieldEmail   = "email"
	FieldAge     = "edad"
)

// MaxTextLength bounds name, contact and email after sanitization.
const MaxTextLength = 100

// MaxCompanyAge is the largest accepted company age in years.
const MaxCompanyAge = 150

// Answers holds the choice for questions 1..QuestionCount, stored at index id-1.
type Answers [QuestionCount]Choice

// Get returns the choice for question id, or "" when id is out of range.
func (a Answers) Get(id int) Choice {
	if id < 1 || id > QuestionCount {
		return ""
	}
	return a[id-1]
}

// Submission is a validated and sanitized audit form. Values are only
// produced by Validate; text fields have already been HTML-escaped and
// trimmed.
type Submission struct {
	Name            string
	Contact         string
	Email           string
	CompanyAgeYears int
	Answers         Answers
}

// QuestionKey returns the wire key for question id, e.g. "q3".
func QuestionKey(id int) string {
	return fmt.Sprintf("q%d", id)
}
