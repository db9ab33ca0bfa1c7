package survey

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type ErrorKind string

const (
	KindMissingOrWrongType ErrorKind = "missing_or_wrong_type"
	KindFieldTooLong       ErrorKind = "field_too_long"
	KindInvalidEmailFormat ErrorKind = "invalid_email_format"
	KindInvalidAge         ErrorKind = "invalid_age"
	KindInvalidAnswer      ErrorKind = "invalid_answer"
)

// ValidationError describes the first defect found in a submission.
// Field is set for text-field kinds and Question for KindInvalidAnswer.
type ValidationError struct {
	Kind     ErrorKind
	Field    string
	Question int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingOrWrongType:
		return fmt.Sprintf("El campo %s es obligatorio o tiene un formato incorrecto.", e.Field)
	case KindFieldTooLong:
		return fmt.Sprintf("El campo %s excede la longitud permitida.", e.Field)
	case KindInvalidEmailFormat:
		return "El formato del correo electrónico no es válido."
	case KindInvalidAge:
		return "La edad de la empresa no es un número válido."
	case KindInvalidAnswer:
		return fmt.Sprintf("La respuesta a la pregunta %d no es válida.", e.Question)
	default:
		return "solicitud inválida"
	}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	htmlEscaper  = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// Validate checks a decoded form body and returns its sanitized form.
// Checks run in a fixed order and the first failure is returned as a
// *ValidationError. raw is not modified.
func Validate(raw map[string]any) (Submission, error) {
	var sub Submission

	texts := []struct {
		field string
		dst   *string
	}{
		{FieldName, &sub.Name},
		{FieldContact, &sub.Contact},
		{FieldEmail, &sub.Email},
	}
	for _, t := range texts {
		v, ok := raw[t.field].(string)
		if !ok || v == "" {
			return Submission{}, &ValidationError{Kind: KindMissingOrWrongType, Field: t.field}
		}
		v = Sanitize(v)
		if utf8.RuneCountInString(v) > MaxTextLength {
			return Submission{}, &ValidationError{Kind: KindFieldTooLong, Field: t.field}
		}
		*t.dst = v
	}

	if !emailPattern.MatchString(sub.Email) {
		return Submission{}, &ValidationError{Kind: KindInvalidEmailFormat, Field: FieldEmail}
	}

	age, ok := parseAge(raw[FieldAge])
	if !ok || age < 0 || age > MaxCompanyAge {
		return Submission{}, &ValidationError{Kind: KindInvalidAge, Field: FieldAge}
	}
	sub.CompanyAgeYears = age

	for id := 1; id <= QuestionCount; id++ {
		v, _ := raw[QuestionKey(id)].(string)
		choice := Choice(v)
		if !choice.Valid() {
			return Submission{}, &ValidationError{Kind: KindInvalidAnswer, Question: id}
		}
		sub.Answers[id-1] = choice
	}
	return sub, nil
}

// Sanitize escapes angle brackets and trims surrounding whitespace.
// Applying it to its own output is a no-op.
func Sanitize(s string) string {
	return strings.TrimSpace(htmlEscaper.Replace(s))
}

// parseAge reads the company age with leading-integer semantics: numbers
// are truncated toward zero and strings contribute their integer prefix.
func parseAge(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return leadingInt(n.String())
		}
		return truncate(f)
	case float64:
		return truncate(n)
	case int:
		return n, true
	case string:
		return leadingInt(n)
	default:
		return 0, false
	}
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt32 || t > math.MaxInt32 {
		return 0, false
	}
	return int(t), true
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
