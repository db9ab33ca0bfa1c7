package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/joelkehle/codice-audit/internal/survey"
)

// AdminAnswerBlock renders every answer as a markdown block, in question
// order, with the question title and the text of the chosen option.
// Entries missing from the catalog fall back to a placeholder that names
// the raw letter.
func AdminAnswerBlock(sub survey.Submission, catalog *survey.Catalog) string {
	return answerBlock(sub, catalog, escapeMarkdown)
}

func answerBlock(sub survey.Submission, catalog *survey.Catalog, field func(string) string) string {
	var b strings.Builder
	for id := 1; id <= survey.QuestionCount; id++ {
		choice := sub.Answers.Get(id)
		letter := strings.ToUpper(string(choice))
		if letter == "" {
			letter = "N/A"
		}

		title, ok := catalog.Title(id)
		if !ok {
			title = fmt.Sprintf("Pregunta #%d (Título no encontrado)", id)
		}
		text, ok := catalog.Option(id, choice)
		if !ok {
			text = fmt.Sprintf("Respuesta (Letra: %s)", letter)
		}

		fmt.Fprintf(&b, "**%s:**\n\n", field(title))
		fmt.Fprintf(&b, "→ **Opción Seleccionada:** %s **(%s)**\n\n", field(text), letter)
		b.WriteString("---\n\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"|", `\|`,
	"~", `\~`,
)

// escapeMarkdown neutralizes markdown in user-supplied text. The value is
// folded onto one line first so it can never open a block of its own. HTML
// entities produced by survey.Sanitize are left intact.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(singleLine(s))
}

// plainField renders user-supplied text for the text/plain part: one line,
// no markdown escapes, HTML entities decoded.
func plainField(s string) string {
	return html.UnescapeString(singleLine(s))
}

// singleLine collapses every run of whitespace, line breaks included, into
// a single space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
