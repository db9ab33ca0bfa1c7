package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/joelkehle/codice-audit/internal/notify"
	"github.com/joelkehle/codice-audit/internal/recommend"
	"github.com/joelkehle/codice-audit/internal/survey"
)

func newScoreCmd() *cobra.Command {
	var (
		formPath string
		plain    bool
	)
	cmd := &cobra.Command{
		Use:   "score [answers]",
		Short: "Preview the plan recommendation for a set of answers",
		Long: "Scores ten answers given as letters (\"aabbcabcca\" or \"a,a,b,...\"),\n" +
			"or a full form body with --form, without sending any email.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				md  string
				err error
			)
			switch {
			case formPath != "":
				md, err = scoreForm(formPath)
			case len(args) == 1:
				var answers survey.Answers
				answers, err = parseAnswers(args[0])
				if err == nil {
					md = scoreMarkdown(answers)
				}
			default:
				return fmt.Errorf("provide answers or --form")
			}
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), md, plain)
		},
	}
	cmd.Flags().StringVar(&formPath, "form", "", "JSON file with a complete form body (nombre, contacto, email, edad, q1..q10)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown instead of rendering it for the terminal")
	return cmd
}

func parseAnswers(s string) (survey.Answers, error) {
	var answers survey.Answers
	letters := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '\t', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	if len(letters) != survey.QuestionCount {
		return answers, fmt.Errorf("expected %d answers, got %d", survey.QuestionCount, len(letters))
	}
	for i := 0; i < survey.QuestionCount; i++ {
		c := survey.Choice(letters[i : i+1])
		if !c.Valid() {
			return answers, fmt.Errorf("answer %d: %q is not one of a, b, c", i+1, letters[i:i+1])
		}
		answers[i] = c
	}
	return answers, nil
}

func scoreMarkdown(answers survey.Answers) string {
	rec := recommend.Recommend(answers)
	t := recommend.Count(answers)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Name)
	fmt.Fprintf(&b, "**Costo:** %s\n\n", rec.MonthlyCost)
	fmt.Fprintf(&b, "**Respuestas:** a=%d · b=%d · c=%d\n\n", t.A, t.B, t.C)
	b.WriteString(rec.Justification + "\n")
	return b.String()
}

func scoreForm(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	sub, err := survey.Validate(raw)
	if err != nil {
		return "", err
	}
	return scoreMarkdown(sub.Answers) + "\n---\n\n" + notify.AdminAnswerBlock(sub, survey.DefaultCatalog()), nil
}

func printMarkdown(w io.Writer, md string, plain bool) error {
	if !plain {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		out, err := r.Render(md)
		if err != nil {
			return err
		}
		md = out
	}
	_, err := io.WriteString(w, md)
	return err
}
