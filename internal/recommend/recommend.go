// Package recommend maps audit answers to one of the fixed CÓDICE service plans.
package recommend

import "github.com/joelkehle/codice-audit/internal/survey"

type Plan string

const (
	PlanStarter     Plan = "STARTER"
	PlanImpulso     Plan = "IMPULSO"
	PlanEstrategico Plan = "ESTRATEGICO"
)

type Recommendation struct {
	Plan          Plan
	Name          string
	MonthlyCost   string
	Justification string
}

var plans = map[Plan]Recommendation{
	PlanStarter: {
		Plan:          PlanStarter,
		Name:          "CÓDICE STARTER",
		MonthlyCost:   "$350 USD/mes",
		Justification: "Foco Principal: Su negocio necesita establecer una base sólida de generación de leads y una gestión social profesional mínima para adquirir presencia.",
	},
	PlanImpulso: {
		Plan:          PlanImpulso,
		Name:          "CÓDICE IMPULSO",
		MonthlyCost:   "$490 USD/mes",
		Justification: "Foco Principal: Su negocio ya tiene una presencia o necesita desarrollarla desde un enfoque 360, requiriendo estrategia SEO/SEM, desarrollo web y contenido rico.",
	},
	PlanEstrategico: {
		Plan:          PlanEstrategico,
		Name:          "CÓDICE ESTRATÉGICO",
		MonthlyCost:   "$650 USD/mes",
		Justification: "Su negocio opera con un nivel de madurez alto y requiere una optimización avanzada, análisis de competencia detallado y la participación directa de consultoría estratégica.",
	},
}

// Lookup returns the fixed recommendation for a plan.
func Lookup(p Plan) (Recommendation, bool) {
	r, ok := plans[p]
	return r, ok
}

// Tally counts how many answers chose each letter.
type Tally struct {
	A, B, C int
}

func (t Tally) Total() int {
	return t.A + t.B + t.C
}

func Count(answers survey.Answers) Tally {
	var t Tally
	for id := 1; id <= survey.QuestionCount; id++ {
		switch answers.Get(id) {
		case survey.ChoiceA:
			t.A++
		case survey.ChoiceB:
			t.B++
		case survey.ChoiceC:
			t.C++
		}
	}
	return t
}

// Select picks a plan from a tally. The starter rule is checked first, then
// the impulso rule; estratégico is the fallback.
func (t Tally) Select() Plan {
	switch {
	case t.A >= 4 || (t.A+t.B > t.C && t.C <= 2):
		return PlanStarter
	case t.B >= 5 || (t.C > t.A && t.C < t.B):
		return PlanImpulso
	default:
		return PlanEstrategico
	}
}

// Recommend scores validated answers. It depends on nothing but the answers.
func Recommend(answers survey.Answers) Recommendation {
	return plans[Count(answers).Select()]
}
