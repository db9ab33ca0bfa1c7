package recommend

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/joelkehle/codice-audit/internal/survey"
)

func answersFrom(letters string) survey.Answers {
	var a survey.Answers
	for i := 0; i < survey.QuestionCount; i++ {
		a[i] = survey.Choice(letters[i : i+1])
	}
	return a
}

func TestRecommendScenarios(t *testing.T) {
	cases := []struct {
		name    string
		answers string
		want    Plan
		cost    string
	}{
		{name: "all a", answers: "aaaaaaaaaa", want: PlanStarter, cost: "$350 USD/mes"},
		{name: "all c", answers: "cccccccccc", want: PlanEstrategico, cost: "$650 USD/mes"},
		{name: "five a five c", answers: "acacacacac", want: PlanStarter, cost: "$350 USD/mes"},
		// A+B > C with C <= 2 selects starter before the impulso rule is reached.
		{name: "all b", answers: "bbbbbbbbbb", want: PlanStarter, cost: "$350 USD/mes"},
		{name: "five b three c", answers: "aabbbbbccc", want: PlanImpulso, cost: "$490 USD/mes"},
		{name: "one a five b four c", answers: "abbbbbcccc", want: PlanImpulso, cost: "$490 USD/mes"},
		{name: "two a four b four c", answers: "aabbbbcccc", want: PlanEstrategico, cost: "$650 USD/mes"},
		{name: "three a four b three c", answers: "aaabbbbccc", want: PlanEstrategico, cost: "$650 USD/mes"},
		{name: "four a", answers: "aaaacccccc", want: PlanStarter, cost: "$350 USD/mes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Recommend(answersFrom(tc.answers))
			assert.Equal(t, tc.want, got.Plan)
			assert.Equal(t, tc.cost, got.MonthlyCost)
			want, ok := Lookup(tc.want)
			assert.True(t, ok)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("recommendation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanDisplayNames(t *testing.T) {
	for plan, name := range map[Plan]string{
		PlanStarter:     "CÓDICE STARTER",
		PlanImpulso:     "CÓDICE IMPULSO",
		PlanEstrategico: "CÓDICE ESTRATÉGICO",
	} {
		r, ok := Lookup(plan)
		assert.True(t, ok)
		assert.Equal(t, name, r.Name)
		assert.NotEmpty(t, r.Justification)
	}
	_, ok := Lookup(Plan("PREMIUM"))
	assert.False(t, ok)
}

// Every one of the 3^10 answer sets tallies to ten and maps to a known plan
// that depends only on the letter counts.
func TestRecommendExhaustive(t *testing.T) {
	letters := []survey.Choice{survey.ChoiceA, survey.ChoiceB, survey.ChoiceC}
	byTally := map[Tally]Plan{}

	total := 1
	for i := 0; i < survey.QuestionCount; i++ {
		total *= len(letters)
	}
	for n := 0; n < total; n++ {
		var a survey.Answers
		v := n
		for i := range a {
			a[i] = letters[v%3]
			v /= 3
		}
		tally := Count(a)
		if tally.Total() != survey.QuestionCount {
			t.Fatalf("tally %+v for %v does not sum to %d", tally, a, survey.QuestionCount)
		}
		got := Recommend(a)
		if _, ok := Lookup(got.Plan); !ok {
			t.Fatalf("unknown plan %q for %v", got.Plan, a)
		}
		if prev, seen := byTally[tally]; seen && prev != got.Plan {
			t.Fatalf("tally %+v produced %q and %q", tally, prev, got.Plan)
		}
		byTally[tally] = got.Plan
	}
}

func TestSelectRuleOrder(t *testing.T) {
	// Both rules hold here; starter wins.
	assert.Equal(t, PlanStarter, Tally{A: 4, B: 5, C: 1}.Select())
	assert.Equal(t, PlanImpulso, Tally{A: 2, B: 5, C: 3}.Select())
	assert.Equal(t, PlanEstrategico, Tally{A: 3, B: 3, C: 4}.Select())
}
