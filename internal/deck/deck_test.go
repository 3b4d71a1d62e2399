package deck

import (
	"reflect"
	"testing"

	"github.com/recallkit/recallkit/internal/domain"
)

func TestIdentity(t *testing.T) {
	card := domain.Card{
		Topic:    "biology",
		Tag:      "notes",
		Title:    "Cells",
		Question: "What is a mitochondrion?",
	}
	expected := "biology|notes|Cells|What is a mitochondrion?"
	if got := Identity(card); got != expected {
		t.Errorf("Expected identity '%s', got '%s'", expected, got)
	}
}

func TestIdentityCollision(t *testing.T) {
	// Cards that agree on all four fields share a progress key even if
	// their answers differ. Inherited behavior.
	a := domain.Card{Topic: "t", Tag: "g", Title: "x", Question: "q", Answer: "one"}
	b := domain.Card{Topic: "t", Tag: "g", Title: "x", Question: "q", Answer: "two"}
	if Identity(a) != Identity(b) {
		t.Error("expected identical identities for cards differing only in answer")
	}
}

func TestPoolStampsTopicsInSortedOrder(t *testing.T) {
	sets := map[string][]domain.Card{
		"zoology": {{Question: "z?", Answer: "z"}},
		"algebra": {{Question: "a1?", Answer: "a"}, {Question: "a2?", Answer: "a"}},
	}
	pool := Pool(sets)
	if len(pool) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(pool))
	}
	if pool[0].Topic != "algebra" || pool[2].Topic != "zoology" {
		t.Errorf("unexpected topic order: %s, %s, %s", pool[0].Topic, pool[1].Topic, pool[2].Topic)
	}
	if pool[0].Question != "a1?" || pool[1].Question != "a2?" {
		t.Error("within-topic card order not preserved")
	}
}

func TestFilter(t *testing.T) {
	pool := []domain.Card{
		{Topic: "go", Tag: "basics", Question: "1"},
		{Topic: "go", Tag: "advanced", Question: "2"},
		{Topic: "sql", Tag: "basics", Question: "3"},
	}

	testCases := []struct {
		name      string
		topic     string
		tag       string
		questions []string
	}{
		{"no filters", "", "", []string{"1", "2", "3"}},
		{"all keyword", "all", "all", []string{"1", "2", "3"}},
		{"topic only", "go", "", []string{"1", "2"}},
		{"tag only", "", "basics", []string{"1", "3"}},
		{"both", "go", "basics", []string{"1"}},
		{"no match", "go", "missing", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(pool, tc.topic, tc.tag)
			var qs []string
			for _, c := range got {
				qs = append(qs, c.Question)
			}
			if !reflect.DeepEqual(qs, tc.questions) {
				t.Errorf("expected %v, got %v", tc.questions, qs)
			}
		})
	}
}

func TestTopicsAndTags(t *testing.T) {
	pool := []domain.Card{
		{Topic: "go", Tag: "b"},
		{Topic: "go", Tag: "a"},
		{Topic: "sql", Tag: "b"},
		{Topic: "", Tag: ""},
	}
	if got := Topics(pool); !reflect.DeepEqual(got, []string{"go", "sql"}) {
		t.Errorf("unexpected topics: %v", got)
	}
	if got := Tags(pool); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unexpected tags: %v", got)
	}
}
