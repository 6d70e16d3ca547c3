package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/rhetor/pkg/rhetor/criteria"
	"github.com/cognicore/rhetor/pkg/rhetor/store"
)

func testRun(id string, at time.Time) store.Run {
	return store.Run{
		ID:        id,
		Document:  "doc-" + id,
		CreatedAt: at,
		TagCounts: map[string]int{"verb": 3},
		Criteria: map[string]criteria.Result{
			"urgency": {Found: 1, Against: 3, Percentage: 33.33, Rank: 1, Label: "low"},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := testRun("01A", time.Now())
	if err := s.SaveRun(ctx, in); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, ok, err := s.GetRun(ctx, "01A")
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if got.Document != "doc-01A" || got.Criteria["urgency"].Label != "low" {
		t.Errorf("GetRun = %+v", got)
	}

	_, ok, err = s.GetRun(ctx, "missing")
	if err != nil || ok {
		t.Errorf("missing run: ok=%v err=%v", ok, err)
	}
}

func TestGetRunReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveRun(ctx, testRun("01A", time.Now())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, _, _ := s.GetRun(ctx, "01A")
	got.TagCounts["verb"] = 999
	delete(got.Criteria, "urgency")

	again, _, _ := s.GetRun(ctx, "01A")
	if again.TagCounts["verb"] != 3 || len(again.Criteria) != 1 {
		t.Error("GetRun shares state with the store")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"01A", "01B", "01C"} {
		if err := s.SaveRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "01C" || runs[2].ID != "01A" {
		t.Errorf("ListRuns order = %v", ids(runs))
	}

	runs, err = s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "01C" {
		t.Errorf("limited ListRuns = %v", ids(runs))
	}
}

func TestSaveRunReplaces(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveRun(ctx, testRun("01A", time.Now())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	updated := testRun("01A", time.Now())
	updated.Document = "renamed"
	if err := s.SaveRun(ctx, updated); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, _, _ := s.GetRun(ctx, "01A")
	if got.Document != "renamed" {
		t.Errorf("Document = %q", got.Document)
	}
	runs, _ := s.ListRuns(ctx, 0)
	if len(runs) != 1 {
		t.Errorf("len(runs) = %d, want 1", len(runs))
	}
}

func ids(runs []store.Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}
