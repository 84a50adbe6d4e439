package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/classicrypt/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "classicrypt.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleRun(i int, success bool) model.Run {
	key := "UNKNOWN"
	if success {
		key = "LEMON"
	}
	return model.Run{
		CreatedAt:    time.Unix(0, 0).Add(time.Duration(i) * time.Minute).UTC(),
		Digest:       Digest("cipher"),
		CipherLen:    100 + i,
		Letters:      90 + i,
		Estimated:    5,
		KeyLength:    5,
		RecoveredKey: key,
		BigramScore:  10 * i,
		Success:      success,
		DurationMs:   3,
	}
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	candidates := []model.KeyLengthCandidate{{Length: 5, Count: 335}, {Length: 2, Count: 150}}

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.InsertRun(ctx, sampleRun(i, i != 1), candidates)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[0] || runs[2].ID != ids[2] {
		t.Fatalf("unexpected run order: %+v", runs)
	}
	if runs[1].Success || runs[1].RecoveredKey != "UNKNOWN" {
		t.Fatalf("expected failed second run, got %+v", runs[1])
	}
	if !runs[0].CreatedAt.Equal(time.Unix(0, 0)) {
		t.Fatalf("unexpected created_at %v", runs[0].CreatedAt)
	}

	got, err := st.ListCandidates(ctx, ids[0])
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if !reflect.DeepEqual(got, candidates) {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestListRunsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := st.InsertRun(ctx, sampleRun(i, i%2 == 0), nil); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	last, err := st.ListRuns(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(last) != 2 || last[0].CipherLen != 102 || last[1].CipherLen != 103 {
		t.Fatalf("unexpected last runs: %+v", last)
	}

	ok, err := st.ListRuns(ctx, model.HistoryConfig{SuccessOnly: true})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(ok) != 2 {
		t.Fatalf("expected 2 successful runs, got %d", len(ok))
	}

	since := time.Unix(0, 0).Add(2 * time.Minute).UTC()
	recent, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs since %v, got %d", since, len(recent))
	}
}

func TestSummary(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	empty, err := st.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if empty.Runs != 0 || empty.Successes != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}

	for i := 0; i < 3; i++ {
		if _, err := st.InsertRun(ctx, sampleRun(i, i != 2), nil); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}
	summary, err := st.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Runs != 3 || summary.Successes != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.AvgLetters != 91 || summary.AvgKeyLen != 5 {
		t.Fatalf("unexpected averages: %+v", summary)
	}
}

func TestDigestIsStable(t *testing.T) {
	if Digest("abc") != Digest("abc") {
		t.Fatalf("expected stable digest")
	}
	if Digest("abc") == Digest("abd") {
		t.Fatalf("expected different digests")
	}
	if len(Digest("")) != 16 {
		t.Fatalf("expected 16 hex characters")
	}
}
