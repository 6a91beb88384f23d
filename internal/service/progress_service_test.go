package service

import (
	"testing"
)

func TestProgressSummaryEmpty(t *testing.T) {
	svc := NewProgressService(&fakeScoreStore{})

	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.Empty {
		t.Error("expected empty summary")
	}
	if summary.Count != 0 || summary.TotalPoints != 0 || summary.AveragePercent != 0 {
		t.Errorf("expected zeroed summary, got %+v", summary)
	}
}

func TestProgressSummaryAverages(t *testing.T) {
	scores := &fakeScoreStore{}
	scores.AppendScore(1, "food", 7, 10)   // 70%
	scores.AppendScore(1, "travel", 9, 10) // 90%
	scores.AppendScore(1, "work", 5, 10)   // 50%
	scores.AppendScore(2, "food", 10, 10)  // other user

	svc := NewProgressService(scores)
	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Count != 3 {
		t.Errorf("expected 3 scores, got %d", summary.Count)
	}
	if summary.TotalPoints != 21 {
		t.Errorf("expected 21 total points, got %d", summary.TotalPoints)
	}
	if summary.AveragePercent != 70.0 {
		t.Errorf("expected 70.0 average, got %v", summary.AveragePercent)
	}
	if summary.Empty {
		t.Error("summary should not be empty")
	}
}

func TestProgressSummaryRoundsToOneDecimal(t *testing.T) {
	scores := &fakeScoreStore{}
	scores.AppendScore(1, "a", 1, 3) // 33.333...%
	scores.AppendScore(1, "b", 2, 3) // 66.666...%
	scores.AppendScore(1, "c", 2, 3) // 66.666...%

	svc := NewProgressService(scores)
	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// mean = 55.555...% rounds to 55.6
	if summary.AveragePercent != 55.6 {
		t.Errorf("expected 55.6, got %v", summary.AveragePercent)
	}
}

func TestProgressSummaryNewestFirst(t *testing.T) {
	scores := &fakeScoreStore{}
	scores.AppendScore(1, "old", 5, 10)
	scores.AppendScore(1, "new", 8, 10)

	svc := NewProgressService(scores)
	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Scores[0].Theme != "new" {
		t.Error("expected newest score first")
	}
}

func TestProgressScores(t *testing.T) {
	scores := &fakeScoreStore{}
	scores.AppendScore(1, "makanan", 7, 10)
	scores.AppendScore(2, "hewan", 5, 10)

	svc := NewProgressService(scores)
	list, err := svc.Scores(1)
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if len(list) != 1 || list[0].Theme != "makanan" {
		t.Errorf("expected only user 1's score, got %+v", list)
	}
}
