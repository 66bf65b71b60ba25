package service

import (
	"testing"
	"time"

	"exam_admin_backend/internal/model"
)

func snapshotQuestion(questionID string, score int, correctOptionID string, otherOptionIDs ...string) model.ExamAttemptQuestion {
	q := model.ExamAttemptQuestion{
		QuestionID: questionID,
		Score:      score,
		Options: []model.ExamAttemptOption{
			{OriginalOptionID: correctOptionID, IsCorrect: true},
		},
	}
	for _, id := range otherOptionIDs {
		q.Options = append(q.Options, model.ExamAttemptOption{OriginalOptionID: id})
	}
	return q
}

func TestGradeAnswers(t *testing.T) {
	questions := []model.ExamAttemptQuestion{
		snapshotQuestion("q1", 2, "q1-a", "q1-b"),
		snapshotQuestion("q2", 3, "q2-a", "q2-b"),
		snapshotQuestion("q3", 5, "q3-a", "q3-b"),
	}

	tests := []struct {
		name    string
		answers map[string]string
		expect  int
	}{
		{"all correct", map[string]string{"q1": "q1-a", "q2": "q2-a", "q3": "q3-a"}, 10},
		{"all wrong", map[string]string{"q1": "q1-b", "q2": "q2-b", "q3": "q3-b"}, 0},
		{"partial", map[string]string{"q1": "q1-a", "q2": "q2-b"}, 2},
		{"unanswered questions score zero", map[string]string{"q3": "q3-a"}, 5},
		{"empty answers", map[string]string{}, 0},
		{"unknown question ignored", map[string]string{"q9": "q9-a", "q1": "q1-a"}, 2},
		{"unknown option scores zero", map[string]string{"q1": "nonexistent"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeAnswers(questions, tt.answers); got != tt.expect {
				t.Errorf("gradeAnswers() = %d, want %d", got, tt.expect)
			}
		})
	}
}

func TestGradeAnswersNoSnapshot(t *testing.T) {
	if got := gradeAnswers(nil, map[string]string{"q1": "o1"}); got != 0 {
		t.Errorf("gradeAnswers(nil) = %d, want 0", got)
	}
}

func TestDeriveAttemptStatus(t *testing.T) {
	now := time.Now()
	submitted := &model.ExamAttempt{Status: model.AttemptSubmitted, FinishedAt: &now}
	terminated := &model.ExamAttempt{Status: model.AttemptTerminated, FinishedAt: &now}
	inProgress := &model.ExamAttempt{Status: model.AttemptInProgress}

	tests := []struct {
		name       string
		examStatus model.ExamStatus
		attempt    *model.ExamAttempt
		expect     string
	}{
		{"published is upcoming", model.ExamPublished, nil, AttemptStatusUpcoming},
		{"published with attempt still upcoming", model.ExamPublished, inProgress, AttemptStatusUpcoming},
		{"ended overrides attempt", model.ExamEnded, submitted, AttemptStatusEnded},
		{"running without attempt", model.ExamRunning, nil, AttemptStatusNotAttempted},
		{"running submitted", model.ExamRunning, submitted, AttemptStatusCompleted},
		{"running terminated", model.ExamRunning, terminated, AttemptStatusTerminated},
		{"running in progress", model.ExamRunning, inProgress, AttemptStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveAttemptStatus(tt.examStatus, tt.attempt); got != tt.expect {
				t.Errorf("deriveAttemptStatus(%s) = %s, want %s", tt.examStatus, got, tt.expect)
			}
		})
	}
}
