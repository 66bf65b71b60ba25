package model

import "testing"

func TestExamCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   ExamStatus
		to     ExamStatus
		expect bool
	}{
		{"draft can publish", ExamDraft, ExamPublished, true},
		{"published can unpublish", ExamPublished, ExamDraft, true},
		{"ended can archive", ExamEnded, ExamArchived, true},
		{"running cannot unpublish", ExamRunning, ExamDraft, false},
		{"running cannot archive", ExamRunning, ExamArchived, false},
		{"draft cannot archive", ExamDraft, ExamArchived, false},
		{"published cannot republish", ExamPublished, ExamPublished, false},
		{"archived is terminal", ExamArchived, ExamDraft, false},
		{"no direct running transition", ExamPublished, ExamRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := &Exam{Status: tt.from}
			if got := exam.CanTransitionTo(tt.to); got != tt.expect {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.expect)
			}
		})
	}
}

func TestExamDeletable(t *testing.T) {
	tests := []struct {
		status ExamStatus
		expect bool
	}{
		{ExamDraft, true},
		{ExamArchived, true},
		{ExamPublished, false},
		{ExamRunning, false},
		{ExamEnded, false},
	}

	for _, tt := range tests {
		exam := &Exam{Status: tt.status}
		if got := exam.Deletable(); got != tt.expect {
			t.Errorf("Deletable() with status %s = %v, want %v", tt.status, got, tt.expect)
		}
	}
}

func TestExamEditable(t *testing.T) {
	for _, status := range []ExamStatus{ExamDraft, ExamPublished, ExamRunning, ExamArchived} {
		exam := &Exam{Status: status}
		if !exam.Editable() {
			t.Errorf("Editable() with status %s = false, want true", status)
		}
	}
	if (&Exam{Status: ExamEnded}).Editable() {
		t.Error("Editable() with status ENDED = true, want false")
	}
}

func TestExamAssignedTo(t *testing.T) {
	tests := []struct {
		name      string
		assignees StringArray
		email     string
		expect    bool
	}{
		{"empty list is open to all", nil, "a@test.com", true},
		{"listed email", StringArray{"a@test.com", "b@test.com"}, "a@test.com", true},
		{"unlisted email", StringArray{"a@test.com"}, "c@test.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := &Exam{Assignees: tt.assignees}
			if got := exam.AssignedTo(tt.email); got != tt.expect {
				t.Errorf("AssignedTo(%s) = %v, want %v", tt.email, got, tt.expect)
			}
		})
	}
}
