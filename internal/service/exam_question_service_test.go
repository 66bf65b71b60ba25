package service

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/util"
)

func intPtr(v int) *int { return &v }

func TestValidateBindings(t *testing.T) {
	tests := []struct {
		name     string
		incoming []BindingInput
		wantErr  bool
	}{
		{"empty is valid", nil, false},
		{"distinct orders", []BindingInput{{QuestionID: "q1", Order: 1}, {QuestionID: "q2", Order: 2}}, false},
		{"duplicate order", []BindingInput{{QuestionID: "q1", Order: 1}, {QuestionID: "q2", Order: 1}}, true},
		{"duplicate question", []BindingInput{{QuestionID: "q1", Order: 1}, {QuestionID: "q1", Order: 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBindings(tt.incoming)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBindings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBindingsDuplicateOrderError(t *testing.T) {
	err := validateBindings([]BindingInput{{QuestionID: "q1", Order: 3}, {QuestionID: "q2", Order: 3}})
	if !errors.Is(err, util.ErrDuplicateOrder) {
		t.Errorf("validateBindings() error = %v, want ErrDuplicateOrder", err)
	}
}

func TestDiffBindings(t *testing.T) {
	existing := []model.ExamQuestion{
		{QuestionID: "q1", Order: 1, Score: 1},
		{QuestionID: "q2", Order: 2, Score: 2},
		{QuestionID: "q3", Order: 3, Score: 3},
	}
	incoming := []BindingInput{
		{QuestionID: "q2", Order: 1, Score: intPtr(5)}, // kept, reordered
		{QuestionID: "q4", Order: 2},                   // new
	}

	diff := diffBindings(existing, incoming)

	if len(diff.toCreate) != 1 || diff.toCreate[0].QuestionID != "q4" {
		t.Errorf("toCreate = %v, want [q4]", diff.toCreate)
	}
	if len(diff.toUpdate) != 1 || diff.toUpdate[0].QuestionID != "q2" {
		t.Errorf("toUpdate = %v, want [q2]", diff.toUpdate)
	}

	sort.Strings(diff.toDelete)
	if !reflect.DeepEqual(diff.toDelete, []string{"q1", "q3"}) {
		t.Errorf("toDelete = %v, want [q1 q3]", diff.toDelete)
	}
}

func TestDiffBindingsEmptyIncomingDeletesAll(t *testing.T) {
	existing := []model.ExamQuestion{{QuestionID: "q1", Order: 1}}

	diff := diffBindings(existing, nil)

	if len(diff.toCreate) != 0 || len(diff.toUpdate) != 0 {
		t.Errorf("expected no creates/updates, got %v / %v", diff.toCreate, diff.toUpdate)
	}
	if !reflect.DeepEqual(diff.toDelete, []string{"q1"}) {
		t.Errorf("toDelete = %v, want [q1]", diff.toDelete)
	}
}

func TestDiffBindingsEmptyExistingCreatesAll(t *testing.T) {
	incoming := []BindingInput{{QuestionID: "q1", Order: 1}, {QuestionID: "q2", Order: 2}}

	diff := diffBindings(nil, incoming)

	if len(diff.toCreate) != 2 {
		t.Errorf("toCreate = %v, want 2 entries", diff.toCreate)
	}
	if len(diff.toUpdate) != 0 || len(diff.toDelete) != 0 {
		t.Errorf("expected no updates/deletes, got %v / %v", diff.toUpdate, diff.toDelete)
	}
}
