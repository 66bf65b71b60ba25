package service

import (
	"reflect"
	"testing"

	"exam_admin_backend/internal/model"
)

func TestValidateSingleCorrect(t *testing.T) {
	tests := []struct {
		name    string
		options []OptionInput
		wantErr bool
	}{
		{"exactly one correct", []OptionInput{{Content: "a", IsCorrect: true}, {Content: "b"}}, false},
		{"no correct option", []OptionInput{{Content: "a"}, {Content: "b"}}, true},
		{"two correct options", []OptionInput{{Content: "a", IsCorrect: true}, {Content: "b", IsCorrect: true}}, true},
		{"no options", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSingleCorrect(tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSingleCorrect() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func option(id string) model.Option {
	o := model.Option{}
	o.ID = id
	return o
}

func TestDiffOptions(t *testing.T) {
	existing := []model.Option{option("o1"), option("o2"), option("o3")}
	incoming := []OptionInput{
		{ID: "o1", Content: "updated", IsCorrect: true}, // known id
		{Content: "brand new"},                          // no id
		{ID: "o9", Content: "unknown id"},               // id not in db
	}

	diff := diffOptions(existing, incoming)

	if len(diff.toUpdate) != 1 || diff.toUpdate[0].ID != "o1" {
		t.Errorf("toUpdate = %v, want [o1]", diff.toUpdate)
	}
	if len(diff.toCreate) != 2 {
		t.Errorf("toCreate = %v, want 2 entries", diff.toCreate)
	}
	if !reflect.DeepEqual(diff.toDelete, []string{"o2", "o3"}) {
		t.Errorf("toDelete = %v, want [o2 o3]", diff.toDelete)
	}
}

func TestDiffOptionsFullReplacement(t *testing.T) {
	existing := []model.Option{option("o1")}
	incoming := []OptionInput{{Content: "x", IsCorrect: true}, {Content: "y"}}

	diff := diffOptions(existing, incoming)

	if len(diff.toCreate) != 2 || len(diff.toUpdate) != 0 {
		t.Errorf("expected 2 creates and no updates, got %v / %v", diff.toCreate, diff.toUpdate)
	}
	if !reflect.DeepEqual(diff.toDelete, []string{"o1"}) {
		t.Errorf("toDelete = %v, want [o1]", diff.toDelete)
	}
}
