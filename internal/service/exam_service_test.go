package service

import (
	"testing"
	"time"

	"exam_admin_backend/internal/model"
	"exam_admin_backend/internal/util"
)

func TestValidateSchedule(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := base.Add(2 * time.Hour)

	tests := []struct {
		name    string
		startAt *time.Time
		endAt   *time.Time
		wantErr bool
	}{
		{"both nil", nil, nil, false},
		{"only start", &base, nil, false},
		{"only end", nil, &later, false},
		{"start before end", &base, &later, false},
		{"start equals end", &base, &base, true},
		{"start after end", &later, &base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSchedule(tt.startAt, tt.endAt)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSchedule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanManage(t *testing.T) {
	exam := &model.Exam{CreatedByID: "owner-1"}

	tests := []struct {
		name   string
		claims *util.Claims
		expect bool
	}{
		{"admin manages any exam", &util.Claims{UserID: "other", Role: model.Admin}, true},
		{"creator manages own exam", &util.Claims{UserID: "owner-1", Role: model.Examiner}, true},
		{"other examiner denied", &util.Claims{UserID: "other", Role: model.Examiner}, false},
		{"candidate denied", &util.Claims{UserID: "other", Role: model.Candidate}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canManage(exam, tt.claims); got != tt.expect {
				t.Errorf("canManage() = %v, want %v", got, tt.expect)
			}
		})
	}
}
