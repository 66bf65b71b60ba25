package util

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"exam_admin_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect int
	}{
		{"validation maps to 400", Validationf("bad input"), http.StatusBadRequest},
		{"authorization maps to 403", Authorizationf("denied"), http.StatusForbidden},
		{"not found maps to 404", NotFoundf("missing"), http.StatusNotFound},
		{"conflict maps to 409", Conflictf("stale"), http.StatusConflict},
		{"unknown maps to 500", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped validation maps to 400", wrap(ErrDuplicateOrder), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleError(c, tt.err)

			if w.Code != tt.expect {
				t.Errorf("HandleError(%v) status = %d, want %d", tt.err, w.Code, tt.expect)
			}
		})
	}
}

func wrap(err error) error {
	return errors.Join(errors.New("context"), err)
}
