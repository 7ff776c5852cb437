package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"transaction not found", salary.ErrTransactionNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"department not found", department.ErrDepartmentNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate period", fmt.Errorf("employee ENG0001: %w", salary.ErrTransactionExists), http.StatusConflict, "CONFLICT"},
		{"bad transition", salary.ErrInvalidStatusTransition, http.StatusConflict, "CONFLICT"},
		{"payment exists", salary.ErrPaymentExists, http.StatusConflict, "CONFLICT"},
		{"code exists", employee.ErrEmployeeCodeExists, http.StatusConflict, "CONFLICT"},
		{"name exists", department.ErrDepartmentNameExists, http.StatusConflict, "CONFLICT"},
		{"no token", user.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password")
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 41)

	assert.Equal(t, 3, meta.TotalPages)
	assert.EqualValues(t, 41, meta.TotalItems)
	assert.Equal(t, 0, NewMeta(1, 0, 5).TotalPages)
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()

	File(rec, "application/pdf", "payslip.pdf", []byte("%PDF-1.3"))

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payslip.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
}

func TestSuccess_UnencodableData(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, map[string]any{"fn": func() {}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "ENCODING_ERROR")
}
