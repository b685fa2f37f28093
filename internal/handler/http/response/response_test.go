package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

func TestPaginated_WritesEmptyPageMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{}, Meta{Page: 3, Limit: 10})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"success":true,"data":[],"meta":{"page":3,"limit":10,"total_items":0,"total_pages":0}}`,
		rec.Body.String(),
	)
}

func TestValidationError_DetailsByField(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, validator.ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "total_days", Message: "total_days for emergency leave must be 0.5 or 1"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "Validation failed",
			"details": {
				"start_date": "start_date is required",
				"total_days": "total_days for emergency leave must be 0.5 or 1"
			}
		}
	}`, rec.Body.String())
}

func TestForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	Forbidden(rec, "Insufficient permissions for position 'employee'")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"code":"FORBIDDEN","message":"Insufficient permissions for position 'employee'"}}`,
		rec.Body.String(),
	)
}
