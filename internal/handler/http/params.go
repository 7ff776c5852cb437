package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/validator"
)

// queryString returns nil for a missing or blank parameter.
func queryString(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

// queryInt parses an optional integer parameter, collecting a validation
// error when it is not a number.
func queryInt(r *http.Request, name string, errs *validator.ValidationErrors) *int {
	v := queryString(r, name)
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		*errs = append(*errs, validator.ValidationError{Field: name, Message: "must be a number"})
		return nil
	}
	return &n
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
