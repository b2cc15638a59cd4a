package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const orgHeader = "X-Org-ID"

// orgID resolves the caller's org from the request header. An explicit org
// id elsewhere in the request must match it; mismatches are fatal.
func orgID(c *gin.Context) (string, error) {
	org := strings.TrimSpace(c.GetHeader(orgHeader))
	if org == "" {
		return "", domain.NewValidationError("org_id", "X-Org-ID header is required")
	}
	return org, nil
}

// checkTenant compares an org id supplied in a body or query against the
// header org. Empty means "not supplied" and passes.
func checkTenant(headerOrg, suppliedOrg string) error {
	if suppliedOrg != "" && suppliedOrg != headerOrg {
		return domain.ErrTenantMismatch
	}
	return nil
}

// respondError maps the failure taxonomy onto HTTP. Unknown errors are
// logged and collapsed to a generic 500.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, domain.ErrTenantMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "org mismatch"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, retry later"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate parses a query-level YYYY-MM-DD value. Empty yields the zero
// time, which services default to today.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return t, nil
}
