package http

import (
	"net/http"
	apperrors "roombook/pkg/errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TenantIDHeader = "Tenant-Id"

// ExtractTenantID reads the caller's tenant from the request header. The
// tenant is never taken from the body or query.
func ExtractTenantID(r *http.Request) (string, error) {
	tenantID := r.Header.Get(TenantIDHeader)
	if tenantID == "" {
		return "", apperrors.InvalidInput("Tenant ID is required")
	}
	if !primitive.IsValidObjectID(tenantID) {
		return "", apperrors.InvalidInput("Invalid tenant ID format")
	}
	return tenantID, nil
}

// ParseTimeParam parses an optional RFC3339 query parameter. A missing
// parameter yields nil.
func ParseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " format, must be RFC3339")
	}
	return &parsed, nil
}

// RequireTimeParam is ParseTimeParam for parameters that must be present.
func RequireTimeParam(r *http.Request, name string) (time.Time, error) {
	parsed, err := ParseTimeParam(r, name)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return time.Time{}, apperrors.InvalidInput(name + " query parameter is required")
	}
	return *parsed, nil
}
