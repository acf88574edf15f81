// Package robotconfig derives the overlay connectivity and safety configuration
// handed to a single robot. Generation is a pure function of the tenant and
// robot identifiers plus a Policy fixed at construction time.
package robotconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the segments of a topic namespace. Identifiers must never
// contain it, otherwise two different (tenant, robot) pairs could share a prefix.
const Separator = "/"

// TenantID identifies the tenant that owns a robot.
type TenantID string

// RobotID identifies a robot within a tenant.
type RobotID string

// ValidationError reports a malformed or missing identifier.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Reason)
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ParseTenantID validates s and returns it as a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	if err := validateSegment("tenant_id", s); err != nil {
		return "", err
	}
	return TenantID(s), nil
}

// ParseRobotID validates s and returns it as a RobotID.
func ParseRobotID(s string) (RobotID, error) {
	if err := validateSegment("robot_id", s); err != nil {
		return "", err
	}
	return RobotID(s), nil
}

func validateSegment(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if strings.Contains(value, Separator) {
		return &ValidationError{Field: field, Value: value, Reason: fmt.Sprintf("must not contain '%s'", Separator)}
	}
	return nil
}
