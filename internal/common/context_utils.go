package common

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// DayLayout is the canonical day-key format used for submission and
// temperature documents.
const DayLayout = "2006-01-02"

// DayKey renders a timestamp as the store-local day key.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

var (
	storeIDPattern    = regexp.MustCompile(`(?i)^[a-z0-9_-]{3,40}$`)
	employeeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
	pinPattern        = regexp.MustCompile(`^\d{4}$`)
)

// ValidateStoreID validates the store identifier format used as a document
// key prefix.
func ValidateStoreID(storeID string) error {
	if !storeIDPattern.MatchString(storeID) {
		return fmt.Errorf("store id must be 3-40 characters of letters, digits, underscore or hyphen")
	}
	return nil
}

// ValidateEmployeeID validates the login identifier format.
func ValidateEmployeeID(employeeID string) error {
	if !employeeIDPattern.MatchString(employeeID) {
		return fmt.Errorf("employee id must be 3-20 characters of letters, digits, underscore or hyphen")
	}
	return nil
}

// ValidatePIN validates that a PIN is exactly four digits.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return fmt.Errorf("pin must be exactly 4 digits")
	}
	return nil
}

// ValidateDayKey validates submitted-date strings.
func ValidateDayKey(dateStr, fieldName string) error {
	if strings.TrimSpace(dateStr) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	date, err := time.Parse(DayLayout, dateStr)
	if err != nil {
		return fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}

	// Guard against obviously wrong client clocks.
	if date.After(time.Now().AddDate(1, 0, 0)) {
		return fmt.Errorf("%s cannot be more than a year in the future", fieldName)
	}
	if date.Before(time.Now().AddDate(-10, 0, 0)) {
		return fmt.Errorf("%s cannot be more than 10 years ago", fieldName)
	}

	return nil
}

// ValidateUUID validates UUID format with comprehensive checks
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	if strings.TrimSpace(idStr) == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	idStr = strings.TrimSpace(idStr)

	if len(idStr) != 36 {
		return uuid.Nil, fmt.Errorf("%s must be exactly 36 characters (including hyphens)", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s contains invalid characters: %v", fieldName, err)
	}

	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50 // Default
	}
	if limit > 1000 {
		limit = 1000 // Maximum
	}

	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("offset cannot exceed 1,000,000")
	}

	return limit, offset, nil
}
