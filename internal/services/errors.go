package services

import "fmt"

// Request errors the handlers report as 400 with the error's own code
var (
	ErrNoTablesSpecified    = &ServiceError{Code: "NO_TABLES_SPECIFIED", Message: "no tables specified"}
	ErrBaseURLNotConfigured = &ServiceError{Code: "BASE_URL_NOT_CONFIGURED", Message: "base_url not configured"}
	ErrInvalidSeedCount     = &ServiceError{Code: "VALIDATION_ERROR", Message: "count must be between 1 and 500"}
)

// ServiceError is a caller mistake outside the errors.Kind system, such as
// asking for a QR code before the base URL is set.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// APICode returns the machine-readable code, BAD_REQUEST when unset
func (e *ServiceError) APICode() string {
	if e.Code == "" {
		return "BAD_REQUEST"
	}
	return e.Code
}

// InvalidTableError is returned by ResetTables for a table outside ValidTables
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}

// APICode returns the machine-readable code
func (e *InvalidTableError) APICode() string {
	return "INVALID_TABLE"
}
