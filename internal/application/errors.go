package application

import (
	"errors"

	"pricerelay-service/internal/domain"
)

const (
	OracleServiceName = "oracle"
	RelayServiceName  = "price_fetcher"
)

// Oracle service failures.
var (
	ErrPriceUnavailable = &domain.CodedError{
		Service: OracleServiceName, Code: 6000, Name: "PriceUnavailable",
		Message: "Price data is not available for the requested feed",
	}
	ErrOracleInvalidFeedIDFormat = &domain.CodedError{
		Service: OracleServiceName, Code: 6001, Name: "InvalidFeedIdFormat",
		Message: "Invalid feed ID format",
	}
	ErrClockUnavailable = &domain.CodedError{
		Service: OracleServiceName, Code: 6002, Name: "ClockUnavailable",
		Message: "Unable to access the trusted clock",
	}
)

// Relay service failures.
var (
	ErrEmptyPriceAccount = &domain.CodedError{
		Service: RelayServiceName, Code: 6000, Name: "EmptyPriceAccount",
		Message: "Price update account contains no data",
	}
	ErrInvalidFeedIDFormat = &domain.CodedError{
		Service: RelayServiceName, Code: 6001, Name: "InvalidFeedIdFormat",
		Message: "Invalid feed ID format (must be 64 hex characters)",
	}
	ErrInvalidMaximumAge = &domain.CodedError{
		Service: RelayServiceName, Code: 6002, Name: "InvalidMaximumAge",
		Message: "Invalid maximum age parameter",
	}
	ErrOracleProgram = &domain.CodedError{
		Service: RelayServiceName, Code: 6003, Name: "OracleProgramError",
		Message: "Oracle program returned an error",
	}
	ErrInvalidPriceAccountOwner = &domain.CodedError{
		Service: RelayServiceName, Code: 6004, Name: "InvalidPriceAccountOwner",
		Message: "Invalid price account owner",
	}
	ErrAccountStateModified = &domain.CodedError{
		Service: RelayServiceName, Code: 6005, Name: "AccountStateModified",
		Message: "Account state was unexpectedly modified during external call",
	}
)

var relayErrors = []*domain.CodedError{
	ErrEmptyPriceAccount,
	ErrInvalidFeedIDFormat,
	ErrInvalidMaximumAge,
	ErrOracleProgram,
	ErrInvalidPriceAccountOwner,
	ErrAccountStateModified,
}

// IsRetryable reports whether a relay failure may be retried with a new request.
// A modified account signals tampering and is never retried.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrAccountStateModified) {
		return false
	}
	for _, e := range relayErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
