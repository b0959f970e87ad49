package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidIdentity = errors.New("invalid identity")

// CodedError is a failure from the closed error set of one service.
// Codes follow the Anchor convention: custom errors start at 6000 in
// declaration order.
type CodedError struct {
	Service string
	Code    uint32
	Name    string
	Message string
}

func (e *CodedError) Error() string { return e.Message }

// String renders the error the way it shows up in logs: "oracle.PriceUnavailable (6000)".
func (e *CodedError) String() string {
	return fmt.Sprintf("%s.%s (%d)", e.Service, e.Name, e.Code)
}

// AsCoded unwraps err to the first CodedError in its chain.
func AsCoded(err error) (*CodedError, bool) {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
