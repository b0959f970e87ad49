package domain

// RequestState is the position of one relay request in the guard protocol.
type RequestState string

const (
	RequestStateValidating   RequestState = "validating"
	RequestStateSnapshotting RequestState = "snapshotting"
	RequestStateDelegating   RequestState = "delegating"
	RequestStateVerifying    RequestState = "verifying"
	RequestStateSucceeded    RequestState = "succeeded"
	RequestStateRejected     RequestState = "rejected"
)

// Terminal reports whether no further transition is possible.
func (s RequestState) Terminal() bool {
	return s == RequestStateSucceeded || s == RequestStateRejected
}
