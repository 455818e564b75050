package types

// WithdrawalState is derived from a request timestamp and the current time.
// It is never stored.
type WithdrawalState int

const (
	WithdrawalNoRequest WithdrawalState = iota
	WithdrawalRequested
	WithdrawalActive
	WithdrawalExpired
)

// String returns the state name
func (s WithdrawalState) String() string {
	switch s {
	case WithdrawalNoRequest:
		return "no_request"
	case WithdrawalRequested:
		return "requested"
	case WithdrawalActive:
		return "active"
	case WithdrawalExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// WithdrawalStateAt computes the request state at now
func WithdrawalStateAt(requestedAt, now, wait, window int64) WithdrawalState {
	if requestedAt == 0 {
		return WithdrawalNoRequest
	}
	activeAt := requestedAt + wait
	if now < activeAt {
		return WithdrawalRequested
	}
	if now >= activeAt+window {
		return WithdrawalExpired
	}
	return WithdrawalActive
}

// WithdrawalStatus is the query view of a position's timelock
type WithdrawalStatus struct {
	State       string `json:"state"`
	RequestedAt int64  `json:"requested_at"`
	ActiveAt    int64  `json:"active_at"`
	ExpiresAt   int64  `json:"expires_at"`
}

// NewWithdrawalStatus builds the query view
func NewWithdrawalStatus(requestedAt, now, wait, window int64) WithdrawalStatus {
	st := WithdrawalStatus{
		State:       WithdrawalStateAt(requestedAt, now, wait, window).String(),
		RequestedAt: requestedAt,
	}
	if requestedAt != 0 {
		st.ActiveAt = requestedAt + wait
		st.ExpiresAt = requestedAt + wait + window
	}
	return st
}
