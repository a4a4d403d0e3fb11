package fetch

import (
	"fmt"
	"net"
)

// DisallowedTargetError reports a fetch target rejected by the address
// guard or the operator deny list.
type DisallowedTargetError struct {
	Host   string
	IP     net.IP
	Reason string
}

func (e *DisallowedTargetError) Error() string {
	if e.IP != nil {
		return fmt.Sprintf("target %q disallowed: %s (%s)", e.Host, e.Reason, e.IP)
	}
	return fmt.Sprintf("target %q disallowed: %s", e.Host, e.Reason)
}

// BadStatusError reports an origin response that cannot be proxied. A 204
// counts: there is no media in an empty response.
type BadStatusError struct {
	StatusCode int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("origin returned status %d", e.StatusCode)
}

// RedirectError reports a redirect chain that revisited a URL or exceeded
// the hop budget.
type RedirectError struct {
	Hops     int
	Loop     bool
	Location string
}

func (e *RedirectError) Error() string {
	if e.Loop {
		return fmt.Sprintf("redirect loop detected at %s", e.Location)
	}
	return fmt.Sprintf("stopped after %d redirects", e.Hops)
}

// TimeoutError reports a fetch that exhausted its connect or transfer
// budget.
type TimeoutError struct {
	Phase string
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("origin fetch timed out during %s: %v", e.Phase, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// OriginError reports a transport-level failure talking to the origin,
// such as a refused connection or a broken body read.
type OriginError struct {
	Op  string
	Err error
}

func (e *OriginError) Error() string {
	return fmt.Sprintf("origin fetch failed during %s: %v", e.Op, e.Err)
}

func (e *OriginError) Unwrap() error { return e.Err }
