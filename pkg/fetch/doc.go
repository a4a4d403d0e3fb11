// Package fetch performs the outbound origin request.
//
// # Overview
//
// The fetcher issues a single GET per proxy request. There are no retries:
// re-fetching large media is expensive and the caller can always drive a
// fresh request. Two independent budgets bound the fetch:
//
//   - connect timeout: dialing the origin (per attempt, per hop)
//   - fetch timeout: the whole transfer including the body read
//
// Redirects are followed up to a bounded hop count. Every hop is checked
// against the address guard and the deny list again, and a hop that
// revisits a URL already seen in the chain fails immediately as a loop.
//
// # Address guard
//
// The guard refuses loopback, private, link-local, multicast, and
// unspecified destinations, plus anything the operator's deny list names.
// It runs before the request (on the resolved addresses of the target
// host) and again inside the dialer on the exact address being connected,
// so a DNS answer that changes between check and dial cannot smuggle the
// proxy into a private network. Resolution failures fail closed.
package fetch
