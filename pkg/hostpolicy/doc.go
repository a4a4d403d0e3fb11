// Package hostpolicy provides the operator-managed origin deny list.
//
// # Overview
//
// Beyond the built-in private-range guard, operators can maintain a YAML
// file of origin hosts and networks the proxy must refuse:
//
//	deny_hosts:
//	  - media.blocked.example
//	  - "*.tracker.example"
//	deny_networks:
//	  - 203.0.113.0/24
//
// Host entries match exactly, or match a whole subdomain tree when
// prefixed with "*.". Network entries are CIDR blocks checked against
// every resolved (and dialed) origin address.
//
// # Hot reload
//
// The file is optional. When watching is enabled the provider reloads it
// on change through fsnotify with debouncing, swapping in the new rule
// set atomically. Requests only ever observe a complete snapshot; a file
// that fails to parse leaves the previous snapshot in place.
package hostpolicy
