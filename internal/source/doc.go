// Package source implements the transports that feed chat lines to the
// tracker: a live IRC connection (plain TCP, TLS or WebSocket), a logged
// transcript file that can be followed as it grows, and an in-memory line
// list.
package source
