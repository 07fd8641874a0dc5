// Package transport
// Author: momentics <momentics@gmail.com>
//
// UDP socket setup for the tracker ingest worker. Platform files apply
// SO_REUSEADDR and SO_RCVBUF through golang.org/x/sys before bind.
package transport
