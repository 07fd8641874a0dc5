// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable buffer pools for the tracking ingest path and the wire encoder.
package pool
