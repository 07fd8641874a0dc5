// Package tracker
// Author: momentics <momentics@gmail.com>
//
// Supervised motion-tracking ingest. A System owns at most one worker
// goroutine that receives VMC datagrams on a UDP socket, decodes them and
// folds the channel values into a mutex-guarded SharedSnapshot.
//
// Lifecycle: Idle -> Connect -> Active -> Disconnect -> Idle. Connect reports
// bind failures synchronously. Disconnect is cooperative: it raises a cancel
// flag and pulls the socket read deadline in so the worker notices within one
// receive interval at worst. A panic inside the worker is recovered and
// logged; the worker then exits and Active reports false until Disconnect
// clears the handle.
package tracker
