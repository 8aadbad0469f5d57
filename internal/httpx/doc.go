// Package httpx provides shared low-level HTTP helpers used by the brain
// client. It covers synchronous JSON round-trips and Server-Sent Events
// streaming, plus a small pointer convenience used across the module.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] together with [SSEScanner] for Server-Sent Events streaming,
// and [Ptr] for converting values to pointers.
package httpx
