// Package resource accounts for the shared resources used while mounting
// segments.
//
//   - Memory: heap owned by materialized dictionaries and by buffers read
//     from non-mappable blobs. Acquisition is non-blocking and fails fast
//     with ErrMemoryLimitExceeded.
//   - Load slots: a process-wide bound on concurrent column loads across
//     all segments being opened.
//   - IO: a token bucket throttling bytes read from blob stores.
//
// A nil *Controller is valid; every method becomes a no-op.
package resource
