// Package transcribe turns a clip's speech into a Transcript.
//
// Backends are chosen once per process with Select: the first backend in the
// configured priority list whose prerequisites are present wins. When none
// is usable the selection is BackendNone and every call fails with a
// services.ErrConfiguration marker, which the pipeline records as a failed
// transcript slot.
package transcribe
