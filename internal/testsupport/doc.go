// Package testsupport builds isolated configurations and stub tool binaries
// for tests that exercise clipper's command and preflight layers.
package testsupport
