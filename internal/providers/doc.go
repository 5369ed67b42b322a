// Package providers resolves backend selections from configuration and wires
// the concrete stage implementations the pipeline calls into.
package providers
