// Package cancellation implements the contract cancellation service:
// submission intake, printable document generation and gated re-download.
//
// The package keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package cancellation
