// Package cli provides the interactive gophnotes command-line client.
//
// It wires configuration, the gRPC client and the account and note services
// into a small REPL. Notes are encrypted and decrypted locally with the data
// key received at login; the key lives only in memory and is wiped on
// logout or exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
