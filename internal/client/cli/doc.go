// Package cli provides the userdesk command-line client.
//
// It wires configuration, the local credential store, the transport and the
// session manager, then runs either a single cobra subcommand or the
// interactive shell. Typical flow: log in once, then list, show, edit and
// delete users; the stored credential is reused by later invocations until
// logout or until the directory rejects it.
//
// Every command reports its outcome through a Notifier, one line per
// command. A rejected session is reported with a hint to log in again.
//
// The shell is started via App.Shell(ctx), which blocks until the user exits.
// See Run, App and runREPL for details.
package cli
