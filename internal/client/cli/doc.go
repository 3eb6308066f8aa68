// Package cli provides the interactive ship agency dashboard.
//
// The dashboard talks to the agency API through client.Client: accounts,
// the vessel board, notification e-mails and the live event stream. E-mails
// can also be drafted locally with notify.Compose and opened through a
// mailto: link, without the server sending anything.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
