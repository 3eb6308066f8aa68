// Package client talks to the ship agency backend over its JSON API.
//
// # Overview
//
// HTTPClient covers every API route: account (Register, Login, Me,
// CleanupUsers), vessels (List/Get/Create/Update/Delete), notifications
// (SendServiceNotification, SendCustomNotification), Health and the
// websocket event stream (WatchEvents). A token obtained by Register or
// Login is kept by the client and sent as a bearer credential.
//
// # Error Handling
//
// Non-2xx responses become *Error carrying the status and the server's
// message. *Error matches common.ErrUnauthorized, common.ErrForbidden,
// common.ErrorNotFound and common.ErrValidation with errors.Is. Transport
// failures are wrapped with ErrUnavailable.
package client
