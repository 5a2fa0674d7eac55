// Package transport is the single configured HTTP client of userdesk.
//
// A Client owns the base endpoint, the default headers, and the hook that
// attaches the current bearer credential to every outbound request. The
// credential is read from its CredentialSource immediately before dispatch,
// never at construction, so one Client serves both anonymous and
// authenticated calls.
//
// The package interprets nothing: non-2xx responses come back as
// *StatusError, network and decode failures come back wrapped. Response
// hooks let a higher layer observe statuses (the session manager uses one to
// detect rejected credentials) without scattering checks over call sites.
package transport
