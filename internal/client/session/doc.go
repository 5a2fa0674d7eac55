// Package session implements the authentication state machine and the
// user directory operations on top of the transport.
//
// The only authority for "authenticated" is the presence of a credential in
// the store. Login writes it once on success, Logout clears it, and a 401 on
// any domain call clears it through a transport response hook, so call sites
// never check for expiry themselves.
//
//	Anonymous --Login--> Authenticating --token--> Authenticated
//	                           |                        |
//	                           +--rejected/failure--> Anonymous <--Logout or 401
package session
