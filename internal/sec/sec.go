// Package sec provides credential checks and login sessions for the stand-in
// album application.
//
// Passwords are stored as bcrypt hashes. A successful login creates a random
// session token that is handed to the browser in the [CookieName] cookie and
// resolved on every request. The resolved user travels on the request context
// via connectrpc.com/authn.
package sec
