// Package sso implements a client for the external single-sign-on identity
// provider: building the authorization URL, exchanging an authorization code
// for tokens, and fetching the authenticated profile. The client is
// constructed once at startup and injected wherever it is needed; there is
// no package-level instance.
package sso
