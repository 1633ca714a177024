// Package auth implements the placeholder OAuth flow mounted by the
// streamable HTTP transport when auth.type is "oauth".
//
// The flow is deliberately hollow: GET /oauth/authorize renders a consent
// form without authenticating anyone, and POST /oauth/token mints an opaque
// bearer token for any authorization_code grant without checking a code.
// Issued tokens land in a TokenStore that nothing consults; transports do
// not require or verify Authorization headers. Deployments that need real
// authorization must put it in front of the server.
package auth
