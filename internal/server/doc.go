// Package server assembles the customerd HTTP surface.
//
// The request chain is: request logging, then bearer-token resolution
// (auth.Middleware), then the route table. Role gates sit on individual
// routes: customer creation requires the ROLE_ADMIN token, reads and list
// comparisons require any authenticated identity, and the login and health
// endpoints are open.
//
// Domain failures map to the JSON error envelope at this boundary: empty
// filter results become 404, validation failures 400, authentication
// failures 401, missing roles 403, and everything else 500.
package server
