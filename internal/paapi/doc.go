// Package paapi implements a minimal Amazon Product Advertising API v5
// client: a SigV4 request signer and a SearchItems call scoped to what the
// enrichment pipeline needs.
package paapi
