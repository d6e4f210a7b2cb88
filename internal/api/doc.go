// Package api serves read-only catalog queries over HTTP.
package api
