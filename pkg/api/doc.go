// Package api defines the request and response messages of the splitogram
// RPC services. Messages are encoded as JSON; amounts are int64 micro-USDT.
//
// Request fields carry `validate` tags checked before any handler runs.
package api
