// Package authapi exposes the account lifecycle over HTTP.
//
// Every endpoint accepts and returns JSON. Service errors surface as an
// error envelope {"error":{"code","message"}} whose status is derived from
// the identity error kind; unexpected failures collapse to 500 with no
// internal detail exposed.
package authapi
