// Package connection defines the connection registry contract: the mapping
// between live websocket connections, server-assigned connection ids and the
// room a connection currently occupies.
package connection

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
