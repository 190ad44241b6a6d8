// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a transport server (HTTP today) started by the process wiring.
type Delivery interface {
	// Serve blocks, accepting requests until the server is shut down.
	Serve(ctx context.Context) error
}
