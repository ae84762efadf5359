package model

import (
	"context"
	"net"
)

// SecurityLayer produces the listener the server serves on, TLS or plain.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a serving process with a lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
