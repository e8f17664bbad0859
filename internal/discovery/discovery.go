// Package discovery implements the optional mDNS self-advertisement
// described in SPEC_FULL.md's domain stack (config key "advertise"): when
// enabled, the daemon publishes an _rmidimap._tcp service so LAN tools can
// discover a running instance without knowing its host.
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// ServiceType is the mDNS service type this daemon advertises itself as.
const ServiceType = "_rmidimap._tcp"

// Advertise registers an mDNS responder for this host and blocks serving
// it until ctx is cancelled. port is informational only (the daemon has no
// network listener of its own; SPEC_FULL.md's "advertise" mode exists so a
// companion UI can find the host running it, not to expose a remote API).
func Advertise(ctx context.Context, instanceName string, port int) error {
	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: instanceName,
		Type: ServiceType,
		Port: port,
	}

	service, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("discovery: build service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("discovery: new responder: %w", err)
	}

	if _, err := responder.Add(service); err != nil {
		return fmt.Errorf("discovery: add service: %w", err)
	}

	return responder.Respond(ctx)
}
