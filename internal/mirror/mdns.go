package mirror

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// serviceType is the mDNS service identity mirrors advertise under.
const serviceType = "_glyphboard._tcp"

// announce registers the mirror on the local network so viewers can
// find it without knowing the host address. The returned server must
// be shut down when the mirror closes.
func announce(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("resolve hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"", // default ".local" domain
		"", // default OS hostname
		port,
		nil, // auto-detect IPs
		[]string{"glyphboard mirror"},
	)
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("announce mdns service: %w", err)
	}
	return server, nil
}

// Discover looks up announced mirrors on the local network and calls
// found with each "host:port" address. It returns once the lookup
// window closes.
func Discover(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4, e.Port))
		}
	}()
	err := mdns.Lookup(serviceType, entries)
	close(entries)
	<-done
	return err
}
