package discovery

import (
	"context"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures hub browsing.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface. Empty
	// means all interfaces.
	Interface string

	// Timeout bounds FindFirst and FindBySerial. Defaults to
	// BrowseTimeout.
	Timeout time.Duration
}

// Browser discovers hubs over mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates a hub browser.
func NewBrowser(config BrowserConfig) *Browser {
	if config.Timeout <= 0 {
		config.Timeout = BrowseTimeout
	}
	return &Browser{config: config}
}

// Browse streams hubs as they are discovered until ctx ends. The same
// hub announced on several interfaces appears once, with its addresses
// aggregated; the channel closes when browsing stops.
func (b *Browser) Browse(ctx context.Context) (<-chan *Hub, error) {
	out := make(chan *Hub)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	added := make(chan *Hub)
	gone := make(chan *Hub)

	opts := b.browserOptions()

	// Convert zeroconf entries; announcements without a valid TXT
	// record are dropped. Removals only need instance and addresses.
	go func() {
		defer close(added)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				hub := entryToHub(entry)
				if hub == nil {
					continue
				}
				select {
				case added <- hub:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					removed = nil
					continue
				}
				loss := &Hub{InstanceName: entry.Instance, Addresses: entryAddresses(entry)}
				select {
				case gone <- loss:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go aggregate(ctx, added, gone, out)

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// aggregate merges per-interface announcements of the same instance into
// one Hub and streams each new instance once. Consumers receive copies:
// later merges never mutate a delivered value. A removal that drains all
// of an instance's addresses forgets it, so a re-announcement is emitted
// again.
func aggregate(ctx context.Context, added, gone <-chan *Hub, out chan<- *Hub) {
	defer close(out)

	hubs := make(map[string]*Hub)

	for {
		select {
		case hub, ok := <-added:
			if !ok {
				return
			}

			existing, found := hubs[hub.InstanceName]
			if found {
				existing.Addresses = mergeAddresses(existing.Addresses, hub.Addresses)
				continue
			}

			hubs[hub.InstanceName] = hub
			select {
			case out <- hub.clone():
			case <-ctx.Done():
				return
			}

		case loss, ok := <-gone:
			if !ok {
				gone = nil
				continue
			}
			if existing, found := hubs[loss.InstanceName]; found {
				existing.Addresses = pruneAddresses(existing.Addresses, loss.Addresses)
				if len(existing.Addresses) == 0 {
					delete(hubs, loss.InstanceName)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// FindBySerial waits for the hub with the given serial number.
func (b *Browser) FindBySerial(ctx context.Context, serial string) (*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case hub, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if hub.SerialNumber == serial {
				return hub, nil
			}
		case <-ctx.Done():
			return nil, ErrNotFound
		}
	}
}

// FindFirst waits for any hub to appear.
func (b *Browser) FindFirst(ctx context.Context) (*Hub, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case hub, ok := <-results:
		if !ok {
			return nil, ErrNotFound
		}
		return hub, nil
	case <-ctx.Done():
		return nil, ErrNotFound
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToHub converts a zeroconf entry. Announcements without a valid
// TXT record are dropped.
func entryToHub(entry *zeroconf.ServiceEntry) *Hub {
	hub := &Hub{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    entryAddresses(entry),
	}

	txt := StringsToTXTRecords(entry.Text)
	if err := DecodeHubTXT(txt, hub); err != nil {
		return nil
	}
	return hub
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses adds new addresses to the existing list, skipping
// duplicates.
func mergeAddresses(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range extra {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// pruneAddresses drops the addresses a removal announcement carried.
func pruneAddresses(addresses, lost []string) []string {
	toRemove := make(map[string]bool, len(lost))
	for _, addr := range lost {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
