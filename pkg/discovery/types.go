package discovery

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// mDNS service constants.
const (
	// ServiceType is the service type hubs announce.
	ServiceType = "_lumen._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the hub's default websocket port.
	DefaultPort = 8080

	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second
)

// TXT record keys.
const (
	TXTKeySerial  = "serial" // hub serial number (required)
	TXTKeyName    = "name"   // installation name (optional)
	TXTKeyProject = "prj"    // project name (optional)
	TXTKeyVersion = "ver"    // firmware version (optional)
	TXTKeyPath    = "path"   // websocket endpoint path (optional)
	TXTKeyTLS     = "tls"    // "1" when the endpoint requires TLS
)

// Discovery errors.
var (
	// ErrNotFound indicates no matching hub was discovered in time.
	ErrNotFound = errors.New("hub not found")

	// ErrMissingRequired indicates a TXT record lacks a required key.
	ErrMissingRequired = errors.New("missing required TXT record")
)

// Hub is one discovered hub announcement.
type Hub struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the announced hostname.
	Host string

	// Port is the announced websocket port.
	Port uint16

	// Addresses holds the IPv4 and IPv6 addresses seen across all
	// interfaces the announcement arrived on.
	Addresses []string

	// SerialNumber identifies the hub hardware.
	SerialNumber string

	// Name is the installation name, when announced.
	Name string

	// ProjectName is the configured project name, when announced.
	ProjectName string

	// Version is the hub firmware version, when announced.
	Version string

	// Path is the websocket endpoint path; empty means the default.
	Path string

	// TLS indicates the endpoint requires a TLS connection.
	TLS bool
}

// clone returns a copy whose address list is independent of the
// original, so browse aggregation never mutates a delivered value.
func (h *Hub) clone() *Hub {
	c := *h
	c.Addresses = append([]string(nil), h.Addresses...)
	return &c
}

// Addr returns the host:port to dial. It prefers the first resolved
// address over the mDNS hostname, which not every resolver handles.
func (h *Hub) Addr() string {
	host := h.Host
	if len(h.Addresses) > 0 {
		host = h.Addresses[0]
	}
	port := h.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}
