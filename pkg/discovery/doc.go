// Package discovery locates Lumen hubs on the local network via mDNS.
//
// Hubs announce a "_lumen._tcp" service whose TXT records carry the
// serial number, installation name, and websocket endpoint path. Browse
// streams hubs as they appear; FindBySerial and FindFirst wrap it for
// the common lookups. A discovered Hub's Addr method yields the
// host:port a transport client dials.
package discovery
