package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeHubTXT creates the TXT records a hub announces.
func EncodeHubTXT(hub *Hub) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeySerial] = hub.SerialNumber

	if hub.Name != "" {
		txt[TXTKeyName] = hub.Name
	}
	if hub.ProjectName != "" {
		txt[TXTKeyProject] = hub.ProjectName
	}
	if hub.Version != "" {
		txt[TXTKeyVersion] = hub.Version
	}
	if hub.Path != "" {
		txt[TXTKeyPath] = hub.Path
	}
	if hub.TLS {
		txt[TXTKeyTLS] = "1"
	}

	return txt
}

// DecodeHubTXT parses a hub announcement's TXT records into hub. Fields
// already set on hub (instance name, addresses) are left alone.
func DecodeHubTXT(txt TXTRecordMap, hub *Hub) error {
	serial, ok := txt[TXTKeySerial]
	if !ok || serial == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeySerial)
	}
	hub.SerialNumber = serial

	hub.Name = txt[TXTKeyName]
	hub.ProjectName = txt[TXTKeyProject]
	hub.Version = txt[TXTKeyVersion]
	hub.Path = txt[TXTKeyPath]
	hub.TLS = txt[TXTKeyTLS] == "1"

	return nil
}

// StringsToTXTRecords converts mDNS TXT strings ("key=value") to a map.
// Malformed entries without '=' are kept as flag keys with empty values.
func StringsToTXTRecords(txtStrings []string) TXTRecordMap {
	txt := make(TXTRecordMap, len(txtStrings))
	for _, s := range txtStrings {
		key, value, found := strings.Cut(s, "=")
		if !found {
			txt[s] = ""
			continue
		}
		txt[key] = value
	}
	return txt
}

// TXTRecordsToStrings converts a map to mDNS TXT strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	out := make([]string, 0, len(txt))
	for key, value := range txt {
		out = append(out, key+"="+value)
	}
	return out
}
