package model

import (
	"testing"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

func TestSwitchCommandsAndState(t *testing.T) {
	cmd := &recordingCommander{}
	desc := &wire.ControlDescription{
		UUIDAction: "sw-1",
		Name:       "Socket",
		Type:       "TimedSwitch",
		States: map[string]wire.StateValue{
			StateActive: {Value: ptrFloat(1)},
		},
	}
	sw := newSwitch(cmd, NewIdentity("sw-1"), desc, nil, nil).(*Switch)

	if on, ok := sw.Active(); !ok || !on {
		t.Errorf("Active() = %v, %v, want true, true", on, ok)
	}

	if err := sw.Off(); err != nil {
		t.Fatal(err)
	}
	if err := sw.Pulse(); err != nil {
		t.Fatal(err)
	}
	sends := cmd.sent()
	if sends[0] != "sw-1/Off" || sends[1] != "sw-1/Pulse" {
		t.Errorf("sent %v", sends)
	}
}

func TestInfoOnlyFormattedReading(t *testing.T) {
	cmd := &recordingCommander{}
	desc := &wire.ControlDescription{
		UUIDAction: "info-1",
		Name:       "Outside Temperature",
		Type:       "InfoOnlyAnalog",
		Details:    &wire.Details{Format: "%.1f°"},
		States: map[string]wire.StateValue{
			StateValueReading: {Value: ptrFloat(21.57)},
		},
	}
	info := newInfoOnly(cmd, NewIdentity("info-1"), desc, nil, nil).(*InfoOnly)

	if info.Digital() {
		t.Error("analog control reported digital")
	}
	if v, ok := info.Reading(); !ok || v != 21.57 {
		t.Errorf("Reading() = %v, %v", v, ok)
	}
	if text, ok := info.FormattedReading(); !ok || text != "21.6°" {
		t.Errorf("FormattedReading() = %q, %v, want 21.6°", text, ok)
	}
}

func TestInfoOnlyTextualReadingWins(t *testing.T) {
	cmd := &recordingCommander{}
	desc := &wire.ControlDescription{
		UUIDAction: "info-2",
		Name:       "Door",
		Type:       "InfoOnlyDigital",
		States: map[string]wire.StateValue{
			StateValueReading: {Value: ptrFloat(1), Text: ptrString("open")},
		},
	}
	info := newInfoOnly(cmd, NewIdentity("info-2"), desc, nil, nil).(*InfoOnly)

	if text, ok := info.FormattedReading(); !ok || text != "open" {
		t.Errorf("FormattedReading() = %q, want the hub-sent text", text)
	}
}

func TestInfoOnlyAbsentReading(t *testing.T) {
	cmd := &recordingCommander{}
	desc := &wire.ControlDescription{
		UUIDAction: "info-3",
		Name:       "Humidity",
		Type:       "InfoOnlyAnalog",
	}
	info := newInfoOnly(cmd, NewIdentity("info-3"), desc, nil, nil).(*InfoOnly)

	if _, ok := info.Reading(); ok {
		t.Error("Reading() reported a value before any push")
	}
	if _, ok := info.FormattedReading(); ok {
		t.Error("FormattedReading() reported a value before any push")
	}
}

func TestShade(t *testing.T) {
	cmd := &recordingCommander{}
	desc := &wire.ControlDescription{
		UUIDAction: "sh-1",
		Name:       "Terrace Awning",
		Type:       "Jalousie",
		States: map[string]wire.StateValue{
			StatePosition: {Value: ptrFloat(0.5)},
		},
	}
	sh := newShade(cmd, NewIdentity("sh-1"), desc, nil, nil).(*Shade)

	if pos, ok := sh.Position(); !ok || pos != 0.5 {
		t.Errorf("Position() = %v, %v", pos, ok)
	}

	_ = sh.FullUp()
	_ = sh.Stop()
	_ = sh.FullDown()
	sends := cmd.sent()
	want := []string{"sh-1/FullUp", "sh-1/Stop", "sh-1/FullDown"}
	for i, w := range want {
		if sends[i] != w {
			t.Errorf("sends[%d] = %q, want %q", i, sends[i], w)
		}
	}
}
