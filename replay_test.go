package simcore

import (
	"bytes"
	"testing"
)

func TestControlRoundTrip(t *testing.T) {
	c := Control{
		A: true, B: false, X: true, Y: false,
		Up: true, Down: false, Left: true, Right: false,
		L: true, R: false, Z: true, Start: false, PluggedIn: true,
		StickX: 0.375, StickY: -0.625, CStickX: 1, CStickY: -1,
		LTrigger: 0.5, RTrigger: 0.25,
	}

	var buf bytes.Buffer
	if err := writeControl(&buf, c); err != nil {
		t.Fatalf("writeControl: %v", err)
	}
	got, err := readControl(&buf)
	if err != nil {
		t.Fatalf("readControl: %v", err)
	}

	if got.A != c.A || got.Left != c.Left || got.PluggedIn != c.PluggedIn {
		t.Errorf("digital buttons did not round-trip: got %+v want %+v", got, c)
	}
	if got.StickX != float64(float32(c.StickX)) || got.StickY != float64(float32(c.StickY)) {
		t.Errorf("analog stick did not round-trip within float32 precision: got %+v want %+v", got, c)
	}
}

func TestReplayRoundTrip(t *testing.T) {
	header := ReplayHeader{InitSeed: 12345, FighterKeys: []string{"base", "base"}, StageKey: "base"}
	frames := []ReplayFrame{
		{Frame: 0, Inputs: []Control{{PluggedIn: true}, {PluggedIn: true, A: true}}},
		{Frame: 1, Inputs: []Control{{PluggedIn: true, StickX: 0.5}, {PluggedIn: true}}},
	}
	meta := ReplayMetadata{Duration: 2, PlayerNames: map[string]string{"p1": "Alice", "p2": "Bob"}}

	var buf bytes.Buffer
	if err := WriteReplay(&buf, header, frames, meta); err != nil {
		t.Fatalf("WriteReplay: %v", err)
	}

	gotHeader, gotFrames, gotMeta, err := ReadReplay(&buf)
	if err != nil {
		t.Fatalf("ReadReplay: %v", err)
	}

	if gotHeader.InitSeed != header.InitSeed || gotHeader.StageKey != header.StageKey {
		t.Errorf("header mismatch: got %+v want %+v", gotHeader, header)
	}
	if len(gotHeader.FighterKeys) != 2 {
		t.Errorf("expected 2 fighter keys, got %d", len(gotHeader.FighterKeys))
	}
	if len(gotFrames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(gotFrames))
	}
	if gotFrames[1].Inputs[0].StickX != float64(float32(0.5)) {
		t.Errorf("expected frame 1 player 0 stickX to round-trip, got %f", gotFrames[1].Inputs[0].StickX)
	}
	if gotMeta.PlayerNames["p1"] != "Alice" {
		t.Errorf("expected metadata trailer to round-trip, got %+v", gotMeta)
	}
}

func TestReadReplayRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not a replay file at all")
	if _, _, _, err := ReadReplay(buf); err == nil {
		t.Error("expected an invalid preamble to be rejected")
	}
}

func TestShiftJISRoundTrip(t *testing.T) {
	encoded := encodeShiftJIS("Mario")
	decoded, err := decodeShiftJIS(encoded)
	if err != nil {
		t.Fatalf("decodeShiftJIS: %v", err)
	}
	if decoded != "Mario" {
		t.Errorf("got %q, want %q", decoded, "Mario")
	}
}
