package simcore

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/jmank88/ubjson"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"
)

func float32bits(v float64) uint32    { return math.Float32bits(float32(v)) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }

// replayMagic is the preamble every replay file starts with, in the same
// spirit as reader.go's Slippi magic-byte preamble -- a fixed byte
// sequence that lets a reader reject non-replay files up front.
var replayMagic = []byte{0x50, 0x46, 0x53, 0x52, 0x31} // "PFSR1"

// ReplayHeader is the replay file's preamble: the data needed to
// reproduce a match deterministically (spec.md §6: "deterministic triple
// of (init_seed, controller_input_history, selected_setup)").
type ReplayHeader struct {
	InitSeed    int64
	FighterKeys []string
	StageKey    string
}

// ReplayFrame is one frame's recorded controller samples, one per player.
type ReplayFrame struct {
	Frame  int
	Inputs []Control
}

// ReplayMetadata is the UBJSON-encoded trailer, mirroring reader.go's
// Metadata/PlayerMetadata/Names structs and jmank88/ubjson usage.
type ReplayMetadata struct {
	Duration    int               `ubjson:"duration"`
	PlayerNames map[string]string `ubjson:"playerNames"`
}

// WriteReplay encodes header, the full per-frame input history, and a
// metadata trailer to w, following reader.go's fixed preamble + event
// stream + trailing-metadata shape but in the write direction.
func WriteReplay(w io.Writer, header ReplayHeader, frames []ReplayFrame, meta ReplayMetadata) error {
	if _, err := w.Write(replayMagic); err != nil {
		return errors.Wrap(err, "replay: write magic")
	}
	if err := writeString(w, encodeShiftJIS("")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, header.InitSeed); err != nil {
		return errors.Wrap(err, "replay: write seed")
	}
	if err := writeStringList(w, header.FighterKeys); err != nil {
		return errors.Wrap(err, "replay: write fighter keys")
	}
	if err := writeString(w, []byte(header.StageKey)); err != nil {
		return errors.Wrap(err, "replay: write stage key")
	}

	if err := binary.Write(w, binary.BigEndian, int32(len(frames))); err != nil {
		return errors.Wrap(err, "replay: write frame count")
	}
	for _, fr := range frames {
		if err := writeFrame(w, fr); err != nil {
			return errors.Wrapf(err, "replay: write frame %d", fr.Frame)
		}
	}

	enc := ubjson.NewEncoder(w)
	if err := enc.Encode(meta); err != nil {
		return errors.Wrap(err, "replay: encode metadata")
	}
	return nil
}

// ReadReplay decodes a replay file written by WriteReplay. It validates
// the preamble the way reader.go's NewSlpReader validates the Slippi
// magic bytes before trusting anything else in the file.
func ReadReplay(r io.Reader) (ReplayHeader, []ReplayFrame, ReplayMetadata, error) {
	var header ReplayHeader
	var frames []ReplayFrame
	var meta ReplayMetadata

	magic := make([]byte, len(replayMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return header, nil, meta, errors.Wrap(err, "replay: read magic")
	}
	if !bytes.Equal(magic, replayMagic) {
		return header, nil, meta, errors.Errorf("replay: invalid preamble: %X", magic)
	}

	if _, err := readString(r); err != nil {
		return header, nil, meta, errors.Wrap(err, "replay: read reserved field")
	}
	if err := binary.Read(r, binary.BigEndian, &header.InitSeed); err != nil {
		return header, nil, meta, errors.Wrap(err, "replay: read seed")
	}
	keys, err := readStringList(r)
	if err != nil {
		return header, nil, meta, errors.Wrap(err, "replay: read fighter keys")
	}
	header.FighterKeys = keys
	stageKeyBytes, err := readString(r)
	if err != nil {
		return header, nil, meta, errors.Wrap(err, "replay: read stage key")
	}
	header.StageKey = string(stageKeyBytes)

	var count int32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return header, nil, meta, errors.Wrap(err, "replay: read frame count")
	}
	for i := int32(0); i < count; i++ {
		fr, err := readFrame(r, len(header.FighterKeys))
		if err != nil {
			return header, nil, meta, errors.Wrapf(err, "replay: read frame %d", i)
		}
		frames = append(frames, fr)
	}

	dec := ubjson.NewDecoder(r)
	if err := dec.Decode(&meta); err != nil && err != io.EOF {
		return header, frames, meta, errors.Wrap(err, "replay: decode metadata")
	}
	return header, frames, meta, nil
}

// LoadReplayFile is a convenience wrapper opening path and calling
// ReadReplay, mirroring reader.go's os.File-backed SlpSource path.
func LoadReplayFile(path string) (ReplayHeader, []ReplayFrame, ReplayMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		var h ReplayHeader
		var m ReplayMetadata
		return h, nil, m, errors.Wrapf(err, "replay: open %s", path)
	}
	defer f.Close()
	return ReadReplay(f)
}

func writeFrame(w io.Writer, fr ReplayFrame) error {
	if err := binary.Write(w, binary.BigEndian, int32(fr.Frame)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(len(fr.Inputs))); err != nil {
		return err
	}
	for _, c := range fr.Inputs {
		if err := writeControl(w, c); err != nil {
			return err
		}
	}
	return nil
}

func readFrame(r io.Reader, expectedPlayers int) (ReplayFrame, error) {
	var fr ReplayFrame
	var frame, n int32
	if err := binary.Read(r, binary.BigEndian, &frame); err != nil {
		return fr, err
	}
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return fr, err
	}
	fr.Frame = int(frame)
	for i := int32(0); i < n; i++ {
		c, err := readControl(r)
		if err != nil {
			return fr, err
		}
		fr.Inputs = append(fr.Inputs, c)
	}
	return fr, nil
}

// controlBitmask packs eight digital buttons (A, B, X, Y and the four
// d-pad directions) into one byte, matching events.go's PhysicalButtons
// bitmask idiom; writeControl stores L, R, Z, Start and PluggedIn in a
// second byte.
func controlBitmask(c Control) byte {
	var b byte
	set := func(bit uint, v bool) {
		if v {
			b |= 1 << bit
		}
	}
	set(0, c.A)
	set(1, c.B)
	set(2, c.X)
	set(3, c.Y)
	set(4, c.Up)
	set(5, c.Down)
	set(6, c.Left)
	set(7, c.Right)
	return b
}

func unpackBitmask(b byte) (a, bt, x, y, up, down, left, right bool) {
	return b&1 != 0, b&2 != 0, b&4 != 0, b&8 != 0, b&16 != 0, b&32 != 0, b&64 != 0, b&128 != 0
}

func writeControl(w io.Writer, c Control) error {
	buf := make([]byte, 1+1+4*6)
	buf[0] = controlBitmask(c)
	buf[1] = boolByte(c.L) | boolByte(c.R)<<1 | boolByte(c.Z)<<2 | boolByte(c.Start)<<3 | boolByte(c.PluggedIn)<<4
	off := 2
	for _, v := range []float64{c.StickX, c.StickY, c.CStickX, c.CStickY, c.LTrigger, c.RTrigger} {
		binary.BigEndian.PutUint32(buf[off:], float32bits(v))
		off += 4
	}
	_, err := w.Write(buf)
	return err
}

func readControl(r io.Reader) (Control, error) {
	buf := make([]byte, 1+1+4*6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Control{}, err
	}
	a, bt, x, y, up, down, left, right := unpackBitmask(buf[0])
	flags := buf[1]
	c := Control{
		A: a, B: bt, X: x, Y: y, Up: up, Down: down, Left: left, Right: right,
		L: flags&1 != 0, R: flags&2 != 0, Z: flags&4 != 0, Start: flags&8 != 0, PluggedIn: flags&16 != 0,
	}
	off := 2
	vals := make([]float64, 6)
	for i := range vals {
		vals[i] = float64(float32frombits(binary.BigEndian.Uint32(buf[off:])))
		off += 4
	}
	c.StickX, c.StickY, c.CStickX, c.CStickY, c.LTrigger, c.RTrigger = vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]
	return c, nil
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func writeString(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString(r io.Reader) ([]byte, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeStringList(w io.Writer, list []string) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(list))); err != nil {
		return err
	}
	for _, s := range list {
		if err := writeString(w, []byte(s)); err != nil {
			return err
		}
	}
	return nil
}

func readStringList(r io.Reader) ([]string, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		b, err := readString(r)
		if err != nil {
			return nil, err
		}
		out = append(out, string(b))
	}
	return out, nil
}

// decodeShiftJIS decodes a Shift-JIS byte string, reusing the same
// golang.org/x/text decoder reader.go uses for player/fighter display
// names embedded in the wire format.
func decodeShiftJIS(b []byte) (string, error) {
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, "replay: decode shift-jis")
	}
	return string(decoded), nil
}

// encodeShiftJIS is the write-side counterpart used for a replay's
// reserved name field; WriteReplay currently writes it empty.
func encodeShiftJIS(s string) []byte {
	encoded, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return encoded
}
