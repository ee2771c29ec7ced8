package device

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/san-kum/botlink/internal/command"
	"github.com/san-kum/botlink/internal/dynamo"
)

// FormatFrame renders cmd as a device frame:
//
//	Sy<x>;Sx<y>;Sz<omega>;S.\n
//
// Each value is the shortest decimal that round-trips the float32, never in
// exponent form (1.5 -> "1.5", -2 -> "-2", 0 -> "0"). Only MoveLocal has a
// frame; Stop returns nil.
func FormatFrame(cmd command.Command) []byte {
	if cmd.Kind != command.KindMoveLocal {
		return nil
	}
	return AppendFrame(make([]byte, 0, 32), cmd.X, cmd.Y, cmd.Omega)
}

// AppendFrame appends the frame for (x, y, omega) to dst.
func AppendFrame(dst []byte, x, y, omega float32) []byte {
	dst = append(dst, "Sy"...)
	dst = appendValue(dst, x)
	dst = append(dst, ";Sx"...)
	dst = appendValue(dst, y)
	dst = append(dst, ";Sz"...)
	dst = appendValue(dst, omega)
	dst = append(dst, ";S.\n"...)
	return dst
}

func appendValue(dst []byte, v float32) []byte {
	return strconv.AppendFloat(dst, float64(v), 'f', -1, 32)
}

var frameFields = [][]byte{[]byte("Sy"), []byte("Sx"), []byte("Sz")}

// ParseFrame decodes a single frame produced by FormatFrame.
func ParseFrame(frame []byte) (command.Command, error) {
	body, ok := bytes.CutSuffix(frame, []byte("S.\n"))
	if !ok {
		return command.Command{}, fmt.Errorf("%w: missing terminator in %q", dynamo.ErrInvalidFrame, frame)
	}

	parts := bytes.Split(body, []byte(";"))
	// trailing ';' before the terminator leaves an empty last element
	if len(parts) != len(frameFields)+1 || len(parts[len(parts)-1]) != 0 {
		return command.Command{}, fmt.Errorf("%w: expected 3 fields in %q", dynamo.ErrInvalidFrame, frame)
	}

	var vals [3]float32
	for i, prefix := range frameFields {
		raw, ok := bytes.CutPrefix(parts[i], prefix)
		if !ok {
			return command.Command{}, fmt.Errorf("%w: field %d lacks %s prefix", dynamo.ErrInvalidFrame, i, prefix)
		}
		v, err := strconv.ParseFloat(string(raw), 32)
		if err != nil {
			return command.Command{}, fmt.Errorf("%w: field %s: %v", dynamo.ErrInvalidFrame, prefix, err)
		}
		vals[i] = float32(v)
	}

	return command.MoveLocal(vals[0], vals[1], vals[2]), nil
}
