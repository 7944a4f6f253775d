package telemetry

import (
	"context"
	"fmt"
	"io"
	"math"

	"go.einride.tech/can"

	"github.com/san-kum/balancesim/internal/dynamo"
)

const (
	FrameID = 0x120

	TimeScale     = 1e-3
	PositionScale = 1e-3
	AngleScale    = 1e-5
)

// FrameWriter sends CAN frames somewhere.
type FrameWriter interface {
	WriteFrame(ctx context.Context, frame can.Frame) error
	Close() error
}

// Encode packs f. Values outside the signal range saturate.
func Encode(f dynamo.Frame) can.Frame {
	var data can.Data
	data.SetUnsignedBitsLittleEndian(0, 32, uint64(quantize(f.Time, TimeScale, 0, math.MaxUint32)))
	data.SetSignedBitsLittleEndian(32, 16, quantize(f.Position, PositionScale, math.MinInt16, math.MaxInt16))
	data.SetSignedBitsLittleEndian(48, 16, quantize(f.Angle, AngleScale, math.MinInt16, math.MaxInt16))

	return can.Frame{
		ID:     FrameID,
		Length: 8,
		Data:   data,
	}
}

func Decode(frame can.Frame) (dynamo.Frame, error) {
	if frame.ID != FrameID {
		return dynamo.Frame{}, fmt.Errorf("unexpected frame id 0x%X", frame.ID)
	}
	if frame.Length != 8 {
		return dynamo.Frame{}, fmt.Errorf("frame 0x%X expects DLC 8, got %d", frame.ID, frame.Length)
	}

	return dynamo.Frame{
		Time:     float64(frame.Data.UnsignedBitsLittleEndian(0, 32)) * TimeScale,
		Position: float64(frame.Data.SignedBitsLittleEndian(32, 16)) * PositionScale,
		Angle:    float64(frame.Data.SignedBitsLittleEndian(48, 16)) * AngleScale,
	}, nil
}

func quantize(v, scale float64, lo, hi int64) int64 {
	raw := math.Round(v / scale)
	if math.IsNaN(raw) {
		return 0
	}
	if raw < float64(lo) {
		return lo
	}
	if raw > float64(hi) {
		return hi
	}
	return int64(raw)
}

// WriteLog writes frames in candump log format, one line per frame,
// timestamped with the frame's simulated time.
func WriteLog(w io.Writer, iface string, frames []dynamo.Frame) error {
	for _, f := range frames {
		if _, err := fmt.Fprintf(w, "(%.6f) %s %s\n", f.Time, iface, Encode(f).String()); err != nil {
			return fmt.Errorf("%w: %v", dynamo.ErrExportIO, err)
		}
	}
	return nil
}

// Send writes every frame to fw in order, stopping at the first error.
func Send(ctx context.Context, fw FrameWriter, frames []dynamo.Frame) (int, error) {
	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := fw.WriteFrame(ctx, Encode(f)); err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return len(frames), nil
}
