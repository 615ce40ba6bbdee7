package drillmap

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/deepdrill/drill/internal/derrors"
)

// File format: a fixed uncompressed header followed by one DEFLATE blob
// holding channel records until EOF.
var magic = []byte("DeepDrill")

// Format version written into the header.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionBeta  = 0
)

// ChannelID selects which per-pixel quantity a record carries.
type ChannelID uint8

const (
	ChannelIterations ChannelID = iota
	ChannelLogNorms
	ChannelDerivatives
	ChannelNormals
)

// Format selects the per-sample encoding inside a channel record.
type Format uint8

const (
	FormatI16 Format = iota
	FormatI24
	FormatI32
	FormatFP16 // fixed point: int16 / 32767
	FormatFloat32
	FormatFloat64
)

// ChannelSpec pairs a channel with its on-disk sample format.
type ChannelSpec struct {
	ID     ChannelID
	Format Format
}

// DefaultChannels is what Save writes when the caller passes nil:
// iteration counts, log norms, and normals, in their customary formats.
var DefaultChannels = []ChannelSpec{
	{ChannelIterations, FormatI32},
	{ChannelLogNorms, FormatFloat32},
	{ChannelNormals, FormatFP16},
}

// CompressionLevel is the DEFLATE level for saved maps. Mid-level keeps
// load time acceptable.
const CompressionLevel = flate.DefaultCompression

// Save writes the map to path: header, then the requested channels as a
// single compressed blob. A nil channels slice writes DefaultChannels.
func (m *DrillMap) Save(path string, channels []ChannelSpec) error {
	if channels == nil {
		channels = DefaultChannels
	}
	var buf bytes.Buffer
	buf.Write(magic)
	buf.Write([]byte{VersionMajor, VersionMinor, VersionBeta})
	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[0:], uint64(m.Width))
	binary.LittleEndian.PutUint64(dims[8:], uint64(m.Height))
	buf.Write(dims[:])

	zw, err := flate.NewWriter(&buf, CompressionLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	for _, ch := range channels {
		if err := m.writeChannel(zw, ch); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", derrors.ErrIO, path, err)
	}
	return nil
}

func (m *DrillMap) writeChannel(w io.Writer, ch ChannelSpec) error {
	if _, err := w.Write([]byte{byte(ch.ID), byte(ch.Format)}); err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	for i := range m.entries {
		e := &m.entries[i]
		var samples []float64
		switch ch.ID {
		case ChannelIterations:
			samples = []float64{float64(e.Last)}
		case ChannelLogNorms:
			samples = []float64{e.LogNorm}
		case ChannelDerivatives:
			samples = []float64{real(e.Derivative), imag(e.Derivative)}
		case ChannelNormals:
			samples = []float64{real(e.Normal), imag(e.Normal)}
		default:
			return fmt.Errorf("%w: %d", derrors.ErrInvalidChannel, ch.ID)
		}
		for _, s := range samples {
			if err := writeSample(w, ch.Format, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSample(w io.Writer, f Format, v float64) error {
	var b [8]byte
	var n int
	switch f {
	case FormatI16:
		binary.LittleEndian.PutUint16(b[:], uint16(int16(v)))
		n = 2
	case FormatI24:
		u := uint32(int32(v)) & 0xffffff
		b[0], b[1], b[2] = byte(u), byte(u>>8), byte(u>>16)
		n = 3
	case FormatI32:
		binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
		n = 4
	case FormatFP16:
		c := v
		if c > 1 {
			c = 1
		} else if c < -1 {
			c = -1
		}
		binary.LittleEndian.PutUint16(b[:], uint16(int16(math.Round(c*32767))))
		n = 2
	case FormatFloat32:
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
		n = 4
	case FormatFloat64:
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		n = 8
	default:
		return fmt.Errorf("%w: format code %d", derrors.ErrFormat, f)
	}
	if _, err := w.Write(b[:n]); err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	return nil
}

func readSample(r io.Reader, f Format) (float64, error) {
	var b [8]byte
	var n int
	switch f {
	case FormatI16, FormatFP16:
		n = 2
	case FormatI24:
		n = 3
	case FormatI32, FormatFloat32:
		n = 4
	case FormatFloat64:
		n = 8
	default:
		return 0, fmt.Errorf("%w: format code %d", derrors.ErrFormat, f)
	}
	if _, err := io.ReadFull(r, b[:n]); err != nil {
		return 0, err
	}
	switch f {
	case FormatI16:
		return float64(int16(binary.LittleEndian.Uint16(b[:]))), nil
	case FormatI24:
		u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
		if u&0x800000 != 0 {
			u |= 0xff000000
		}
		return float64(int32(u)), nil
	case FormatI32:
		return float64(int32(binary.LittleEndian.Uint32(b[:]))), nil
	case FormatFP16:
		return float64(int16(binary.LittleEndian.Uint16(b[:]))) / 32767, nil
	case FormatFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[:]))), nil
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
	}
}

// Load reads a map file written by Save. Channels present in the file
// overwrite the corresponding entry fields; everything else stays zero.
func Load(path string) (*DrillMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", derrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", derrors.ErrIO, path, err)
	}
	if len(data) < len(magic)+3+16 || !bytes.Equal(data[:len(magic)], magic) {
		return nil, fmt.Errorf("%w: %s: bad magic", derrors.ErrFormat, path)
	}
	off := len(magic) + 3
	width := int(int64(binary.LittleEndian.Uint64(data[off:])))
	height := int(int64(binary.LittleEndian.Uint64(data[off+8:])))
	if width < 1 || width > MaxWidth || height < 1 || height > MaxHeight {
		return nil, fmt.Errorf("%w: %s: dimensions %dx%d", derrors.ErrFormat, path, width, height)
	}
	m := &DrillMap{
		Width:   width,
		Height:  height,
		entries: make([]MapEntry, width*height),
	}

	zr := flate.NewReader(bytes.NewReader(data[off+16:]))
	defer zr.Close()
	for {
		var hdr [2]byte
		if _, err := io.ReadFull(zr, hdr[:1]); err != nil {
			if err == io.EOF {
				return m, nil
			}
			return nil, err
		}
		if _, err := io.ReadFull(zr, hdr[1:]); err != nil {
			return nil, fmt.Errorf("%w: %s: truncated channel record", derrors.ErrFormat, path)
		}
		id, format := ChannelID(hdr[0]), Format(hdr[1])
		if id > ChannelNormals {
			return nil, fmt.Errorf("%w: %d", derrors.ErrInvalidChannel, id)
		}
		if format > FormatFloat64 {
			return nil, fmt.Errorf("%w: format code %d", derrors.ErrFormat, format)
		}
		if err := m.readChannel(zr, ChannelSpec{id, format}); err != nil {
			return nil, err
		}
	}
}

func (m *DrillMap) readChannel(r io.Reader, ch ChannelSpec) error {
	perPixel := 1
	if ch.ID == ChannelDerivatives || ch.ID == ChannelNormals {
		perPixel = 2
	}
	for i := range m.entries {
		e := &m.entries[i]
		vals := make([]float64, perPixel)
		for j := range vals {
			v, err := readSample(r, ch.Format)
			if err != nil {
				return err
			}
			vals[j] = v
		}
		switch ch.ID {
		case ChannelIterations:
			e.Last = int32(vals[0])
		case ChannelLogNorms:
			e.LogNorm = vals[0]
		case ChannelDerivatives:
			e.Derivative = complex(vals[0], vals[1])
		case ChannelNormals:
			e.Normal = complex(vals[0], vals[1])
		}
	}
	return nil
}
