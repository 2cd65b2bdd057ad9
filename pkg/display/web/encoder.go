package web

import (
	"encoding/binary"
	"sync"

	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/internal/types"
)

const (
	framePixels = ppu.ScreenWidth * ppu.ScreenHeight
	frameSize   = framePixels * 4

	// a frame patch is used when fewer than ratio*patchStep
	// pixels changed
	patchStep = framePixels / 5

	cacheSize = 64
)

// compressFunc compresses data at the given quality.
type compressFunc func(data []byte, quality int) ([]byte, error)

// encoder turns the frames of the emulator into the messages that
// are broadcast to clients. Unchanged frames may be skipped, frames
// with few changed pixels sent as patches, and repeated frames or
// patches sent as an index into a cache mirrored by the clients.
type encoder struct {
	mu sync.Mutex

	compress         compressFunc
	compression      bool
	compressionLevel int
	framePatching    bool
	framePatchRatio  int
	frameSkipping    bool

	current       []byte
	dirty         []byte
	framesSkipped uint32

	frames, patches *cache
}

func newEncoder(compress compressFunc) *encoder {
	return &encoder{
		compress:         compress,
		compression:      compress != nil,
		compressionLevel: 7,
		framePatching:    true,
		framePatchRatio:  2,
		frameSkipping:    true,
		current:          make([]byte, frameSize),
		dirty:            make([]byte, frameSize),
		frames:           newCache(cacheSize),
		patches:          newCache(cacheSize),
	}
}

// encode returns the messages to broadcast for frame. No messages
// are returned when the frame is skipped.
func (e *encoder) encode(frame []byte) ([][]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.dirty {
		e.dirty[i] = 0
	}

	dirtied := 0
	for i := 0; i < framePixels; i++ {
		p := frame[i*4 : i*4+3]
		c := e.current[i*4 : i*4+4]
		if c[0] == p[0] && c[1] == p[1] && c[2] == p[2] && c[3] == 0xFF {
			continue
		}

		copy(e.dirty[i*4:], p)
		e.dirty[i*4+3] = 0xFF
		copy(c, p)
		c[3] = 0xFF
		dirtied++
	}

	if dirtied == 0 && e.frameSkipping {
		e.framesSkipped++
		return nil, nil
	}

	var messages [][]byte
	if e.framesSkipped > 0 {
		skip := make([]byte, 5)
		skip[0] = FrameSkip
		binary.LittleEndian.PutUint32(skip[1:], e.framesSkipped)
		messages = append(messages, skip)
		e.framesSkipped = 0
	}

	typ, c, buffer := Frame, e.frames, e.current
	if e.framePatching && dirtied < e.framePatchRatio*patchStep {
		typ, c, buffer = FramePatch, e.patches, e.dirty
	}

	output, err := e.output(buffer, e.compressionLevel)
	if err != nil {
		return messages, err
	}

	idx, hit := c.lookup(output)
	msg := make([]byte, 3, 3+len(output))
	binary.LittleEndian.PutUint16(msg[1:], uint16(idx))
	switch {
	case hit && typ == Frame:
		msg[0] = FrameCache
	case hit:
		msg[0] = PatchCache
	default:
		msg[0] = typ
		msg = append(msg, output...)
	}

	return append(messages, msg), nil
}

// output copies buffer, compressing it when compression is enabled.
func (e *encoder) output(buffer []byte, quality int) ([]byte, error) {
	if e.compression && e.compress != nil {
		return e.compress(buffer, quality)
	}
	return append([]byte(nil), buffer...), nil
}

// sync returns the messages bringing a new client up to date with
// the current frame and the contents of both caches.
func (e *encoder) sync() ([][]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	frame, err := e.output(e.current, 9)
	if err != nil {
		return nil, err
	}

	return [][]byte{
		append([]byte{FrameSync}, frame...),
		append([]byte{PatchCacheSync}, e.patches.sync()...),
		append([]byte{FrameCacheSync}, e.frames.sync()...),
	}, nil
}

// set applies a setting sent by a client, returning false for
// settings the encoder does not handle.
func (e *encoder) set(setting Setting, value uint8) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch setting {
	case Compression:
		e.compression = value == 1 && e.compress != nil
	case CompressionLevel:
		if value > 11 {
			value = 11
		}
		e.compressionLevel = int(value)
	case FramePatching:
		e.framePatching = value == 1
	case FramePatchingRatio:
		if value < 1 || value > 5 {
			return false
		}
		e.framePatchRatio = int(value)
	case FrameSkipping:
		e.frameSkipping = value == 1
	default:
		return false
	}

	// cached entries were encoded with the old settings
	e.frames, e.patches = newCache(cacheSize), newCache(cacheSize)
	return true
}

// info packs the encoder settings into the low bits of the client
// status byte.
//
//	Bit 2: Compression enabled
//	Bit 3: Frame patching enabled
//	Bit 4: Frame skipping enabled
func (e *encoder) info() (info byte, level, ratio uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.compression {
		info |= types.Bit2
	}
	if e.framePatching {
		info |= types.Bit3
	}
	if e.frameSkipping {
		info |= types.Bit4
	}
	return info, uint8(e.compressionLevel), uint8(e.framePatchRatio)
}
