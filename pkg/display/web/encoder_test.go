package web

import (
	"encoding/binary"
	"testing"
)

func solidFrame(r, g, b byte) []byte {
	f := make([]byte, frameSize)
	for i := 0; i < framePixels; i++ {
		f[i*4], f[i*4+1], f[i*4+2], f[i*4+3] = r, g, b, 0xFF
	}
	return f
}

func withPixel(f []byte, i int, r, g, b byte) []byte {
	f = append([]byte(nil), f...)
	f[i*4], f[i*4+1], f[i*4+2] = r, g, b
	return f
}

func expectMessage(t *testing.T, msg []byte, typ Type, idx uint16) {
	t.Helper()
	if msg[0] != typ {
		t.Fatalf("expected message type %d, got %d", typ, msg[0])
	}
	if got := binary.LittleEndian.Uint16(msg[1:3]); got != idx {
		t.Fatalf("expected cache index %d, got %d", idx, got)
	}
}

func TestCache_Lookup(t *testing.T) {
	c := newCache(2)
	if i, hit := c.lookup([]byte{1}); i != 0 || hit {
		t.Errorf("expected a miss at 0, got %d %v", i, hit)
	}
	if i, hit := c.lookup([]byte{2}); i != 1 || hit {
		t.Errorf("expected a miss at 1, got %d %v", i, hit)
	}
	if i, hit := c.lookup([]byte{1}); i != 0 || !hit {
		t.Errorf("expected a hit at 0, got %d %v", i, hit)
	}

	// the ring wraps, evicting the oldest entry
	if i, hit := c.lookup([]byte{3}); i != 0 || hit {
		t.Errorf("expected a miss at 0, got %d %v", i, hit)
	}
	if _, hit := c.lookup([]byte{1}); hit {
		t.Errorf("expected the evicted entry to miss")
	}
}

func TestCache_Sync(t *testing.T) {
	c := newCache(4)
	c.lookup([]byte{0xAA, 0xBB})
	c.lookup([]byte{0xCC})

	want := []byte{2, 0, 0, 0, 0, 0, 0xAA, 0xBB, 1, 0, 0, 0, 1, 0, 0xCC}
	if got := c.sync(); string(got) != string(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEncoder_FullFrameAndSkip(t *testing.T) {
	e := newEncoder(nil)
	black := solidFrame(0, 0, 0)

	messages, err := e.encode(black)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	expectMessage(t, messages[0], Frame, 0)
	if len(messages[0]) != 3+frameSize {
		t.Errorf("expected a full frame, got %d bytes", len(messages[0])-3)
	}

	for i := 0; i < 2; i++ {
		if messages, _ := e.encode(black); len(messages) != 0 {
			t.Fatalf("expected an unchanged frame to be skipped")
		}
	}

	messages, err = e.encode(withPixel(black, 10, 0xFF, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected a skip and a patch, got %d messages", len(messages))
	}
	if messages[0][0] != FrameSkip || binary.LittleEndian.Uint32(messages[0][1:]) != 2 {
		t.Errorf("expected 2 skipped frames, got %v", messages[0])
	}
	expectMessage(t, messages[1], FramePatch, 0)
	patch := messages[1][3:]
	if patch[40] != 0xFF || patch[43] != 0xFF || patch[0] != 0 || patch[3] != 0 {
		t.Errorf("expected only the changed pixel in the patch")
	}
}

func TestEncoder_PatchCache(t *testing.T) {
	e := newEncoder(nil)
	a := solidFrame(0, 0, 0)
	b := withPixel(a, 0, 0xFF, 0xFF, 0xFF)

	e.encode(a)
	first, _ := e.encode(b)
	expectMessage(t, first[0], FramePatch, 0)
	second, _ := e.encode(a)
	expectMessage(t, second[0], FramePatch, 1)

	third, _ := e.encode(b)
	expectMessage(t, third[0], PatchCache, 0)
	if len(third[0]) != 3 {
		t.Errorf("expected a cache hit to carry no data")
	}
}

func TestEncoder_FrameCache(t *testing.T) {
	e := newEncoder(nil)
	if !e.set(FramePatching, 0) {
		t.Fatal("expected frame patching to be configurable")
	}
	a := solidFrame(0, 0, 0)
	b := withPixel(a, 0, 0xFF, 0xFF, 0xFF)

	messages, _ := e.encode(a)
	expectMessage(t, messages[0], Frame, 0)
	messages, _ = e.encode(b)
	expectMessage(t, messages[0], Frame, 1)
	messages, _ = e.encode(a)
	expectMessage(t, messages[0], FrameCache, 0)

	sync, err := e.sync()
	if err != nil {
		t.Fatal(err)
	}
	if len(sync) != 3 || sync[0][0] != FrameSync || sync[1][0] != PatchCacheSync || sync[2][0] != FrameCacheSync {
		t.Fatalf("unexpected sync messages")
	}
	if len(sync[0]) != 1+frameSize {
		t.Errorf("expected the current frame, got %d bytes", len(sync[0])-1)
	}
	if len(sync[1]) != 1 {
		t.Errorf("expected an empty patch cache")
	}
	if len(sync[2]) != 1+2*(6+frameSize) {
		t.Errorf("expected 2 cached frames, got %d bytes", len(sync[2])-1)
	}
}

func TestEncoder_Compression(t *testing.T) {
	var quality int
	e := newEncoder(func(data []byte, q int) ([]byte, error) {
		quality = q
		return data[:8], nil
	})
	e.set(CompressionLevel, 4)

	messages, err := e.encode(solidFrame(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(messages[0]) != 3+8 {
		t.Errorf("expected a compressed frame, got %d bytes", len(messages[0])-3)
	}
	if quality != 4 {
		t.Errorf("expected quality 4, got %d", quality)
	}

	info, level, ratio := e.info()
	if info != 0b11100 || level != 4 || ratio != 2 {
		t.Errorf("unexpected info %08b %d %d", info, level, ratio)
	}

	e.set(Compression, 0)
	if info, _, _ := e.info(); info != 0b11000 {
		t.Errorf("expected compression to be disabled, got %08b", info)
	}
}

func TestEncoder_Set(t *testing.T) {
	e := newEncoder(nil)
	if e.set(Compression, 1); e.compression {
		t.Errorf("expected compression to stay off without a compressor")
	}
	if e.set(FramePatchingRatio, 9) {
		t.Errorf("expected an out of range ratio to be rejected")
	}
	if !e.set(FramePatchingRatio, 5) || e.framePatchRatio != 5 {
		t.Errorf("expected the ratio to be set")
	}
	if e.set(ClientStatus, 1) {
		t.Errorf("expected client status to be read only")
	}
}
