package web

// Setting is a hub setting a client may change by sending
// [System, Setting, value].
type Setting = uint8

const (
	_ Setting = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	ClientStatus
	FramePatchingRatio
	RegisterUsername
)

// Messages sent by a client.
const (
	// PausePlay is followed by 0 to pause and 1 to resume.
	PausePlay uint8 = 8
	// System carries a Setting.
	System    uint8 = 10
	KeepAlive uint8 = 254
	Closing   uint8 = 255
)

// Type is the first byte of every message sent to a client.
type Type = uint8

const (
	Frame Type = iota
	FramePatch
	FrameSkip
	ClientInfo
	PatchCache
	PatchCacheSync
	FrameCache
	FrameCacheSync
	FrameSync
	ClientListSync
	ClientClosing
	ServerInfo
	PlayerInfo
	PlayerIdentify
)
