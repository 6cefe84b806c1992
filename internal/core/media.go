package core

import "context"

// MediaRequest describes a partial reconfiguration of local capture. A nil
// field means "leave as is".
type MediaRequest struct {
	Audio *bool
	Video *bool
}

// MediaCapability is the only surface through which the session core talks
// to the local media subsystem. Owned by the side-effect coordinator; the
// router never calls it directly.
type MediaCapability interface {
	// IsAudioRunning reports whether a capture pipeline exists at all.
	IsAudioRunning() bool
	// IsAudioEnabled reports whether captured audio is currently sent.
	IsAudioEnabled() bool
	// Reconfigure applies the request. Blocking; callers serialize.
	Reconfigure(ctx context.Context, req MediaRequest) error
	// Release tears down capture entirely (camera light off).
	Release()
}

// ScreenCapability controls an active local screen-share.
type ScreenCapability interface {
	IsSharing() bool
	Release()
}
