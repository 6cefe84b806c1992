// Package media implements the local-media capability on top of a pion
// PeerConnection. The session core never imports this package; it only
// sees core.MediaCapability through the side-effect coordinator.
package media

import (
	"context"
	"errors"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

// Engine owns the local capture side of the peer connection. Mute works by
// replacing the sender track with nil so the transceiver stays negotiated.
type Engine struct {
	pc       *webrtc.PeerConnection
	audioTx  *webrtc.RTPTransceiver
	videoTx  *webrtc.RTPTransceiver
	audioTrk *webrtc.TrackLocalStaticRTP
	videoTrk *webrtc.TrackLocalStaticRTP

	mu           sync.RWMutex
	running      bool
	audioEnabled bool
	videoEnabled bool
}

func NewEngine(cfg webrtc.Configuration) (*Engine, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}

	audioTx, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio)
	if err != nil {
		pc.Close()
		return nil, err
	}
	videoTx, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo)
	if err != nil {
		pc.Close()
		return nil, err
	}

	audioTrk, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", "meet-local")
	if err != nil {
		pc.Close()
		return nil, err
	}
	videoTrk, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", "meet-local")
	if err != nil {
		pc.Close()
		return nil, err
	}

	e := &Engine{
		pc:       pc,
		audioTx:  audioTx,
		videoTx:  videoTx,
		audioTrk: audioTrk,
		videoTrk: videoTrk,
		running:  true,
	}

	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Info().Str("module", "media").Str("ice_state", s.String()).Msg("ICE state")
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "media").Str("peer_connection_state", s.String()).Msg("Peer state")
	})

	return e, nil
}

func (e *Engine) IsAudioRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

func (e *Engine) IsAudioEnabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running && e.audioEnabled
}

// Reconfigure applies a partial capture change. Blocking; the coordinator
// serializes calls that touch the microphone.
func (e *Engine) Reconfigure(ctx context.Context, req core.MediaRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return errors.New("media engine released")
	}

	if req.Audio != nil && *req.Audio != e.audioEnabled {
		var track webrtc.TrackLocal
		if *req.Audio {
			track = e.audioTrk
		}
		if err := e.audioTx.Sender().ReplaceTrack(track); err != nil {
			return err
		}
		e.audioEnabled = *req.Audio
		log.Info().Str("module", "media").Bool("enabled", e.audioEnabled).Msg("audio reconfigured")
	}

	if req.Video != nil && *req.Video != e.videoEnabled {
		var track webrtc.TrackLocal
		if *req.Video {
			track = e.videoTrk
		}
		if err := e.videoTx.Sender().ReplaceTrack(track); err != nil {
			return err
		}
		e.videoEnabled = *req.Video
		log.Info().Str("module", "media").Bool("enabled", e.videoEnabled).Msg("video reconfigured")
	}

	return nil
}

func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	e.audioEnabled = false
	e.videoEnabled = false
	if err := e.pc.Close(); err != nil {
		log.Error().Err(err).Str("module", "media").Msg("peer connection close")
	}
	log.Info().Str("module", "media").Msg("capture released")
}
