package media

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Screen tracks an active local screen-share. The capture pipeline itself
// lives in the platform layer; this only owns the release hook.
type Screen struct {
	mu      sync.Mutex
	sharing bool
	stop    func()
}

func NewScreen() *Screen {
	return &Screen{}
}

// Start registers a running share and the hook that tears it down.
func (s *Screen) Start(stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sharing = true
	s.stop = stop
}

func (s *Screen) IsSharing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sharing
}

func (s *Screen) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sharing {
		return
	}
	s.sharing = false
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	log.Info().Str("module", "media").Msg("screen share released")
}
