// Package audio plays the game's synthesized music and sound effects
// through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	tempo      = 140
)

// ErrUnavailable is returned when sound is requested before the speaker
// was initialized, or after its initialization failed.
var ErrUnavailable = errors.New("audio unavailable")

// SoundManager implements sim.Audio: looping music while a run lasts and a
// crash when it ends. A muted manager accepts every call and stays silent.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
	muted       bool
	log         *log.Logger
}

// NewSoundManager creates a sound manager. Call Initialize before use
// unless muted.
func NewSoundManager(muted bool, logger *log.Logger) *SoundManager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SoundManager{
		mixer: &beep.Mixer{},
		muted: muted,
		log:   logger,
	}
}

// Initialize opens the speaker. It does nothing when muted.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || sm.muted {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.log.Debug("speaker ready", "sample_rate", sampleRate)
	return nil
}

// SessionStarted restarts the music from the beginning.
func (sm *SoundManager) SessionStarted() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.muted {
		return nil
	}
	if !sm.initialized {
		return ErrUnavailable
	}

	speaker.Lock()
	sm.startMusic()
	speaker.Unlock()
	return nil
}

// SessionEnded stops the music and plays the crash.
func (sm *SoundManager) SessionEnded() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.muted {
		return nil
	}
	if !sm.initialized {
		return ErrUnavailable
	}

	speaker.Lock()
	sm.stopMusic()
	sm.mixer.Add(beep.Take(sampleRate.N(400*time.Millisecond), NewCrashGenerator(sampleRate)))
	speaker.Unlock()
	return nil
}

// startMusic replaces the current loop with a fresh one. The caller holds
// the speaker lock.
func (sm *SoundManager) startMusic() {
	sm.stopMusic()
	sm.music = &beep.Ctrl{Streamer: beep.Loop(-1, NewMelodyGenerator(sampleRate, tempo))}
	sm.mixer.Add(sm.music)
}

// stopMusic detaches the loop from its Ctrl. A Ctrl without a streamer
// reports itself drained, so the mixer drops it on the next buffer.
func (sm *SoundManager) stopMusic() {
	if sm.music == nil {
		return
	}
	sm.music.Paused = true
	sm.music.Streamer = nil
	sm.music = nil
}

// Close silences everything and releases the speaker.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.music = nil
	sm.initialized = false
}
