package audio

import (
	"errors"
	"testing"
)

func TestUninitializedManagerIsUnavailable(t *testing.T) {
	sm := NewSoundManager(false, nil)

	if err := sm.SessionStarted(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SessionStarted = %v, expected ErrUnavailable", err)
	}
	if err := sm.SessionEnded(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SessionEnded = %v, expected ErrUnavailable", err)
	}

	sm.Close() // no-op without a speaker
}

func TestMutedManagerIsSilent(t *testing.T) {
	sm := NewSoundManager(true, nil)

	if err := sm.Initialize(); err != nil {
		t.Fatalf("Initialize while muted: %v", err)
	}
	if err := sm.SessionStarted(); err != nil {
		t.Errorf("SessionStarted while muted: %v", err)
	}
	if err := sm.SessionEnded(); err != nil {
		t.Errorf("SessionEnded while muted: %v", err)
	}
}

func TestStoppedMusicLeavesMixer(t *testing.T) {
	sm := NewSoundManager(false, nil)
	buf := make([][2]float64, 1024)

	for run := 1; run <= 5; run++ {
		sm.startMusic()
		sm.mixer.Stream(buf)
		if sm.mixer.Len() != 1 {
			t.Fatalf("run %d: mixer holds %d streamers, expected 1", run, sm.mixer.Len())
		}
		sm.stopMusic()
	}

	sm.mixer.Stream(buf)
	if sm.mixer.Len() != 0 {
		t.Errorf("mixer holds %d streamers after the music stopped, expected 0", sm.mixer.Len())
	}
}
