package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// noteFreq returns the frequency of a MIDI note number.
func noteFreq(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// melody is the background tune: an arpeggio over a bass note, one step
// per eighth note. 0 is a rest.
var melody = []struct{ lead, bass int }{
	{76, 52}, {79, 0}, {83, 0}, {79, 0},
	{74, 50}, {78, 0}, {81, 0}, {78, 0},
	{72, 48}, {76, 0}, {79, 0}, {76, 0},
	{74, 50}, {78, 0}, {81, 0}, {83, 0},
}

// MelodyGenerator synthesizes one pass of the background tune. It is a
// beep.StreamSeeker, so beep.Loop can repeat it.
type MelodyGenerator struct {
	sr     beep.SampleRate
	step   int // samples per melody step
	pos    int
	leadPh float64
	bassPh float64
}

// NewMelodyGenerator creates a melody generator at the given tempo.
func NewMelodyGenerator(sr beep.SampleRate, bpm int) *MelodyGenerator {
	if bpm <= 0 {
		bpm = 140
	}
	eighth := time.Minute / time.Duration(bpm*2)
	return &MelodyGenerator{sr: sr, step: sr.N(eighth)}
}

// Len returns the length of one pass in samples.
func (g *MelodyGenerator) Len() int {
	return g.step * len(melody)
}

// Position returns the current sample position.
func (g *MelodyGenerator) Position() int {
	return g.pos
}

// Seek moves to sample p of the pass.
func (g *MelodyGenerator) Seek(p int) error {
	if p < 0 || p > g.Len() {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, g.Len())
	}
	g.pos = p
	g.leadPh = 0
	g.bassPh = 0
	return nil
}

// Stream implements beep.Streamer.
func (g *MelodyGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := g.Len()
	if g.pos >= total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= total {
			return i, true
		}
		idx := g.pos / g.step
		within := float64(g.pos%g.step) / float64(g.step)
		note := melody[idx]

		// Short pluck: fast attack, exponential decay per step.
		env := math.Exp(-4 * within)
		if within < 0.02 {
			env *= within / 0.02
		}

		var v float64
		if note.lead != 0 {
			g.leadPh += noteFreq(note.lead) / float64(g.sr)
			v += 0.12 * env * squareWave(g.leadPh)
		}
		if bass := g.bassAt(idx); bass != 0 {
			g.bassPh += noteFreq(bass) / float64(g.sr)
			bassEnv := math.Exp(-1.5 * float64(g.pos%(g.step*4)) / float64(g.step*4))
			v += 0.18 * bassEnv * math.Sin(2*math.Pi*g.bassPh)
		}

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

// bassAt returns the bass note sounding at step idx: the last one struck.
func (g *MelodyGenerator) bassAt(idx int) int {
	for i := idx; i >= 0; i-- {
		if melody[i].bass != 0 {
			return melody[i].bass
		}
	}
	return 0
}

// Err implements beep.Streamer.
func (g *MelodyGenerator) Err() error {
	return nil
}

func squareWave(phase float64) float64 {
	_, frac := math.Modf(phase)
	if frac < 0.5 {
		return 1
	}
	return -1
}

// CrashGenerator synthesizes the collision sound: decaying noise over a
// falling tone.
type CrashGenerator struct {
	sr    beep.SampleRate
	pos   int
	phase float64
	rng   *rand.Rand
}

// NewCrashGenerator creates a crash generator. The noise is seeded so the
// sound is identical every time.
func NewCrashGenerator(sr beep.SampleRate) *CrashGenerator {
	return &CrashGenerator{sr: sr, rng: rand.New(rand.NewSource(1))}
}

// Stream implements beep.Streamer. It never ends on its own; wrap it in
// beep.Take.
func (g *CrashGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-8 * t)
		freq := 220 * math.Exp(-3*t)
		g.phase += freq / float64(g.sr)

		v := env * (0.25*(g.rng.Float64()*2-1) + 0.2*math.Sin(2*math.Pi*g.phase))
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *CrashGenerator) Err() error {
	return nil
}
