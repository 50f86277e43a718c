// Package feedback turns gesture results into short audio cues.
package feedback

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate cues are generated at.
const SampleRate = beep.SampleRate(44100)

// Wave selects an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
)

// Tone is one note of a cue. A zero frequency is a rest.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Wave     Wave
}

// Cue is a sequence of tones.
type Cue []Tone

var (
	// MatchCue is a rising two-note chime.
	MatchCue = Cue{
		{Freq: 880, Duration: 90 * time.Millisecond, Wave: Sine},
		{Duration: 20 * time.Millisecond},
		{Freq: 1320, Duration: 140 * time.Millisecond, Wave: Sine},
	}
	// MismatchCue is a low buzz.
	MismatchCue = Cue{
		{Freq: 110, Duration: 250 * time.Millisecond, Wave: Square},
	}
)

// Samples returns the number of frames the cue lasts at sr.
func (c Cue) Samples(sr beep.SampleRate) int {
	n := 0
	for _, t := range c {
		n += sr.N(t.Duration)
	}
	return n
}

// Streamer builds a streamer playing the cue. Volume is in the exponential
// units of effects.Volume: 0 is unchanged, -1 halves the amplitude.
func (c Cue) Streamer(sr beep.SampleRate, volume float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(c))
	for _, t := range c {
		if t.Freq <= 0 {
			parts = append(parts, beep.Silence(sr.N(t.Duration)))
			continue
		}
		parts = append(parts, newOscillator(sr, t))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   volume,
	}
}

// oscillator generates a single tone with a short linear fade at both ends
// to avoid clicks.
type oscillator struct {
	step     float64
	phase    float64
	wave     Wave
	total    int
	position int
	fade     int
}

func newOscillator(sr beep.SampleRate, t Tone) *oscillator {
	total := sr.N(t.Duration)
	return &oscillator{
		step:  t.Freq / float64(sr),
		wave:  t.Wave,
		total: total,
		fade:  min(sr.N(5*time.Millisecond), total/2),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.total {
			return i, true
		}

		var v float64
		switch o.wave {
		case Square:
			if o.phase < 0.5 {
				v = 0.5
			} else {
				v = -0.5
			}
		default:
			v = math.Sin(2 * math.Pi * o.phase)
		}
		v *= o.envelope()

		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.step
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) envelope() float64 {
	if o.fade <= 0 {
		return 1
	}
	if o.position < o.fade {
		return float64(o.position) / float64(o.fade)
	}
	if rem := o.total - o.position; rem < o.fade {
		return float64(rem) / float64(o.fade)
	}
	return 1
}

func (o *oscillator) Err() error {
	return nil
}

// Player plays cues for gesture results through a play function, normally
// speaker.Play.
type Player struct {
	sr     beep.SampleRate
	volume float64
	play   func(...beep.Streamer)
}

// NewPlayer creates a player. play must not block.
func NewPlayer(sr beep.SampleRate, volume float64, play func(...beep.Streamer)) *Player {
	return &Player{sr: sr, volume: volume, play: play}
}

// Gesture plays the cue for a gesture result. It matches the listener
// signature of lock.Widget.OnFinish.
func (p *Player) Gesture(matched bool) {
	cue := MismatchCue
	if matched {
		cue = MatchCue
	}
	p.play(cue.Streamer(p.sr, p.volume))
}
