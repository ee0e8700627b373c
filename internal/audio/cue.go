package audio

import (
	"context"
	"math"
	"time"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.CuePlayer = (*CueKit)(nil)

// CueKit plays short synthesized beeps marking phase boundaries. The PCM
// for every cue is generated once up front, so playback never allocates.
type CueKit struct {
	player *Player
	log    *logger.Logger
	pcm    map[domain.Cue][]byte
}

// NewCueKit builds the cue set on top of an initialized player.
func NewCueKit(player *Player, log *logger.Logger) *CueKit {
	k := &CueKit{
		player: player,
		log:    log,
		pcm:    make(map[domain.Cue][]byte),
	}

	// Beep patterns per cue. Work gets an insistent double high beep,
	// rest a single low one, the countdown a short pip, completion a
	// rising three-note figure.
	k.pcm[domain.CueWorkStart] = concat(
		tone(880, 150*time.Millisecond),
		silence(80*time.Millisecond),
		tone(880, 150*time.Millisecond),
	)
	k.pcm[domain.CueRestStart] = tone(440, 300*time.Millisecond)
	k.pcm[domain.CueCountdown] = tone(660, 90*time.Millisecond)
	k.pcm[domain.CueComplete] = concat(
		tone(523, 140*time.Millisecond),
		tone(659, 140*time.Millisecond),
		tone(784, 260*time.Millisecond),
	)
	return k
}

// Play plays the given cue. Blocks until the beep finishes; cues are
// short enough that callers run this off the timer's notification path.
func (k *CueKit) Play(ctx context.Context, cue domain.Cue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pcm, ok := k.pcm[cue]
	if !ok {
		k.log.Warn("no pattern for cue %s", cue)
		return nil
	}
	k.log.Debug("playing cue %s", cue)
	return k.player.playPCM(pcm)
}

// tone synthesizes a sine wave at freq Hz as 16-bit mono PCM, with a
// short linear fade on both ends to avoid clicks.
func tone(freq float64, d time.Duration) []byte {
	samples := int(float64(SampleRate) * d.Seconds())
	fade := SampleRate / 100 // 10ms
	if fade*2 > samples {
		fade = samples / 2
	}

	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(SampleRate))

		gain := 1.0
		if i < fade {
			gain = float64(i) / float64(fade)
		} else if i >= samples-fade {
			gain = float64(samples-i) / float64(fade)
		}

		s := int16(v * gain * 0.6 * math.MaxInt16)
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

// silence returns d worth of silent PCM.
func silence(d time.Duration) []byte {
	samples := int(float64(SampleRate) * d.Seconds())
	return make([]byte, samples*2)
}

func concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
