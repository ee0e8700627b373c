// Package voice provides spoken announcements via Azure text-to-speech.
package voice

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/repflow/internal/audio"
	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.VoiceProvider = (*Speaker)(nil)

// SpeakerOption configures the Speaker.
type SpeakerOption func(*Speaker)

// WithQueueSize sets the internal notification channel capacity.
func WithQueueSize(n int) SpeakerOption {
	return func(s *Speaker) {
		s.notify = make(chan struct{}, n)
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the cache is memory-only.
func WithCacheDir(dir string) SpeakerOption {
	return func(s *Speaker) {
		s.cacheDir = dir
	}
}

// Speaker serializes all spoken output through a single pipeline:
// queue -> synthesize -> play. Only one line speaks at a time and higher
// priority lines are spoken first. Announcement lines are short, so
// unlike a general TTS dispatcher there is no chunking: one line is one
// synthesis request.
//
// An internal AudioCache avoids re-synthesizing identical lines. Use
// Prefetch at startup to warm the cache with the fixed announcement set.
type Speaker struct {
	tts    *AzureClient
	player *audio.Player
	log    *logger.Logger
	cache  *AudioCache

	mu          sync.Mutex
	queue       []Request
	notify      chan struct{}
	speaking    bool
	interrupted bool   // set by Interrupt(), checked before playback
	cacheDir    string // filesystem cache directory
}

// NewSpeaker creates a speech dispatcher with the given TTS client and player.
func NewSpeaker(tts *AzureClient, player *audio.Player, log *logger.Logger, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		tts:    tts,
		player: player,
		log:    log,
		notify: make(chan struct{}, 32),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Build the cache after options so voice and cacheDir are settled.
	s.cache = NewAudioCache(tts.Voice(), s.cacheDir, log)
	return s
}

// Speak queues text at normal priority. Non-blocking; playback happens on
// the processing goroutine.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Say(text, PriorityNormal)
	return nil
}

// Say queues text to be spoken at the given priority. Non-blocking.
// When something at PriorityNormal or above is queued, any stale
// PriorityLow items are flushed — they're no longer relevant.
func (s *Speaker) Say(text string, priority Priority) {
	s.mu.Lock()
	if priority >= PriorityNormal {
		s.flushLowLocked()
	}
	s.queue = append(s.queue, Request{
		Text:     text,
		Priority: priority,
		QueuedAt: time.Now(),
	})
	qLen := len(s.queue)
	s.mu.Unlock()

	s.log.Debug("speaker: queued (priority=%d, queue_len=%d): %s", priority, qLen, truncate(text, 60))

	// Signal the processing goroutine.
	select {
	case s.notify <- struct{}{}:
	default: // already signaled
	}
}

// SayUrgent queues text at high priority, ahead of any pending normal
// or flavor lines. Non-blocking.
func (s *Speaker) SayUrgent(text string) {
	s.Say(text, PriorityHigh)
}

// flushLowLocked removes all PriorityLow items from the queue.
// Must be called with s.mu held.
func (s *Speaker) flushLowLocked() {
	n := 0
	for _, item := range s.queue {
		if item.Priority > PriorityLow {
			s.queue[n] = item
			n++
		}
	}
	dropped := len(s.queue) - n
	s.queue = s.queue[:n]
	if dropped > 0 {
		s.log.Debug("speaker: flushed %d low-priority items", dropped)
	}
}

// IsSpeaking returns true while a line is being synthesized or played.
func (s *Speaker) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// QueueLen returns the number of pending speech requests.
func (s *Speaker) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Interrupt stops the currently playing line and clears the queue. Use
// this when the timer state just changed and queued lines are stale.
func (s *Speaker) Interrupt() {
	s.mu.Lock()
	s.queue = s.queue[:0]
	s.interrupted = true
	s.mu.Unlock()

	s.player.Stop()

	s.log.Debug("speaker: interrupted, queue cleared, playback stopped")
}

// Start begins the speech processing goroutine. Non-blocking.
func (s *Speaker) Start(ctx context.Context) {
	go s.processLoop(ctx)
	s.log.Info("speaker started")
}

// processLoop waits for queued items and processes them one at a time.
func (s *Speaker) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("speaker stopped")
			return
		case <-s.notify:
			s.drain(ctx)
		}
	}
}

// drain processes all queued items, highest priority first.
func (s *Speaker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Clear the interrupted flag so items queued after the
		// interrupt still get spoken.
		s.mu.Lock()
		s.interrupted = false
		s.mu.Unlock()

		item, ok := s.dequeue()
		if !ok {
			return
		}

		s.mu.Lock()
		s.speaking = true
		s.mu.Unlock()

		s.speakOne(ctx, item)

		s.mu.Lock()
		s.speaking = false
		s.mu.Unlock()
	}
}

// dequeue removes and returns the highest priority item from the queue.
func (s *Speaker) dequeue() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return Request{}, false
	}

	bestIdx := 0
	for i, item := range s.queue {
		if item.Priority > s.queue[bestIdx].Priority {
			bestIdx = i
		}
	}

	item := s.queue[bestIdx]
	s.queue = append(s.queue[:bestIdx], s.queue[bestIdx+1:]...)
	return item, true
}

// speakOne synthesizes and plays a single request.
func (s *Speaker) speakOne(ctx context.Context, req Request) {
	waitTime := time.Since(req.QueuedAt).Round(time.Millisecond)
	s.log.Debug("speaker: speaking (priority=%d, waited=%s): %s", req.Priority, waitTime, truncate(req.Text, 60))

	audioData, err := s.synthesizeWithCache(ctx, req.Text)
	if err != nil {
		s.log.Error("speaker: synthesis failed: %v", err)
		return
	}

	s.mu.Lock()
	abort := s.interrupted
	s.mu.Unlock()
	if abort {
		s.log.Debug("speaker: dropping line (interrupted)")
		return
	}

	if err := s.player.Play(audioData); err != nil {
		s.log.Error("speaker: playback failed: %v", err)
	}
}

// synthesizeWithCache checks the cache first, otherwise calls Azure and
// stores the result. Thread-safe.
func (s *Speaker) synthesizeWithCache(ctx context.Context, text string) ([]byte, error) {
	if audioData, ok := s.cache.Get(text); ok {
		return audioData, nil
	}
	audioData, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Put(text, audioData)
	return audioData, nil
}

// Prefetch pre-synthesizes the given lines in background goroutines and
// stores the results in the audio cache, skipping lines already cached.
// Non-blocking. Call it at startup with the fixed announcement set so
// the first workout doesn't stall on network round-trips.
func (s *Speaker) Prefetch(ctx context.Context, lines ...string) {
	for _, line := range lines {
		if line == "" || s.cache.Has(line) {
			continue
		}
		go func(t string) {
			s.log.Debug("prefetch: synthesizing: %s", truncate(t, 50))
			audioData, err := s.tts.Synthesize(ctx, t)
			if err != nil {
				s.log.Error("prefetch: synthesis failed: %v", err)
				return
			}
			s.cache.Put(t, audioData)
			s.log.Debug("prefetch: cached %d bytes for: %s", len(audioData), truncate(t, 50))
		}(line)
	}
}

// Cache returns the audio cache. Useful for stats logging.
func (s *Speaker) Cache() *AudioCache { return s.cache }
