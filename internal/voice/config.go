package voice

import "time"

// Default voice for TTS. Change this constant to switch voices.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AndrewNeural"

// Audio format returned by Azure. Must match the player's PCM parameters.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// Priority levels for speech requests. Higher value = speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // halfway remarks, flavor lines
	PriorityNormal                   // phase announcements
	PriorityHigh                     // countdown, set boundaries
	PriorityCritical                 // workout completion, errors
)

// Request is a queued item waiting to be spoken.
type Request struct {
	Text     string
	Priority Priority
	QueuedAt time.Time
}
