package quiz

import "github.com/ashureev/codeleap/internal/domain"

// Event types pushed to a device's open tabs.
const (
	EventGenerating     = "generating"
	EventChallengeReady = "challenge_ready"
	EventAnswered       = "answered"
	EventHistoryCleared = "history_cleared"
)

// Event is a session change notification.
type Event struct {
	Type       string            `json:"type"`
	Language   domain.Language   `json:"language,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	Challenge  *domain.Challenge `json:"challenge,omitempty"`
	Notice     Notice            `json:"notice,omitempty"`
}

// Publisher delivers events for a user. Implementations must not block.
type Publisher interface {
	Publish(userID string, event any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}
