package models

import "time"

// RoundType is the kind of challenge a NeuroJogo round poses
type RoundType string

const (
	RoundContext  RoundType = "context"
	RoundSensory  RoundType = "sensory"
	RoundSequence RoundType = "sequence"
	RoundSpeed    RoundType = "speed"
	RoundStory    RoundType = "story"
)

// WordCard is a vocabulary word with its learning context
type WordCard struct {
	Word          string
	Emoji         string
	Hint          string
	Sentence      string
	SensoryPrompt string
}

// Reward is granted on finishing a mission
type Reward struct {
	Badge string
	Stars int
}

// Mission is a NeuroJogo level belonging to one mode
type Mission struct {
	ID          string
	Mode        ModeID
	Title       string
	Description string
	Difficulty  int
	Words       []WordCard
	RoundTypes  []RoundType
	Reward      Reward
}

// Flag is a persisted per-device key/value pair
type Flag struct {
	DeviceID  string    `json:"device_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
