package models

// ModeID identifies one of the four learning modes
type ModeID string

const (
	ModeCriativo ModeID = "criativo"
	ModeCalma    ModeID = "calma"
	ModeFoco     ModeID = "foco"
	ModeEnergia  ModeID = "energia"
)

// Waveform names an oscillator shape
type Waveform string

const (
	Sine     Waveform = "sine"
	Triangle Waveform = "triangle"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
)

// Mode is a themed learning mode with its vocabulary, palette and tone
type Mode struct {
	ID        ModeID
	Title     string
	Subtitle  string
	Emoji     string
	Colors    []string
	Words     []string
	Tips      []string
	Frequency float64
	Waveform  Waveform
}

// Sound is a mixer channel backed by a mode tone
type Sound struct {
	ID          ModeID
	Title       string
	Emoji       string
	Description string
	When        string
	Color       string
	Frequency   float64
	Waveform    Waveform
}

// PresetSound is one channel of a preset
type PresetSound struct {
	Sound  ModeID
	Volume float64
}

// Preset is a named mixer configuration
type Preset struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Color       string
	Sounds      []PresetSound
}

// Track is a music player entry
type Track struct {
	ID    string
	Title string
	File  string
	Color string
}
