// Package catalog holds the fixed content of the app: modes, NeuroJogo
// missions, mixer sounds, presets and music tracks.
package catalog

import "brinleneuro/internal/models"

var modeOrder = []models.ModeID{models.ModeCriativo, models.ModeCalma, models.ModeFoco, models.ModeEnergia}

var modes = map[models.ModeID]models.Mode{
	models.ModeCriativo: {
		ID:        models.ModeCriativo,
		Title:     "Criativo",
		Subtitle:  "Imaginar e inventar",
		Emoji:     "🎨",
		Colors:    []string{"#FFD93D", "#FF9F1C", "#C77DFF", "#FF69B4", "#6EC1E4"},
		Words:     []string{"Imaginar", "Criar", "Cores", "Desenhar", "Inventar", "Sonhar", "Pintar", "Brincar", "Ideia", "Arte"},
		Tips:      []string{"Desenhe o que você imaginou hoje!", "Misture duas cores e invente uma nova.", "Conte uma história com três palavras que você viu.", "Toda ideia começa pequena. Continue criando!"},
		Frequency: 40,
		Waveform:  models.Sine,
	},
	models.ModeCalma: {
		ID:        models.ModeCalma,
		Title:     "Calma",
		Subtitle:  "Respirar e relaxar",
		Emoji:     "💗",
		Colors:    []string{"#FF69B4", "#F8BBD0", "#B39DDB", "#81D4FA", "#FFFFFF"},
		Words:     []string{"Respirar", "Paz", "Calma", "Silêncio", "Nuvem", "Abraço", "Tranquilo", "Sorriso", "Mar", "Leve"},
		Tips:      []string{"Respire fundo contando até três.", "Solte os ombros e sinta o corpo leve.", "Pense em um lugar onde você se sente bem.", "Devagar também é um jeito de aprender."},
		Frequency: 38,
		Waveform:  models.Sine,
	},
	models.ModeFoco: {
		ID:        models.ModeFoco,
		Title:     "Foco",
		Subtitle:  "Prestar atenção",
		Emoji:     "🧠",
		Colors:    []string{"#6EC1E4", "#1E88E5", "#7E57C2", "#26A69A", "#FFFFFF"},
		Words:     []string{"Atenção", "Aprender", "Ler", "Pensar", "Lembrar", "Estudar", "Observar", "Escutar", "Contar", "Resolver"},
		Tips:      []string{"Guarde uma coisa de cada vez na memória.", "Olhe com atenção e descubra um detalhe novo.", "Faça uma pausa curta e volte com tudo.", "Repetir ajuda o cérebro a lembrar."},
		Frequency: 42,
		Waveform:  models.Sine,
	},
	models.ModeEnergia: {
		ID:        models.ModeEnergia,
		Title:     "Energia",
		Subtitle:  "Mexer e brincar",
		Emoji:     "⚡",
		Colors:    []string{"#FF4500", "#FFD93D", "#FF9F1C", "#E53935", "#FFFFFF"},
		Words:     []string{"Pular", "Correr", "Dançar", "Força", "Rápido", "Alegria", "Saltar", "Girar", "Bater palmas", "Vencer"},
		Tips:      []string{"Pule três vezes bem alto!", "Bata palmas no ritmo do som.", "Estique os braços como uma estrela.", "Beba água para recarregar a energia."},
		Frequency: 44,
		Waveform:  models.Sine,
	},
}

// Modes returns the modes in menu order.
func Modes() []models.Mode {
	out := make([]models.Mode, 0, len(modeOrder))
	for _, id := range modeOrder {
		out = append(out, modes[id])
	}
	return out
}

// Mode looks a mode up by id.
func Mode(id models.ModeID) (models.Mode, bool) {
	m, ok := modes[id]
	return m, ok
}

var sounds = []models.Sound{
	{ID: models.ModeCriativo, Title: "Criatividade", Emoji: "🎨", Description: "Estimula imaginação e ideias", When: "Para criar, desenhar e inventar", Color: "#FFD93D", Frequency: 40, Waveform: models.Sine},
	{ID: models.ModeCalma, Title: "Calma", Emoji: "💗", Description: "Relaxamento e tranquilidade", When: "Para relaxar e respirar fundo", Color: "#FF69B4", Frequency: 38, Waveform: models.Sine},
	{ID: models.ModeFoco, Title: "Foco", Emoji: "🧠", Description: "Atenção e concentração", When: "Para estudar e aprender", Color: "#6EC1E4", Frequency: 42, Waveform: models.Sine},
	{ID: models.ModeEnergia, Title: "Energia", Emoji: "⚡", Description: "Força e disposição", When: "Para brincar e se movimentar", Color: "#FF4500", Frequency: 44, Waveform: models.Sine},
}

// Sounds returns the mixer channels.
func Sounds() []models.Sound {
	return append([]models.Sound(nil), sounds...)
}

// Sound looks a mixer channel up by id.
func Sound(id models.ModeID) (models.Sound, bool) {
	for _, s := range sounds {
		if s.ID == id {
			return s, true
		}
	}
	return models.Sound{}, false
}

var presets = []models.Preset{
	{
		ID: "estudo", Name: "Sessão de Estudo", Description: "Foco profundo com calma", Emoji: "📚", Color: "#6EC1E4",
		Sounds: []models.PresetSound{{Sound: models.ModeFoco, Volume: 0.7}, {Sound: models.ModeCalma, Volume: 0.3}},
	},
	{
		ID: "criacao", Name: "Modo Criação", Description: "Criatividade com energia", Emoji: "🚀", Color: "#FFD93D",
		Sounds: []models.PresetSound{{Sound: models.ModeCriativo, Volume: 0.7}, {Sound: models.ModeEnergia, Volume: 0.4}},
	},
	{
		ID: "relaxamento", Name: "Relaxamento Total", Description: "Calma profunda", Emoji: "🌙", Color: "#FF69B4",
		Sounds: []models.PresetSound{{Sound: models.ModeCalma, Volume: 0.8}},
	},
	{
		ID: "equilibrio", Name: "Equilíbrio Neural", Description: "Todos os sons em harmonia", Emoji: "✨", Color: "#C77DFF",
		Sounds: []models.PresetSound{
			{Sound: models.ModeCriativo, Volume: 0.4},
			{Sound: models.ModeCalma, Volume: 0.4},
			{Sound: models.ModeFoco, Volume: 0.4},
			{Sound: models.ModeEnergia, Volume: 0.3},
		},
	},
}

// Presets returns the mixer presets.
func Presets() []models.Preset {
	return append([]models.Preset(nil), presets...)
}

// Preset looks a preset up by id.
func Preset(id string) (models.Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return models.Preset{}, false
}

// TimerMinutes are the auto-stop durations the mixer offers.
var TimerMinutes = []int{5, 10, 15, 20, 30}

var tracks = []models.Track{
	{ID: "ba", Title: "Ba Be Bi Bo Bu", File: "sounds/ba-be-bi-bo-bu.mp3", Color: "#C77DFF"},
	{ID: "pa", Title: "Pa Pe Pi Po Pu", File: "sounds/pa-pe-pi-po-pu.mp3", Color: "#FF69B4"},
	{ID: "la", Title: "La Le Li Lo Lu", File: "sounds/la-le-li-lo-lu.mp3", Color: "#6EC1E4"},
	{ID: "fa", Title: "Fa Fe Fi Fo Fu", File: "sounds/fa-fe-fi-fo-fu.mp3", Color: "#FFD93D"},
	{ID: "sa", Title: "Sa Se Si So Su", File: "sounds/sa-se-si-so-su.mp3", Color: "#FF4500"},
	{ID: "ca", Title: "Ca Ce Ci Co Cu", File: "sounds/ca-ce-ci-co-cu.mp3", Color: "#26A69A"},
	{ID: "ta", Title: "Ta Te Ti To Tu", File: "sounds/ta-te-ti-to-tu.mp3", Color: "#7E57C2"},
	{ID: "da", Title: "Da De Di Do Du", File: "sounds/da-de-di-do-du.mp3", Color: "#FF9F1C"},
	{ID: "ma", Title: "Ma Me Mi Mo Mu", File: "sounds/ma-me-mi-mo-mu.mp3", Color: "#E53935"},
	{ID: "na", Title: "Na Ne Ni No Nu", File: "sounds/na-ne-ni-no-nu.mp3", Color: "#1E88E5"},
	{ID: "ra", Title: "Ra Re Ri Ro Ru", File: "sounds/ra-re-ri-ro-ru.mp3", Color: "#B39DDB"},
	{ID: "ga", Title: "Ga Ge Gi Go Gu", File: "sounds/ga-ge-gi-go-gu.mp3", Color: "#81D4FA"},
	{ID: "za", Title: "Za Ze Zi Zo Zu", File: "sounds/za-ze-zi-zo-zu.mp3", Color: "#F8BBD0"},
}

// Tracks returns the music tracks in playlist order. File paths are
// relative to the static directory.
func Tracks() []models.Track {
	return append([]models.Track(nil), tracks...)
}
