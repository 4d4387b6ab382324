package affect

// Config carries the keyword lists and crisis resources the classifier
// works with. Lists are injectable so they can be tuned without touching
// the session flow; DefaultConfig is the built-in baseline.
type Config struct {
	HappyWords    []string
	SadWords      []string
	ThinkingWords []string
	PositiveEmoji []string
	NegativeEmoji []string
	CrisisWords   []string

	CrisisMessage    string
	CrisisDisclaimer string
	CrisisResources  []Resource
}

// Resource is one support contact surfaced in a crisis payload.
type Resource struct {
	Name    string
	Contact string
	Note    string
}

// Configuration keys under which keyword lists are stored.
const (
	ConfigKeyHappyWords    = "happy_words"
	ConfigKeySadWords      = "sad_words"
	ConfigKeyThinkingWords = "thinking_words"
	ConfigKeyCrisisWords   = "crisis_words"
)

func DefaultConfig() Config {
	return Config{
		HappyWords: []string{
			"me alegra", "me alegro", "qué bien", "excelente", "felicidades",
			"celebrar", "feliz", "orgullo", "buen paso", "great", "glad", "wonderful",
		},
		SadWords: []string{
			"lamento", "siento mucho", "triste", "tristeza", "dolor", "difícil",
			"duro", "pérdida", "pena", "soledad", "llorar", "sorry", "hard", "loss",
		},
		ThinkingWords: []string{
			"reflexiona", "reflexionar", "piensa", "pensemos", "te invito a",
			"pregunta", "explorar", "qué crees", "dónde notas", "consider", "reflect",
		},
		PositiveEmoji: []string{"😊", "😄", "🙂", "🌿", "✨", "💪"},
		NegativeEmoji: []string{"😢", "😞", "💔", "😔"},
		CrisisWords: []string{
			"suicid", "quitarme la vida", "no quiero vivir", "no quiero seguir viviendo",
			"hacerme daño", "lastimarme", "autolesion", "autolesión", "desaparecer para siempre",
			"kill myself", "end my life", "self-harm", "self harm", "hurt myself",
		},
		CrisisMessage: "Lo que sientes importa. No tienes que pasar por esto en soledad.",
		CrisisDisclaimer: "Este espacio no sustituye atención profesional. " +
			"Si estás en peligro inmediato, contacta a los servicios de emergencia locales.",
		CrisisResources: []Resource{
			{Name: "Línea de emergencias", Contact: "112 / 911", Note: "Disponible 24/7"},
			{Name: "Línea de prevención del suicidio", Contact: "024", Note: "Atención en español, 24/7"},
			{Name: "Crisis Text Line", Contact: "Text HOME to 741741", Note: "English, 24/7"},
		},
	}
}

// Merge overlays keyword lists loaded from configuration onto c; empty
// lists keep the existing values.
func (c Config) Merge(lists map[string][]string) Config {
	if words := lists[ConfigKeyHappyWords]; len(words) > 0 {
		c.HappyWords = words
	}
	if words := lists[ConfigKeySadWords]; len(words) > 0 {
		c.SadWords = words
	}
	if words := lists[ConfigKeyThinkingWords]; len(words) > 0 {
		c.ThinkingWords = words
	}
	if words := lists[ConfigKeyCrisisWords]; len(words) > 0 {
		c.CrisisWords = words
	}
	return c
}
