package affect

import (
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	tests := []struct {
		name          string
		reply         string
		explicitLabel string
		want          string
	}{
		{
			name:  "plain reply defaults to neutral",
			reply: "Cuéntame un poco más sobre tu día.",
			want:  TagNeutral,
		},
		{
			name:  "sad keyword",
			reply: "Lamento mucho que estés pasando por esto.",
			want:  TagSad,
		},
		{
			name:  "happy keyword",
			reply: "Me alegra muchísimo escuchar eso, felicidades.",
			want:  TagHappy,
		},
		{
			name:  "sad wins over happy",
			reply: "Me alegra que escribas, aunque lamento lo que cuentas.",
			want:  TagSad,
		},
		{
			name:  "question suffix maps to thinking",
			reply: "¿Dónde notas esa emoción en tu cuerpo?",
			want:  TagThinking,
		},
		{
			name:  "thinking keyword without question mark",
			reply: "Te invito a respirar hondo un momento.",
			want:  TagThinking,
		},
		{
			name:  "negative emoji",
			reply: "Eso suena muy duro 😢",
			want:  TagSad,
		},
		{
			name:  "positive emoji",
			reply: "Qué bonito logro 😊",
			want:  TagHappy,
		},
		{
			name:          "explicit label wins over text",
			reply:         "Lamento escucharlo.",
			explicitLabel: "happy",
			want:          TagHappy,
		},
		{
			name:          "spanish alias",
			reply:         "da igual el texto",
			explicitLabel: "Pensando",
			want:          TagThinking,
		},
		{
			name:          "unknown label falls back to heuristics",
			reply:         "Lamento escucharlo.",
			explicitLabel: "confused",
			want:          TagSad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.reply, tt.explicitLabel)
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.reply, tt.explicitLabel, got, tt.want)
			}
		})
	}
}

func TestDetectCrisis(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "neutral text", text: "Hoy me fue bien en el trabajo", want: false},
		{name: "sadness is not crisis", text: "Estoy muy triste y solo", want: false},
		{name: "spanish crisis phrase", text: "A veces pienso en quitarme la vida", want: true},
		{name: "case insensitive", text: "NO QUIERO SEGUIR VIVIENDO", want: true},
		{name: "english crisis phrase", text: "i want to hurt myself", want: true},
		{name: "stem match", text: "he tenido pensamientos suicidas", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.DetectCrisis(tt.text); got != tt.want {
				t.Errorf("DetectCrisis(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCrisisPayload(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	p := c.CrisisPayload()

	if p.Message == "" || p.Disclaimer == "" {
		t.Fatal("crisis payload must carry message and disclaimer")
	}
	if len(p.Resources) == 0 {
		t.Fatal("crisis payload must list at least one resource")
	}
	for _, r := range p.Resources {
		if r.Name == "" || r.Contact == "" {
			t.Errorf("resource missing name or contact: %+v", r)
		}
	}
}

func TestMergeOverridesLists(t *testing.T) {
	cfg := DefaultConfig().Merge(map[string][]string{
		ConfigKeyHappyWords:  {"genial"},
		ConfigKeyCrisisWords: {},
	})

	if len(cfg.HappyWords) != 1 || cfg.HappyWords[0] != "genial" {
		t.Errorf("happy words not overridden: %v", cfg.HappyWords)
	}
	// empty list keeps the defaults
	if len(cfg.CrisisWords) == 0 {
		t.Error("empty override must not clear crisis words")
	}

	c := NewClassifier(cfg)
	if got := c.Classify("eso es genial", ""); got != TagHappy {
		t.Errorf("merged list not used, got %q", got)
	}
}
