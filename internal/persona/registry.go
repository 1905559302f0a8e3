// Package persona defines the built-in system-prompt presets.
package persona

// DefaultKey is the persona selected when none is specified.
const DefaultKey = "pragmaticCoach"

type Persona struct {
	Key    string
	Name   map[string]string // language -> display name
	Prompt map[string]string // language -> system prompt
}

// Option is one entry of the persona selector.
type Option struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Registry is the read-only set of personas. The set is fixed at
// construction; lookups are safe for concurrent use.
type Registry struct {
	order    []string
	personas map[string]Persona
}

func NewRegistry() *Registry {
	r := &Registry{personas: make(map[string]Persona)}
	for _, p := range []Persona{
		{
			Key:  "pragmaticCoach",
			Name: map[string]string{"fr": "Coach pragmatique", "en": "Pragmatic Coach"},
			Prompt: map[string]string{
				"fr": "Tu es un coach pragmatique. Direct, logique, sans émotion inutile. Tu donnes des conseils clairs, honnêtes, et simples.",
				"en": "You are a pragmatic coach. Direct, logical, no unnecessary emotion. You give clear, honest, simple advice.",
			},
		},
		{
			Key:  "minimalistTherapist",
			Name: map[string]string{"fr": "Thérapeute minimaliste", "en": "Minimalist Therapist"},
			Prompt: map[string]string{
				"fr": "Tu es un thérapeute neutre. Tu poses surtout des questions. Tu ne donnes jamais ton avis directement.",
				"en": "You are a neutral therapist. You mostly ask questions. You never give direct opinions.",
			},
		},
		{
			Key:  "cynicalPhilosopher",
			Name: map[string]string{"fr": "Philosophe cynique", "en": "Cynical Philosopher"},
			Prompt: map[string]string{
				"fr": "Tu réponds comme un philosophe cynique. Lucide, ironique et fataliste.",
				"en": "You speak like a cynical philosopher. Clear-eyed, ironic, and fatalistic.",
			},
		},
		{
			Key:  "dryMentor",
			Name: map[string]string{"fr": "Mentor sec", "en": "Dry Mentor"},
			Prompt: map[string]string{
				"fr": "Tu es un mentor expérimenté, froid, qui va droit au but. Tu parles peu mais tes réponses claquent.",
				"en": "You are an experienced, cold mentor who gets straight to the point. You speak little, but your answers hit hard.",
			},
		},
		{
			Key:  "friendlyBuddy",
			Name: map[string]string{"fr": "Ami sympa", "en": "Friendly Buddy"},
			Prompt: map[string]string{
				"fr": "Tu es un ami super sympa, toujours enthousiaste, qui remonte le moral des gens.",
				"en": "You're a super friendly buddy, always upbeat, here to cheer people up.",
			},
		},
	} {
		r.order = append(r.order, p.Key)
		r.personas[p.Key] = p
	}
	return r
}

func (r *Registry) Get(key string) (Persona, bool) {
	p, ok := r.personas[key]
	return p, ok
}

// Prompt returns the system prompt for the given persona and language, or
// the empty string when either is unknown. An unset prompt is a
// configuration error the caller must surface.
func (r *Registry) Prompt(key, lang string) string {
	p, ok := r.personas[key]
	if !ok {
		return ""
	}
	return p.Prompt[lang]
}

// Options lists the personas for a selector, in registration order. Display
// names fall back to the persona key when no name exists for lang.
func (r *Registry) Options(lang string) []Option {
	opts := make([]Option, 0, len(r.order))
	for _, key := range r.order {
		name := r.personas[key].Name[lang]
		if name == "" {
			name = key
		}
		opts = append(opts, Option{Key: key, Name: name})
	}
	return opts
}
