package genai

import "fmt"

// Prompts address the model in Indonesian where the response should
// contain Indonesian explanations.

func translatePrompt(text, tone string) string {
	return fmt.Sprintf(`Terjemahkan teks Indonesia berikut ke Bahasa Inggris dengan nada %s. Berikan terjemahan dan penjelasan tata bahasa (grammar) singkat dalam Bahasa Indonesia.
Teks: %q`, tone, text)
}

func quizPrompt(count int, theme string) string {
	return fmt.Sprintf(`Buat %d soal kuis pilihan ganda dalam Bahasa Inggris berdasarkan tema: %q. Sertakan pilihan jawaban, jawaban yang benar, dan penjelasan singkat dalam Bahasa Indonesia untuk setiap soal.`, count, theme)
}

func matchingPrompt(count int, theme string) string {
	return fmt.Sprintf(`Generate %d Indonesian-English matching pairs based on the theme: %q.`, count, theme)
}

// Response schemas constrain the model to well-formed JSON.

var translationSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"translation": map[string]any{"type": "STRING"},
		"explanation": map[string]any{"type": "STRING", "description": "Grammar explanation for the translation"},
	},
	"required": []string{"translation", "explanation"},
}

var quizSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"question":      map[string]any{"type": "STRING"},
			"options":       map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
			"correctAnswer": map[string]any{"type": "STRING"},
			"explanation":   map[string]any{"type": "STRING"},
		},
		"required": []string{"question", "options", "correctAnswer", "explanation"},
	},
}

var matchingSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"indonesian": map[string]any{"type": "STRING"},
			"english":    map[string]any{"type": "STRING"},
		},
		"required": []string{"indonesian", "english"},
	},
}
