package genai

// Translation is the result of a single translation request.
type Translation struct {
	Translation string `json:"translation"`
	Explanation string `json:"explanation"`
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// MatchingPair is one Indonesian/English word pair.
type MatchingPair struct {
	Indonesian string `json:"indonesian"`
	English    string `json:"english"`
}
