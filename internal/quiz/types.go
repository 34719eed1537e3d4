package quiz

import "html/template"

// Category is a named grouping of questions. The slug is derived from the
// name once at creation time and is the stable URL identifier.
type Category struct {
	ID   int64
	Name string
	Slug string
}

// Question is a quiz prompt belonging to exactly one category.
type Question struct {
	ID         int64
	Text       string
	CategoryID int64
	Answers    []Answer
}

// Answer is one choice for a question. Exactly one answer per question is
// marked correct.
type Answer struct {
	ID         int64
	QuestionID int64
	Text       string
	Correct    bool
}

// DisplayQuestion is a question prepared for rendering: the prompt has been
// converted to display markup and the answers are in randomized order.
type DisplayQuestion struct {
	ID      int64
	Text    template.HTML
	Answers []DisplayAnswer
}

// DisplayAnswer carries answer text that has already been sanitized, so the
// template renders it as-is instead of escaping it a second time.
type DisplayAnswer struct {
	ID      int64
	Text    template.HTML
	Correct bool
}

// AnswerSubmission is one answer slot from the create-question form.
type AnswerSubmission struct {
	Text    string
	Correct bool
}

// QuestionSubmission holds raw create-question form input before validation.
type QuestionSubmission struct {
	Text       string
	CategoryID int64
	Answers    []AnswerSubmission
}

// NormalizedQuestion is the cleaned, sanitized result of a successful
// validation, ready to hand to the repository.
type NormalizedQuestion struct {
	Text         string
	CategoryID   int64
	Answers      []string
	CorrectIndex int
}
