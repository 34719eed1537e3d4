package quiz

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinQuestionLen = 10
	MaxQuestionLen = 500
	MaxAnswerLen   = 255
	MinAnswers     = 2
	MaxAnswers     = 5

	MinCategoryNameLen = 3
	MaxCategoryNameLen = 64
)

var categoryNamePattern = regexp.MustCompile(`^[\p{L}\s]+$`)

// ValidateCategoryName checks the create-category form input. An empty
// result means the name is acceptable.
func ValidateCategoryName(name string) []string {
	var errs []string
	trimmed := strings.TrimSpace(name)
	if n := utf8.RuneCountInString(trimmed); n < MinCategoryNameLen || n > MaxCategoryNameLen {
		errs = append(errs, fmt.Sprintf("category name must be between %d and %d characters", MinCategoryNameLen, MaxCategoryNameLen))
	}
	if trimmed != "" && !categoryNamePattern.MatchString(trimmed) {
		errs = append(errs, "category name may only contain letters and spaces")
	}
	return errs
}

// ValidateQuestionSubmission checks a create-question submission against the
// known categories and returns the sanitized form of it. All checks run
// before returning; errors accumulate rather than short-circuit. The cleaned
// value is non-nil only when the error list is empty, which is the caller's
// signal to proceed to persistence. Inputs are never mutated.
func ValidateQuestionSubmission(sub QuestionSubmission, categories []Category) (*NormalizedQuestion, []string) {
	var errs []string
	cleaned := NormalizedQuestion{CorrectIndex: -1}

	text := strings.TrimSpace(sub.Text)
	if n := utf8.RuneCountInString(text); n < MinQuestionLen || n > MaxQuestionLen {
		errs = append(errs, fmt.Sprintf("question text must be between %d and %d characters", MinQuestionLen, MaxQuestionLen))
	} else {
		cleaned.Text = Sanitize(text)
	}

	categoryOK := false
	for _, c := range categories {
		if c.ID == sub.CategoryID {
			categoryOK = true
			break
		}
	}
	if !categoryOK {
		errs = append(errs, "choose a valid category")
	} else {
		cleaned.CategoryID = sub.CategoryID
	}

	correctCount := 0
	for i, a := range sub.Answers {
		text := strings.TrimSpace(a.Text)
		if text == "" {
			continue
		}
		// Over-length answers report an error but stay in the cleaned set
		// so the form redisplays them.
		if utf8.RuneCountInString(text) > MaxAnswerLen {
			errs = append(errs, fmt.Sprintf("answer %d is too long (%d characters max)", i+1, MaxAnswerLen))
		}
		cleaned.Answers = append(cleaned.Answers, Sanitize(text))
		if a.Correct {
			if correctCount == 0 {
				cleaned.CorrectIndex = len(cleaned.Answers) - 1
			}
			correctCount++
		}
	}

	if len(cleaned.Answers) < MinAnswers {
		errs = append(errs, fmt.Sprintf("a question needs at least %d answers", MinAnswers))
	} else if len(cleaned.Answers) > MaxAnswers {
		errs = append(errs, fmt.Sprintf("a question can have at most %d answers", MaxAnswers))
	}
	if correctCount != 1 {
		errs = append(errs, "exactly one answer must be marked correct")
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &cleaned, nil
}
