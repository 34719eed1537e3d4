package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = []Category{
	{ID: 1, Name: "Saga", Slug: "saga"},
	{ID: 2, Name: "HTML", Slug: "html"},
}

func submission() QuestionSubmission {
	return QuestionSubmission{
		Text:       "Hvenær var Ísland numið?",
		CategoryID: 1,
		Answers: []AnswerSubmission{
			{Text: "Árið 874"},
			{Text: "Árið 930", Correct: true},
			{Text: "Árið 1000"},
			{Text: "Árið 1262"},
		},
	}
}

func TestValidateQuestionSubmissionValid(t *testing.T) {
	sub := submission()
	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	require.Empty(t, errs)
	require.NotNil(t, cleaned)
	assert.Equal(t, int64(1), cleaned.CategoryID)
	assert.Len(t, cleaned.Answers, 4)
	assert.Equal(t, 1, cleaned.CorrectIndex)
}

func TestValidateQuestionSubmissionTooFewAnswers(t *testing.T) {
	sub := submission()
	sub.Answers = []AnswerSubmission{{Text: "Only one", Correct: true}}

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	assert.Nil(t, cleaned)
	assertHasError(t, errs, "at least 2 answers")
}

func TestValidateQuestionSubmissionTooManyAnswers(t *testing.T) {
	sub := submission()
	sub.Answers = nil
	for i := 0; i < 6; i++ {
		sub.Answers = append(sub.Answers, AnswerSubmission{Text: "answer", Correct: i == 0})
	}

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	assert.Nil(t, cleaned)
	assertHasError(t, errs, "at most 5 answers")
}

func TestValidateQuestionSubmissionCorrectCount(t *testing.T) {
	noCorrect := submission()
	for i := range noCorrect.Answers {
		noCorrect.Answers[i].Correct = false
	}
	cleaned, errs := ValidateQuestionSubmission(noCorrect, testCategories)
	assert.Nil(t, cleaned)
	assertHasError(t, errs, "exactly one answer")

	twoCorrect := submission()
	twoCorrect.Answers[0].Correct = true
	cleaned, errs = ValidateQuestionSubmission(twoCorrect, testCategories)
	assert.Nil(t, cleaned)
	assertHasError(t, errs, "exactly one answer")
}

func TestValidateQuestionSubmissionTextBounds(t *testing.T) {
	short := submission()
	short.Text = "stutt"
	cleaned, errs := ValidateQuestionSubmission(short, testCategories)
	assert.Nil(t, cleaned)
	assertHasError(t, errs, "between 10 and 500")

	long := submission()
	long.Text = strings.Repeat("a", MaxQuestionLen+1)
	cleaned, errs = ValidateQuestionSubmission(long, testCategories)
	assert.Nil(t, cleaned)
	assertHasError(t, errs, "between 10 and 500")
}

func TestValidateQuestionSubmissionUnknownCategory(t *testing.T) {
	sub := submission()
	sub.CategoryID = 99

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	assert.Nil(t, cleaned)
	assertHasError(t, errs, "valid category")
}

func TestValidateQuestionSubmissionOverlongAnswerKept(t *testing.T) {
	sub := submission()
	sub.Answers = []AnswerSubmission{
		{Text: strings.Repeat("x", MaxAnswerLen+1)},
		{Text: "fine", Correct: true},
	}

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	// The overlong answer still counts toward the answer set, so the only
	// error is the length one.
	assert.Nil(t, cleaned)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "too long")
}

func TestValidateQuestionSubmissionSkipsEmptySlots(t *testing.T) {
	sub := submission()
	sub.Answers = []AnswerSubmission{
		{Text: "   "},
		{Text: "first", Correct: true},
		{Text: ""},
		{Text: "second"},
	}

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	require.Empty(t, errs)
	require.NotNil(t, cleaned)
	assert.Equal(t, []string{"first", "second"}, cleaned.Answers)
	assert.Equal(t, 0, cleaned.CorrectIndex)
}

func TestValidateQuestionSubmissionSanitizes(t *testing.T) {
	sub := submission()
	sub.Text = `Is <script>alert(1)</script> dangerous?`
	sub.Answers[0].Text = "<b>yes</b>"

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	require.Empty(t, errs)
	require.NotNil(t, cleaned)
	assert.NotContains(t, cleaned.Text, "<script")
	assert.NotContains(t, cleaned.Answers[0], "<b>")
}

func TestValidateQuestionSubmissionBoundsApplyBeforeSanitization(t *testing.T) {
	// Entity escaping expands text ("\"" becomes "&quot;"), so sanitized
	// output may exceed the raw bound. The bound is on what the user typed;
	// storage must accept the expanded form.
	sub := submission()
	sub.Text = strings.Repeat(`"`, MaxQuestionLen)
	sub.Answers[0].Text = strings.Repeat("&", MaxAnswerLen)

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	require.Empty(t, errs)
	require.NotNil(t, cleaned)
	assert.Greater(t, len([]rune(cleaned.Text)), MaxQuestionLen)
	assert.Greater(t, len([]rune(cleaned.Answers[0])), MaxAnswerLen)
}

func TestValidateQuestionSubmissionAccumulatesErrors(t *testing.T) {
	sub := QuestionSubmission{
		Text:       "stutt",
		CategoryID: 99,
		Answers:    []AnswerSubmission{{Text: "one"}},
	}

	cleaned, errs := ValidateQuestionSubmission(sub, testCategories)

	assert.Nil(t, cleaned)
	assert.GreaterOrEqual(t, len(errs), 4)
}

func TestValidateQuestionSubmissionDoesNotMutateInput(t *testing.T) {
	sub := submission()
	sub.Answers[0].Text = "<b>raw &</b>"
	before := make([]AnswerSubmission, len(sub.Answers))
	copy(before, sub.Answers)
	text := sub.Text

	_, _ = ValidateQuestionSubmission(sub, testCategories)

	assert.Equal(t, text, sub.Text)
	assert.Equal(t, before, sub.Answers)
}

func TestValidateCategoryName(t *testing.T) {
	assert.Empty(t, ValidateCategoryName("Saga"))
	assert.Empty(t, ValidateCategoryName("Web programming"))
	assertHasError(t, ValidateCategoryName("ab"), "between 3 and 64")
	assertHasError(t, ValidateCategoryName(strings.Repeat("a", 65)), "between 3 and 64")
	assertHasError(t, ValidateCategoryName("CSS3"), "letters and spaces")
	assertHasError(t, ValidateCategoryName(""), "between 3 and 64")
}

func assertHasError(t *testing.T, errs []string, want string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e, want) {
			return
		}
	}
	t.Fatalf("error list %v does not contain %q", errs, want)
}
