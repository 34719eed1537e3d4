package repository

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vefur-dev/quiz-web/internal/quiz"
)

// QuizRepository exclusively owns the category/question/answer lifecycle.
// It maps every result to the declared record types and signals failure
// through the quiz sentinel errors instead of raising past this boundary.
type QuizRepository struct {
	store  quiz.Store
	logger zerolog.Logger
}

func NewQuizRepository(store quiz.Store, logger zerolog.Logger) *QuizRepository {
	return &QuizRepository{
		store:  store,
		logger: logger.With().Str("component", "quiz_repo").Logger(),
	}
}

// ListCategories returns all categories ordered by name ascending.
func (r *QuizRepository) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	return r.store.ListCategories(ctx)
}

// InsertCategory creates a category with a slug derived from its name.
// A duplicate name yields quiz.ErrAlreadyExists: the pre-check catches the
// common case and the unique constraint backstops the race where two
// identical inserts pass the pre-check concurrently.
func (r *QuizRepository) InsertCategory(ctx context.Context, name string) (quiz.Category, error) {
	name = strings.TrimSpace(name)
	slug := quiz.Slugify(name)
	if slug == "" {
		return quiz.Category{}, fmt.Errorf("category name %q yields an empty slug", name)
	}

	_, err := r.store.GetCategoryByName(ctx, name)
	switch {
	case err == nil:
		return quiz.Category{}, quiz.ErrAlreadyExists
	case !errors.Is(err, quiz.ErrNotFound):
		return quiz.Category{}, err
	}

	return r.store.InsertCategory(ctx, name, slug)
}

// GetCategoryBySlug resolves a category. Malformed slugs (empty or
// over-length) report quiz.ErrNotFound without touching the store.
func (r *QuizRepository) GetCategoryBySlug(ctx context.Context, slug string) (quiz.Category, error) {
	if slug == "" || len(slug) > quiz.MaxSlugLen {
		return quiz.Category{}, quiz.ErrNotFound
	}
	return r.store.GetCategoryBySlug(ctx, slug)
}

// GetQuestionsByCategory returns the category's questions newest first,
// each carrying its answer set. Answers for the whole page are fetched with
// one bulk statement and grouped in memory, never per question.
func (r *QuizRepository) GetQuestionsByCategory(ctx context.Context, categoryID int64) ([]quiz.Question, error) {
	questions, err := r.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	answers, err := r.store.ListAnswersByQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int64][]quiz.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	for i := range questions {
		questions[i].Answers = byQuestion[questions[i].ID]
	}
	return questions, nil
}

// InsertQuestion stores a single question row.
func (r *QuizRepository) InsertQuestion(ctx context.Context, text string, categoryID int64) (quiz.Question, error) {
	return r.store.InsertQuestion(ctx, text, categoryID)
}

// InsertAnswer stores a single answer row.
func (r *QuizRepository) InsertAnswer(ctx context.Context, questionID int64, text string, correct bool) (quiz.Answer, error) {
	return r.store.InsertAnswer(ctx, questionID, text, correct)
}

// CreateQuestionWithAnswers inserts a question and its full answer set as
// one unit of work: the answer at correctIndex is the single correct one,
// and a failure on any insert rolls back everything so no partial question
// ever becomes visible.
func (r *QuizRepository) CreateQuestionWithAnswers(ctx context.Context, text string, categoryID int64, answerTexts []string, correctIndex int) error {
	if correctIndex < 0 || correctIndex >= len(answerTexts) {
		return fmt.Errorf("correct answer index %d out of range for %d answers", correctIndex, len(answerTexts))
	}
	err := r.store.WithTx(ctx, func(tx quiz.Store) error {
		question, err := tx.InsertQuestion(ctx, text, categoryID)
		if err != nil {
			return err
		}
		for i, answer := range answerTexts {
			if _, err := tx.InsertAnswer(ctx, question.ID, answer, i == correctIndex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", categoryID).Msg("question creation rolled back")
	}
	return err
}

// GetQuestionsForDisplay prepares a category's questions for rendering:
// the prompt is converted to display markup, answer text is re-sanitized,
// and each answer list is shuffled. The shuffle is presentation-only; the
// stored order never changes.
func (r *QuizRepository) GetQuestionsForDisplay(ctx context.Context, category quiz.Category) ([]quiz.DisplayQuestion, error) {
	questions, err := r.GetQuestionsByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	out := make([]quiz.DisplayQuestion, 0, len(questions))
	for _, q := range questions {
		answers := make([]quiz.DisplayAnswer, len(q.Answers))
		for i, a := range q.Answers {
			answers[i] = quiz.DisplayAnswer{
				ID:      a.ID,
				Text:    template.HTML(quiz.Sanitize(a.Text)),
				Correct: a.Correct,
			}
		}
		rand.Shuffle(len(answers), func(i, j int) {
			answers[i], answers[j] = answers[j], answers[i]
		})
		out = append(out, quiz.DisplayQuestion{
			ID:      q.ID,
			Text:    quiz.ToDisplayMarkup(q.Text),
			Answers: answers,
		})
	}
	return out, nil
}
