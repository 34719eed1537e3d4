package quiz

import "context"

// Store is the persistence contract the repository builds on. Each method
// maps to a single statement; WithTx scopes a group of statements to one
// transaction that commits only if fn returns nil.
//
// Implementations return ErrNotFound for absent rows, ErrAlreadyExists for
// unique-constraint violations and ErrUnavailable when the pool is closed.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByName(ctx context.Context, name string) (Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)
	InsertCategory(ctx context.Context, name, slug string) (Category, error)

	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	ListAnswersByQuestions(ctx context.Context, questionIDs []int64) ([]Answer, error)
	InsertQuestion(ctx context.Context, text string, categoryID int64) (Question, error)
	InsertAnswer(ctx context.Context, questionID int64, text string, correct bool) (Answer, error)

	WithTx(ctx context.Context, fn func(Store) error) error
}
