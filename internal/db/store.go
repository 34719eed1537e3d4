package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/vefur-dev/quiz-web/internal/quiz"
)

// pgUniqueViolation is the Postgres error code for unique-constraint hits.
const pgUniqueViolation = "23505"

// querier is the statement surface shared by the pooled Database and a
// pgx.Tx, so the same store methods run inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the Postgres implementation of quiz.Store.
type Store struct {
	db     *Database // nil when this store is transaction-scoped
	q      querier
	logger zerolog.Logger
}

// NewStore builds a pool-backed store on an opened Database.
func NewStore(database *Database, logger zerolog.Logger) *Store {
	return &Store{
		db:     database,
		q:      database,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// WithTx runs fn against a transaction-scoped store. Statements issued by
// fn execute in sequence on one borrowed connection and commit atomically.
// Calling WithTx on an already transactional store joins the open
// transaction instead of nesting a new one.
func (s *Store) WithTx(ctx context.Context, fn func(quiz.Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(&Store{q: tx, logger: s.logger})
	})
}

func (s *Store) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	rows, err := s.q.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, s.fail(err, "list categories")
	}
	defer rows.Close()

	var out []quiz.Category
	for rows.Next() {
		var c quiz.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, s.fail(err, "scan category")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(err, "list categories")
	}
	return out, nil
}

func (s *Store) GetCategoryByName(ctx context.Context, name string) (quiz.Category, error) {
	return s.getCategory(ctx, `SELECT id, name, slug FROM categories WHERE name = $1`, name)
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (quiz.Category, error) {
	return s.getCategory(ctx, `SELECT id, name, slug FROM categories WHERE slug = $1`, slug)
}

func (s *Store) getCategory(ctx context.Context, sql, key string) (quiz.Category, error) {
	var c quiz.Category
	if err := s.q.QueryRow(ctx, sql, key).Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return quiz.Category{}, s.fail(err, "get category")
	}
	return c, nil
}

func (s *Store) InsertCategory(ctx context.Context, name, slug string) (quiz.Category, error) {
	c := quiz.Category{Name: name, Slug: slug}
	err := s.q.QueryRow(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`,
		name, slug,
	).Scan(&c.ID)
	if err != nil {
		return quiz.Category{}, s.fail(err, "insert category")
	}
	return c, nil
}

func (s *Store) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]quiz.Question, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, text, category_id FROM questions WHERE category_id = $1 ORDER BY id DESC`,
		categoryID,
	)
	if err != nil {
		return nil, s.fail(err, "list questions")
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var q quiz.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.CategoryID); err != nil {
			return nil, s.fail(err, "scan question")
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(err, "list questions")
	}
	return out, nil
}

func (s *Store) ListAnswersByQuestions(ctx context.Context, questionIDs []int64) ([]quiz.Answer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx,
		`SELECT id, text, question_id, is_correct FROM answers WHERE question_id = ANY($1) ORDER BY id ASC`,
		questionIDs,
	)
	if err != nil {
		return nil, s.fail(err, "list answers")
	}
	defer rows.Close()

	var out []quiz.Answer
	for rows.Next() {
		var a quiz.Answer
		if err := rows.Scan(&a.ID, &a.Text, &a.QuestionID, &a.Correct); err != nil {
			return nil, s.fail(err, "scan answer")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(err, "list answers")
	}
	return out, nil
}

func (s *Store) InsertQuestion(ctx context.Context, text string, categoryID int64) (quiz.Question, error) {
	q := quiz.Question{Text: text, CategoryID: categoryID}
	err := s.q.QueryRow(ctx,
		`INSERT INTO questions (text, category_id) VALUES ($1, $2) RETURNING id`,
		text, categoryID,
	).Scan(&q.ID)
	if err != nil {
		return quiz.Question{}, s.fail(err, "insert question")
	}
	return q, nil
}

func (s *Store) InsertAnswer(ctx context.Context, questionID int64, text string, correct bool) (quiz.Answer, error) {
	a := quiz.Answer{QuestionID: questionID, Text: text, Correct: correct}
	err := s.q.QueryRow(ctx,
		`INSERT INTO answers (text, question_id, is_correct) VALUES ($1, $2, $3) RETURNING id`,
		text, questionID, correct,
	).Scan(&a.ID)
	if err != nil {
		return quiz.Answer{}, s.fail(err, "insert answer")
	}
	return a, nil
}

// fail translates driver errors into the domain error vocabulary. Expected
// outcomes (no rows, duplicate key, closed pool) pass through quietly;
// everything else is logged with context.
func (s *Store) fail(err error, op string) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return quiz.ErrNotFound
	case errors.Is(err, ErrClosed):
		return quiz.ErrUnavailable
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return quiz.ErrAlreadyExists
	}
	s.logger.Error().Err(err).Str("op", op).Msg("statement failed")
	return err
}
