package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vefur-dev/quiz-web/internal/quiz"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Repository is the slice of the quiz repository the web layer consumes.
// Satisfied by *repository.QuizRepository.
type Repository interface {
	ListCategories(ctx context.Context) ([]quiz.Category, error)
	InsertCategory(ctx context.Context, name string) (quiz.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (quiz.Category, error)
	GetQuestionsForDisplay(ctx context.Context, category quiz.Category) ([]quiz.DisplayQuestion, error)
	CreateQuestionWithAnswers(ctx context.Context, text string, categoryID int64, answerTexts []string, correctIndex int) error
}

// Handlers serves the HTML pages. A nil repository means storage is not
// configured; every page then renders the "unavailable" response instead
// of crashing.
type Handlers struct {
	repo   Repository
	logger zerolog.Logger
	tmpl   *template.Template
}

func NewHandlers(repo Repository, logger zerolog.Logger) *Handlers {
	return &Handlers{
		repo:   repo,
		logger: logger.With().Str("component", "web").Logger(),
		tmpl:   template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

// Routes mounts all pages on the given router.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/spurningar/{slug}", h.Category)
	r.Get("/form", h.CategoryForm)
	r.Post("/form", h.CreateCategory)
	r.Get("/spurning", h.QuestionForm)
	r.Post("/spurning", h.CreateQuestion)
}

type indexPage struct {
	Title      string
	Categories []quiz.Category
}

// Index lists all categories on the front page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.renderUnavailable(w)
		return
	}
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.renderFailure(w, r, err, "list categories")
		return
	}
	h.render(w, http.StatusOK, "index.html", indexPage{Title: "Quiz", Categories: categories})
}

type categoryPage struct {
	Title     string
	Category  quiz.Category
	Questions []quiz.DisplayQuestion
}

// Category renders one category's questions with shuffled answers.
func (h *Handlers) Category(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.renderUnavailable(w)
		return
	}
	slug := chi.URLParam(r, "slug")
	category, err := h.repo.GetCategoryBySlug(r.Context(), slug)
	if errors.Is(err, quiz.ErrNotFound) {
		h.renderNotFound(w)
		return
	}
	if err != nil {
		h.renderFailure(w, r, err, "get category")
		return
	}
	questions, err := h.repo.GetQuestionsForDisplay(r.Context(), category)
	if err != nil {
		h.renderFailure(w, r, err, "get questions")
		return
	}
	h.render(w, http.StatusOK, "category.html", categoryPage{
		Title:     category.Name,
		Category:  category,
		Questions: questions,
	})
}

type categoryFormPage struct {
	Title  string
	Name   string
	Errors []string
}

// CategoryForm renders the create-category form.
func (h *Handlers) CategoryForm(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.renderUnavailable(w)
		return
	}
	h.render(w, http.StatusOK, "category_form.html", categoryFormPage{Title: "Create category"})
}

// CreateCategory handles the create-category submission. Validation errors
// and duplicate names re-render the form with the submitted name preserved.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.renderUnavailable(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "category_form.html", categoryFormPage{
			Title:  "Create category",
			Errors: []string{"the submitted form could not be read"},
		})
		return
	}
	name := r.PostFormValue("name")

	if errs := quiz.ValidateCategoryName(name); len(errs) > 0 {
		h.render(w, http.StatusBadRequest, "category_form.html", categoryFormPage{
			Title:  "Create category",
			Name:   name,
			Errors: errs,
		})
		return
	}

	_, err := h.repo.InsertCategory(r.Context(), name)
	if errors.Is(err, quiz.ErrAlreadyExists) {
		h.render(w, http.StatusOK, "category_form.html", categoryFormPage{
			Title:  "Create category",
			Name:   name,
			Errors: []string{"a category with this name already exists"},
		})
		return
	}
	if err != nil {
		h.renderFailure(w, r, err, "insert category")
		return
	}
	h.render(w, http.StatusOK, "created.html", createdPage{Title: "Category created", Message: "The category was created."})
}

type answerSlot struct {
	Index   int
	Num     int
	Text    string
	Correct bool
}

type questionForm struct {
	Text       string
	CategoryID int64
	Answers    []answerSlot
}

type questionFormPage struct {
	Title      string
	Categories []quiz.Category
	Errors     []string
	Form       questionForm
}

// QuestionForm renders the create-question form.
func (h *Handlers) QuestionForm(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.renderUnavailable(w)
		return
	}
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.renderFailure(w, r, err, "list categories")
		return
	}
	h.render(w, http.StatusOK, "question_form.html", questionFormPage{
		Title:      "Create question",
		Categories: categories,
		Form:       emptyQuestionForm(),
	})
}

// CreateQuestion validates the submission and persists the question with
// its answers atomically. Any validation error re-renders the form with
// the messages and the user's prior input; the repository is not called.
func (h *Handlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.renderUnavailable(w)
		return
	}
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.renderFailure(w, r, err, "list categories")
		return
	}

	sub, form, err := parseQuestionForm(r)
	if err != nil {
		h.render(w, http.StatusBadRequest, "question_form.html", questionFormPage{
			Title:      "Create question",
			Categories: categories,
			Errors:     []string{"the submitted form could not be read"},
			Form:       emptyQuestionForm(),
		})
		return
	}
	cleaned, errs := quiz.ValidateQuestionSubmission(sub, categories)
	if len(errs) > 0 {
		h.render(w, http.StatusBadRequest, "question_form.html", questionFormPage{
			Title:      "Create question",
			Categories: categories,
			Errors:     errs,
			Form:       form,
		})
		return
	}

	if err := h.repo.CreateQuestionWithAnswers(r.Context(), cleaned.Text, cleaned.CategoryID, cleaned.Answers, cleaned.CorrectIndex); err != nil {
		h.renderFailure(w, r, err, "create question")
		return
	}
	h.render(w, http.StatusOK, "created.html", createdPage{Title: "Question created", Message: "The question was created."})
}

func emptyQuestionForm() questionForm {
	answers := make([]answerSlot, quiz.MaxAnswers)
	for i := range answers {
		answers[i].Index = i
		answers[i].Num = i + 1
	}
	return questionForm{Answers: answers}
}

// parseQuestionForm reads the raw submission: the question text, the
// selected category, five answer slots and the index of the slot marked
// correct by the radio group.
func parseQuestionForm(r *http.Request) (quiz.QuestionSubmission, questionForm, error) {
	if err := r.ParseForm(); err != nil {
		return quiz.QuestionSubmission{}, questionForm{}, err
	}

	categoryID, _ := strconv.ParseInt(r.PostFormValue("category"), 10, 64)
	correct, err := strconv.Atoi(r.PostFormValue("correct"))
	if err != nil {
		correct = -1
	}

	form := questionForm{
		Text:       r.PostFormValue("text"),
		CategoryID: categoryID,
		Answers:    make([]answerSlot, quiz.MaxAnswers),
	}
	sub := quiz.QuestionSubmission{
		Text:       form.Text,
		CategoryID: categoryID,
		Answers:    make([]quiz.AnswerSubmission, quiz.MaxAnswers),
	}
	for i := 0; i < quiz.MaxAnswers; i++ {
		text := r.PostFormValue(fmt.Sprintf("answer%d", i+1))
		slot := answerSlot{Index: i, Num: i + 1, Text: text, Correct: i == correct}
		form.Answers[i] = slot
		sub.Answers[i] = quiz.AnswerSubmission{Text: slot.Text, Correct: slot.Correct}
	}
	return sub, form, nil
}
