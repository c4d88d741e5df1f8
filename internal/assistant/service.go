// Package assistant exposes the user-facing finance operations. Each
// operation takes an explicit session and returns exactly one Result.
package assistant

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/categorize"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
	"github.com/tally-dev/tally/internal/normalize"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

// Recorder receives one activity entry per operation.
type Recorder interface {
	Append(entries ...activity.Entry) error
}

// Service runs operations against a store.
type Service struct {
	store      store.Store
	normalizer *normalize.Normalizer
	classifier *categorize.Classifier
	ids        id.Generator
	validator  *ledger.Validator
	symbol     string
	logger     *log.Logger
	recorder   Recorder
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClassifier replaces the default classifier.
func WithClassifier(c *categorize.Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

// WithMaxInputLength bounds free-text input.
func WithMaxInputLength(n int) Option {
	return func(s *Service) { s.normalizer = normalize.New(n) }
}

// WithIDs replaces the record id generator.
func WithIDs(g id.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithSymbol sets the currency symbol used in reports.
func WithSymbol(symbol string) Option {
	return func(s *Service) { s.symbol = symbol }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRecorder enables the activity log.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithNow replaces the timestamp source for activity entries.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		normalizer: normalize.New(normalize.DefaultMaxLength),
		classifier: categorize.Default(),
		ids:        id.UUID{},
		symbol:     money.DefaultSymbol,
		logger:     log.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentAssistant)
	s.validator = ledger.NewValidator(s.classifier, s.ids)
	return s
}

// Classify exposes the classifier for a single title.
func (s *Service) Classify(title string) categorize.Result {
	return s.classifier.Classify(title)
}

// guard converts a panic into an unexpected-error result and records the
// final outcome. Call it deferred with a pointer to the named result.
func (s *Service) guard(op string, sess session.Session, res *Result) {
	if r := recover(); r != nil {
		s.logger.Error("operation panicked", log.FieldOperation, op, log.FieldUser, sess.UserID, log.FieldError, fmt.Sprint(r))
		*res = failure(CodeUnexpected, fmt.Sprintf("❌ Unexpected error: %v", r))
	}
	s.logger.Info("operation finished",
		log.FieldOperation, op, log.FieldUser, sess.UserID,
		log.FieldStatus, string(res.Status), log.FieldCode, res.Code)
	s.record(op, sess, *res)
}

func (s *Service) record(op string, sess session.Session, res Result) {
	if s.recorder == nil {
		return
	}
	e := activity.Entry{
		Timestamp: s.now(),
		User:      sess.UserID,
		Operation: op,
		Status:    string(res.Status),
		Code:      res.Code,
	}
	if res.Status != StatusSuccess {
		e.Detail = res.Message
	}
	if err := s.recorder.Append(e); err != nil {
		s.logger.Warn("activity log append failed", log.FieldOperation, op, log.FieldError, err.Error())
	}
}

// fetched holds both lists.
type fetched struct {
	incomes  []model.Entry
	expenses []model.Entry
}

// fetchError names the list that could not be fetched.
type fetchError struct {
	Kind model.Kind
	Err  error
}

func (e *fetchError) Error() string { return fmt.Sprintf("listing %s: %v", e.Kind, e.Err) }
func (e *fetchError) Unwrap() error { return e.Err }

// pick returns expenses or income depending on the failed kind.
func (e *fetchError) pick(expenses, income string) string {
	if e.Kind == model.KindExpenses {
		return expenses
	}
	return income
}

// fetch lists incomes and expenses concurrently. A failure of one list
// does not cancel the other. When both fail the expenses error is
// reported, whichever finished first.
func (s *Service) fetch(ctx context.Context, who session.Identity) (fetched, *fetchError) {
	var (
		f                     fetched
		g                     errgroup.Group
		expenseErr, incomeErr error
	)
	list := func(kind model.Kind, dst *[]model.Entry, errp *error) func() error {
		return func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				if err != nil {
					s.logger.Warn("list failed", log.FieldOperation, log.OpList, log.FieldKind, string(kind), log.FieldError, err.Error())
				}
				*errp = err
			}()
			*dst, err = s.store.List(ctx, who, kind)
			return err
		}
	}
	g.Go(list(model.KindExpenses, &f.expenses, &expenseErr))
	g.Go(list(model.KindIncome, &f.incomes, &incomeErr))
	if err := g.Wait(); err == nil {
		return f, nil
	}
	if expenseErr != nil {
		return f, &fetchError{Kind: model.KindExpenses, Err: expenseErr}
	}
	return f, &fetchError{Kind: model.KindIncome, Err: incomeErr}
}
