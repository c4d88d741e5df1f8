package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/tally-dev/tally/internal/budget"
	"github.com/tally-dev/tally/internal/categorize"
	"github.com/tally-dev/tally/internal/goal"
	"github.com/tally-dev/tally/internal/insight"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/normalize"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

const (
	msgMissingContext = "❌ Cannot fetch insights. Missing user context or auth token."
	msgBudgetNoAuth   = "❌ Missing user authentication. Please log in."
	msgGoalNoSession  = "❌ Missing user session info. Please log in."
	msgOverloaded     = "❌ Server overloaded or resource exhausted. Please try again later."
	msgNoIncome       = "⚠️ No income records found. Please add income data first."
)

// AddTransaction interprets input, validates it and stores the record.
func (s *Service) AddTransaction(ctx context.Context, sess session.Session, input string) (res Result) {
	defer s.guard(log.OpAddTransaction, sess, &res)

	if err := sess.Validate(); err != nil {
		return failure(CodeUnauthenticated, msgMissingContext)
	}

	d, err := s.normalizer.Parse(input, sess)
	if err != nil {
		return inputFailure(err)
	}
	if !d.Structured {
		d.Tag = string(s.tag(d.Kind, d.Title, d.Source))
	}

	rec, err := s.validator.Validate(d, sess)
	if err != nil {
		return inputFailure(err)
	}
	if d.Structured && rec.Kind == model.KindIncome && !rec.Tag.IsIncome() {
		rec.Tag = categorize.ForIncome(rec.Title, categorize.Result{Tag: rec.Tag}).Tag
	}

	if _, err := s.store.Create(ctx, sess.Identity(), rec); err != nil {
		s.logger.Warn("create failed", log.FieldOperation, log.OpCreate, log.FieldKind, string(rec.Kind), log.FieldError, err.Error())
		return createFailure(rec.Kind, err)
	}
	s.logger.Debug("transaction added", log.FieldEntryID, rec.ID, log.FieldKind, string(rec.Kind), log.FieldTag, string(rec.Tag))
	return success(fmt.Sprintf("✅ %s added successfully.", rec.Kind.Label()))
}

// tag classifies a free-text draft. Income is narrowed to the income tags
// using the whole input.
func (s *Service) tag(kind model.Kind, title, source string) model.Tag {
	r := s.classifier.Classify(title)
	if kind == model.KindIncome {
		r = categorize.ForIncome(source, r)
	}
	s.logger.Debug("classified",
		log.FieldTag, string(r.Tag), log.FieldScore, r.Score, log.FieldMethod, string(r.Method))
	return r.Tag
}

// FinancialInsight answers a monthly or yearly question about the user's
// records.
func (s *Service) FinancialInsight(ctx context.Context, sess session.Session, query string) (res Result) {
	defer s.guard(log.OpInsight, sess, &res)

	if err := sess.Validate(); err != nil {
		return failure(CodeUnauthenticated, msgMissingContext)
	}

	f, ferr := s.fetch(ctx, sess.Identity())
	if ferr != nil {
		return failure(CodeFetch, fmt.Sprintf("❌ Unable to fetch %s. Ensure you're logged in.", ferr.pick("expenses", "incomes")))
	}

	ds := insight.Build(f.incomes, f.expenses, s.logger.WithComponent(log.ComponentInsight))
	text, err := insight.Report(ds, query, sess.Today(), s.symbol)
	if err != nil {
		if msg, ok := insight.NoDataMessage(err); ok {
			return noData(CodeNoRecords, msg)
		}
		return failure(CodeInsight, fmt.Sprintf("❌ Error generating insights: %v", err))
	}
	return success(text)
}

// OptimizeBudget diagnoses spending across all of the user's records.
func (s *Service) OptimizeBudget(ctx context.Context, sess session.Session) (res Result) {
	defer s.guard(log.OpBudget, sess, &res)

	if err := sess.Validate(); err != nil {
		return failure(CodeUnauthenticated, msgBudgetNoAuth)
	}

	f, ferr := s.fetch(ctx, sess.Identity())
	if ferr != nil {
		return failure(CodeFetch, fmt.Sprintf("❌ Unauthorized access to %s. Please check your login/token.", ferr.pick("expenses", "income")))
	}
	if len(f.incomes) == 0 {
		return warning(CodeNoIncome, msgNoIncome)
	}

	ds := insight.Build(f.incomes, f.expenses, s.logger.WithComponent(log.ComponentInsight))
	d := budget.Diagnose(ds.Expenses, ds.Totals().Income)
	return success(budget.Format(d, s.symbol))
}

// TrackGoal compares a savings goal with the user's net cash flow.
func (s *Service) TrackGoal(ctx context.Context, sess session.Session, text string) (res Result) {
	defer s.guard(log.OpGoal, sess, &res)

	if err := sess.Validate(); err != nil {
		return failure(CodeUnauthenticated, msgGoalNoSession)
	}

	g, err := goal.Parse(text)
	if err != nil {
		return inputFailure(err)
	}

	f, ferr := s.fetch(ctx, sess.Identity())
	if ferr != nil {
		return goalFetchFailure(ferr.pick("expenses", "incomes"), ferr.Err)
	}

	totals := insight.Build(f.incomes, f.expenses, s.logger.WithComponent(log.ComponentInsight)).Totals()
	return success(goal.Format(goal.Assess(g, totals.Income, totals.Expense), s.symbol))
}

// Import validates and stores drafts produced by a bank statement parser.
// Rows that fail validation are skipped; an authorization failure stops the
// import.
func (s *Service) Import(ctx context.Context, sess session.Session, drafts []model.Draft) (res Result) {
	defer s.guard(log.OpImport, sess, &res)

	if err := sess.Validate(); err != nil {
		return failure(CodeUnauthenticated, msgMissingContext)
	}
	if len(drafts) == 0 {
		return noData(CodeNoRecords, "📭 No transactions to import.")
	}

	logger := s.logger.WithComponent(log.ComponentImport)
	imported := 0
	for i, d := range drafts {
		if _, ok := model.ParseTag(d.Tag); !ok {
			d.Tag = string(s.tag(d.Kind, d.Title, d.Title))
		}
		rec, err := s.validator.Validate(d, sess)
		if err != nil {
			logger.Warn("skipping import row", log.FieldRow, i+1, log.FieldError, err.Error())
			continue
		}
		if _, err := s.store.Create(ctx, sess.Identity(), rec); err != nil {
			if errors.Is(err, store.ErrUnauthorized) {
				return failure(CodeStore, fmt.Sprintf("❌ Failed to add %s: %v", rec.Kind, err))
			}
			logger.Warn("skipping import row", log.FieldRow, i+1, log.FieldError, err.Error())
			continue
		}
		imported++
	}
	logger.Info("import finished", log.FieldCount, imported)

	skipped := len(drafts) - imported
	switch {
	case skipped == 0:
		return success(fmt.Sprintf("✅ Imported %d transactions.", imported))
	case imported == 0:
		return failure(CodeImport, fmt.Sprintf("❌ No transactions imported; %d skipped.", skipped))
	}
	return warning(CodeImport, fmt.Sprintf("⚠️ Imported %d of %d transactions; %d skipped.", imported, len(drafts), skipped))
}

// inputFailure renders the typed core errors.
func inputFailure(err error) Result {
	var (
		ie *normalize.InputError
		ve ledger.ValidationError
		pe *goal.ParseError
	)
	switch {
	case errors.As(err, &ie):
		return failure(string(ie.Code), ie.Message())
	case errors.As(err, &ve):
		return failure(string(ve.Code), ve.Message())
	case errors.As(err, &pe):
		return failure(string(pe.Code), pe.Message())
	}
	return failure(CodeUnexpected, fmt.Sprintf("❌ Unexpected error: %v", err))
}

func createFailure(kind model.Kind, err error) Result {
	var ue *store.UpstreamError
	if errors.As(err, &ue) && ue.Overloaded() {
		return failure(CodeOverloaded, msgOverloaded)
	}
	return failure(CodeStore, fmt.Sprintf("❌ Failed to add %s: %v", kind, err))
}

func goalFetchFailure(what string, err error) Result {
	var ue *store.UpstreamError
	if errors.As(err, &ue) && ue.Status != 0 {
		return failure(CodeFetch, fmt.Sprintf("❌ Error fetching %s: %d", what, ue.Status))
	}
	return failure(CodeGoal, fmt.Sprintf("❌ Error processing goal: %v", err))
}
