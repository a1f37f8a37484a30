package controller

import (
	"context"
	"errors"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
)

// FilterField names one transaction filter.
type FilterField int

const (
	FilterCategory FilterField = iota
	FilterPeriod
	FilterType
	FilterStartDate
	FilterEndDate
)

// TransactionsLoadedMsg carries one page response.
type TransactionsLoadedMsg struct {
	Seq  uint64
	Page model.TransactionPage
	Err  error
}

// CategoriesLoadedMsg carries the category reference list.
type CategoriesLoadedMsg struct {
	Categories []model.Category
	Err        error
}

// PeriodsLoadedMsg carries the period reference list.
type PeriodsLoadedMsg struct {
	Periods []model.BudgetPeriod
	Err     error
}

// TransactionCreatedMsg carries the create response.
type TransactionCreatedMsg struct {
	Transaction model.Transaction
	Err         error
}

// TransactionsView is the render-ready transaction list state.
type TransactionsView struct {
	Items      []model.Transaction
	Pagination model.Pagination
	Page       int
	Limit      int
	Filter     model.TransactionFilter
	Loading    bool
	Error      string

	Categories []model.Category
	Periods    []model.BudgetPeriod

	CreateOpen  bool
	Creating    bool
	CreateError string

	Detail *model.Transaction
}

type listKey struct {
	page   int
	limit  int
	filter model.TransactionFilter
}

// Transactions keeps the fetched page consistent with the filter and page
// cursor. Any change to {page, filter} dispatches exactly one fetch; a call
// that leaves them unchanged dispatches nothing.
type Transactions struct {
	ctx     context.Context
	src     TransactionSource
	cats    CategoryLister
	periods PeriodLister
	log     *logging.Logger
	now     func() time.Time

	seq        Sequencer
	dispatched *listKey

	filter model.TransactionFilter
	page   int
	limit  int

	status     Status
	err        string
	items      []model.Transaction
	pagination model.Pagination

	refLoaded  bool
	categories []model.Category
	periodList []model.BudgetPeriod

	createOpen bool
	creating   bool
	createErr  string

	detail *model.Transaction
}

// NewTransactions creates a list controller showing limit rows per page.
func NewTransactions(ctx context.Context, src TransactionSource, cats CategoryLister, periods PeriodLister, log *logging.Logger, limit int) *Transactions {
	if limit <= 0 {
		limit = 20
	}
	return &Transactions{
		ctx:     ctx,
		src:     src,
		cats:    cats,
		periods: periods,
		log:     log.WithComponent(logging.ComponentTransaction),
		now:     time.Now,
		page:    1,
		limit:   limit,
	}
}

// Init fetches the first page and, once, the categories and periods used
// by the filter pickers.
func (t *Transactions) Init() tea.Cmd {
	cmds := []tea.Cmd{t.sync()}
	if !t.refLoaded {
		t.refLoaded = true
		cmds = append(cmds, t.loadCategories(), t.loadPeriods())
	}
	return tea.Batch(cmds...)
}

// SetFilter changes one filter field and always resets the page to 1.
func (t *Transactions) SetFilter(field FilterField, value string) tea.Cmd {
	switch field {
	case FilterCategory:
		t.filter.CategoryID = value
	case FilterPeriod:
		t.filter.PeriodID = value
	case FilterType:
		t.filter.Type = value
	case FilterStartDate:
		t.filter.StartDate = value
	case FilterEndDate:
		t.filter.EndDate = value
	}
	return t.refilter()
}

// SetFilters replaces the whole filter at once, resetting the page to 1.
func (t *Transactions) SetFilters(f model.TransactionFilter) tea.Cmd {
	t.filter = f
	return t.refilter()
}

// refilter goes back to page 1. When that dispatches a fetch, the old
// pagination no longer bounds SetPage until the new page arrives.
func (t *Transactions) refilter() tea.Cmd {
	t.page = 1
	cmd := t.sync()
	if cmd != nil {
		t.pagination = model.Pagination{}
	}
	return cmd
}

// ClearFilters drops every filter and resets the page to 1.
func (t *Transactions) ClearFilters() tea.Cmd {
	return t.SetFilters(model.TransactionFilter{})
}

// SetPage moves to page p. Pages outside [1, TotalPages] are ignored.
func (t *Transactions) SetPage(p int) tea.Cmd {
	if p < 1 || p > t.pagination.TotalPages {
		return nil
	}
	t.page = p
	return t.sync()
}

// NextPage moves forward one page if possible.
func (t *Transactions) NextPage() tea.Cmd {
	return t.SetPage(t.page + 1)
}

// PrevPage moves back one page if possible.
func (t *Transactions) PrevPage() tea.Cmd {
	return t.SetPage(t.page - 1)
}

// Reload refetches the current page even if nothing changed.
func (t *Transactions) Reload() tea.Cmd {
	t.dispatched = nil
	return t.sync()
}

// Page returns the page cursor.
func (t *Transactions) Page() int {
	return t.page
}

func (t *Transactions) sync() tea.Cmd {
	key := listKey{page: t.page, limit: t.limit, filter: t.filter}
	if t.dispatched != nil && *t.dispatched == key {
		return nil
	}
	t.dispatched = &key
	t.status = StatusLoading

	tk := t.seq.Begin(t.ctx)
	src := t.src
	return func() tea.Msg {
		page, err := src.List(tk.Ctx, key.filter, key.page, key.limit)
		return TransactionsLoadedMsg{Seq: tk.Seq, Page: page, Err: err}
	}
}

func (t *Transactions) loadCategories() tea.Cmd {
	ctx, src := t.ctx, t.cats
	return func() tea.Msg {
		cats, err := src.List(ctx)
		return CategoriesLoadedMsg{Categories: cats, Err: err}
	}
}

func (t *Transactions) loadPeriods() tea.Cmd {
	ctx, src := t.ctx, t.periods
	return func() tea.Msg {
		periods, err := src.List(ctx)
		return PeriodsLoadedMsg{Periods: periods, Err: err}
	}
}

// OpenCreate shows the create form.
func (t *Transactions) OpenCreate() {
	t.createOpen = true
	t.createErr = ""
}

// CancelCreate hides the create form.
func (t *Transactions) CancelCreate() {
	t.createOpen = false
	t.createErr = ""
}

// SubmitCreate validates d and posts it. Validation errors are shown
// inline and nothing is sent.
func (t *Transactions) SubmitCreate(d TransactionDraft) tea.Cmd {
	if t.creating {
		return nil
	}
	body, err := d.Build(t.now())
	if err != nil {
		t.createErr = err.Error()
		return nil
	}
	t.createOpen = true
	t.creating = true
	t.createErr = ""

	ctx, src := t.ctx, t.src
	return func() tea.Msg {
		tx, err := src.Create(ctx, body)
		return TransactionCreatedMsg{Transaction: tx, Err: err}
	}
}

// ShowDetail opens the detail pane for the i-th item on the current page.
func (t *Transactions) ShowDetail(i int) {
	if i < 0 || i >= len(t.items) {
		return
	}
	tx := t.items[i]
	t.detail = &tx
}

// CloseDetail hides the detail pane.
func (t *Transactions) CloseDetail() {
	t.detail = nil
}

// Update applies msg and returns any follow-up command.
func (t *Transactions) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TransactionsLoadedMsg:
		if !t.seq.Finish(msg.Seq) {
			t.log.Debug("dropping stale transactions response", logging.FieldSeq, msg.Seq)
			return nil
		}
		if msg.Err != nil {
			t.status = StatusFailed
			t.err = MsgTransactionsFailed
			t.log.Error("transactions fetch failed", logging.FieldError, msg.Err, logging.FieldPage, t.page)
			return nil
		}
		t.status = StatusReady
		t.err = ""
		t.items = msg.Page.Items
		t.pagination = msg.Page.Pagination
		t.detail = nil

	case CategoriesLoadedMsg:
		if msg.Err != nil {
			t.log.WarnErr(t.ctx, "categories fetch failed", msg.Err)
			return nil
		}
		t.categories = msg.Categories

	case PeriodsLoadedMsg:
		if msg.Err != nil {
			t.log.WarnErr(t.ctx, "periods fetch failed", msg.Err)
			return nil
		}
		t.periodList = model.SortPeriodsNewestFirst(msg.Periods)

	case TransactionCreatedMsg:
		t.creating = false
		if msg.Err != nil {
			t.createErr = createErrorText(msg.Err)
			t.log.Error("create transaction failed", logging.FieldError, msg.Err)
			return nil
		}
		t.createOpen = false
		t.createErr = ""
		return t.Reload()
	}
	return nil
}

func createErrorText(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return MsgCreateTxFailed
}

// View returns the current view model.
func (t *Transactions) View() TransactionsView {
	return TransactionsView{
		Items:       slices.Clone(t.items),
		Pagination:  t.pagination,
		Page:        t.page,
		Limit:       t.limit,
		Filter:      t.filter,
		Loading:     t.status == StatusLoading,
		Error:       t.err,
		Categories:  slices.Clone(t.categories),
		Periods:     slices.Clone(t.periodList),
		CreateOpen:  t.createOpen,
		Creating:    t.creating,
		CreateError: t.createErr,
		Detail:      t.detail,
	}
}

// Close cancels the in-flight page fetch.
func (t *Transactions) Close() {
	t.seq.Invalidate()
}
