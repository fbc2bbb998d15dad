package orderview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/statuscheck"
	"iget-admin/pkg/logging"
	"iget-admin/pkg/threadsafe"
	"iget-admin/pkg/timeutils"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrEmptySelection  = fmt.Errorf("%w: no orders selected", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrInvalidSenderID = fmt.Errorf("%w: sender ID must be 1 to 11 characters", ErrValidation)
	ErrUnknownOrder    = fmt.Errorf("%w: order is not loaded", ErrValidation)
	ErrBulkInProgress  = errors.New("a bulk status update is already in progress")
	ErrNoMorePages     = errors.New("no more pages to load")
	ErrViewClosed      = errors.New("view is closed")
)

const maxSenderIDLength = 11

type FetchMode int

const (
	Replace FetchMode = iota
	Append
)

type OrdersAPI interface {
	ListOrders(ctx context.Context, token string, q igetprotocol.OrdersQuery) (igetprotocol.OrdersPage, error)
	UpdateOrderStatus(
		ctx context.Context,
		token string,
		orderID string,
		req igetprotocol.StatusUpdateRequest,
	) (igetprotocol.StatusUpdateResponse, error)
	BulkUpdateOrderStatus(
		ctx context.Context,
		token string,
		req igetprotocol.BulkStatusRequest,
	) (igetprotocol.BulkStatusResponse, error)
}

type StatusTracker interface {
	Check(ctx context.Context, order data.Order) (data.ExternalStatus, error)
	CheckAll(ctx context.Context, orders []data.Order) (statuscheck.BatchResult, error)
	Record(orderID string) (data.ExternalStatus, bool)
	Checking(orderID string) bool
}

type Journal interface {
	Record(ctx context.Context, entry data.JournalEntry)
}

type Config struct {
	PageSize            int
	FetchLimit          int
	ExportPageLimit     int
	SearchDebounce      time.Duration
	NoticeTTL           time.Duration
	DefaultSenderID     string
	SendSMSNotification bool
}

func DefaultConfig() Config {
	return Config{
		PageSize:            50,
		FetchLimit:          100,
		ExportPageLimit:     1000,
		SearchDebounce:      500 * time.Millisecond,
		NoticeTTL:           4 * time.Second,
		DefaultSenderID:     "iGet",
		SendSMSNotification: true,
	}
}

type Deps struct {
	API     OrdersAPI
	Tracker StatusTracker
	Journal Journal
	Logger  *logging.ZapLogger
}

// View is one administrator's order reconciliation state. Network calls run
// without holding the lock, so independent actions interleave the way they
// would on a UI event loop.
type View struct {
	api       OrdersAPI
	tracker   StatusTracker
	journal   Journal
	logger    *logging.ZapLogger
	debouncer *timeutils.Debouncer
	selection *threadsafe.HashSet[string]
	store     *Store
	notice    *Notice
	// loadNotice is the error notice left by the last failed load, if any.
	loadNotice *Notice
	mux        *sync.Mutex
	now        func() time.Time
	token      string
	sessionID  string
	criteria   Criteria
	cfg        Config

	page           int
	serverPage     int
	serverPages    int
	serverTotal    int
	loading        int
	bulkInProgress bool
	refetchPending bool
	closed         bool
}

func New(cfg Config, deps Deps, sessionID, token string) *View {
	defaults := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = defaults.FetchLimit
	}
	if cfg.ExportPageLimit <= 0 {
		cfg.ExportPageLimit = defaults.ExportPageLimit
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = defaults.NoticeTTL
	}
	journal := deps.Journal
	if journal == nil {
		journal = NopJournal{}
	}
	return &View{
		api:         deps.API,
		tracker:     deps.Tracker,
		journal:     journal,
		logger:      deps.Logger,
		debouncer:   timeutils.NewDebouncer(cfg.SearchDebounce),
		selection:   threadsafe.NewHashSet[string](),
		store:       NewStore(),
		mux:         &sync.Mutex{},
		now:         time.Now,
		token:       token,
		sessionID:   sessionID,
		criteria:    Criteria{ServerSearch: true},
		cfg:         cfg,
		page:        1,
		serverPage:  0,
		serverPages: 1,
	}
}

// Close cancels pending scheduled work; a closed view refuses further loads.
func (v *View) Close() {
	v.debouncer.Close()
	v.mux.Lock()
	defer v.mux.Unlock()
	v.closed = true
}

func (v *View) logCtx(ctx context.Context) context.Context {
	return logging.WithContextFields(ctx, zap.String("session", v.sessionID))
}

// Load fetches one server page. Replace discards the loaded orders, Append
// merges the page into them.
func (v *View) Load(ctx context.Context, page int, mode FetchMode) error {
	if page < 1 {
		page = 1
	}
	ctx = v.logCtx(ctx)

	v.mux.Lock()
	if v.closed {
		v.mux.Unlock()
		return ErrViewClosed
	}
	query := v.criteria.Query(page, v.cfg.FetchLimit)
	v.loading++
	v.mux.Unlock()

	resp, err := v.api.ListOrders(ctx, v.token, query)

	v.mux.Lock()
	defer v.mux.Unlock()
	v.loading--
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// superseded by a newer search or reset; the newer load owns the state
		v.logger.DebugCtx(ctx, "orders load canceled", zap.Int("page", page))
		return fmt.Errorf("orders page %d load canceled: %w", page, err)
	}
	if err != nil {
		v.logger.ErrorCtx(ctx, "failed to load orders", zap.Int("page", page), zap.Error(err))
		v.setErrorLocked(err)
		v.loadNotice = v.notice
		if mode == Replace {
			v.store.Clear()
			v.selection.Clear()
			v.page = 1
		}
		return fmt.Errorf("failed to load orders page %d: %w", page, err)
	}

	if v.notice != nil && v.notice == v.loadNotice {
		v.notice = nil
	}
	v.loadNotice = nil

	orders := convertOrders(resp.Data)
	switch mode {
	case Append:
		added := v.store.Append(orders)
		v.logger.DebugCtx(ctx, "orders appended", zap.Int("page", page), zap.Int("added", added))
	default:
		v.store.Replace(orders)
		v.selection.Retain(v.store.Has)
	}

	v.serverTotal = resp.Total
	v.serverPages = resp.Pages
	if v.serverPages <= 0 {
		v.serverPages = PageCount(resp.Total, v.cfg.FetchLimit)
	}
	v.serverPage = resp.CurrentPage
	if v.serverPage <= 0 {
		v.serverPage = page
	}
	v.page = ClampPage(v.page, PageCount(len(v.filteredLocked()), v.cfg.PageSize))
	return nil
}

// LoadMore appends the next server page.
func (v *View) LoadMore(ctx context.Context) error {
	v.mux.Lock()
	next := v.serverPage + 1
	hasMore := v.serverPage < v.serverPages
	v.mux.Unlock()
	if !hasMore {
		return ErrNoMorePages
	}
	return v.Load(ctx, next, Append)
}

// refetch reloads the first page unless a bulk update is in flight, in which
// case the reload is deferred until the bulk update settles.
func (v *View) refetch(ctx context.Context) error {
	v.mux.Lock()
	if v.bulkInProgress {
		v.refetchPending = true
		v.mux.Unlock()
		v.logger.DebugCtx(v.logCtx(ctx), "refetch deferred while bulk update is in progress")
		return nil
	}
	v.mux.Unlock()
	return v.Load(ctx, 1, Replace)
}

func (v *View) ApplyFilter(ctx context.Context, filter Filter) error {
	v.mux.Lock()
	v.criteria.Filter = filter
	v.page = 1
	v.mux.Unlock()
	return v.refetch(ctx)
}

// ResetFilter clears every predicate and the selection, then reloads.
func (v *View) ResetFilter(ctx context.Context) error {
	v.debouncer.Cancel()
	v.mux.Lock()
	v.criteria = Criteria{ServerSearch: v.criteria.ServerSearch}
	v.selection.Clear()
	v.page = 1
	v.mux.Unlock()
	return v.refetch(ctx)
}

type ExclusionKind string

const (
	ExcludeCapacity        ExclusionKind = "capacity"
	ExcludeNetwork         ExclusionKind = "network"
	ExcludeNetworkCapacity ExclusionKind = "network-capacity"
)

var ErrInvalidExclusion = fmt.Errorf("%w: invalid exclusion", ErrValidation)

func (v *View) ToggleExclusion(ctx context.Context, kind ExclusionKind, value string) error {
	v.mux.Lock()
	exclusions := v.criteria.Exclusions
	switch kind {
	case ExcludeCapacity:
		capacity, ok := parseCapacity(value)
		if !ok {
			v.mux.Unlock()
			return ErrInvalidExclusion
		}
		exclusions = exclusions.ToggleCapacity(capacity)
	case ExcludeNetwork:
		if strings.TrimSpace(value) == "" {
			v.mux.Unlock()
			return ErrInvalidExclusion
		}
		exclusions = exclusions.ToggleNetwork(strings.TrimSpace(value))
	case ExcludeNetworkCapacity:
		nc, ok := ParseNetworkCapacity(value)
		if !ok {
			v.mux.Unlock()
			return ErrInvalidExclusion
		}
		exclusions = exclusions.ToggleNetworkCapacity(nc)
	default:
		v.mux.Unlock()
		return ErrInvalidExclusion
	}
	v.criteria.Exclusions = exclusions
	v.page = 1
	v.mux.Unlock()
	return v.refetch(ctx)
}

// Search records a new free-text term and moves back to the first page. With
// server search on, the reload is debounced; otherwise the loaded orders are
// refined locally right away.
func (v *View) Search(term string) {
	v.mux.Lock()
	v.criteria.Search = term
	v.page = 1
	serverSearch := v.criteria.ServerSearch
	v.mux.Unlock()

	if serverSearch {
		v.scheduleRefetch()
	}
}

// SetServerSearch switches between backend search and local refinement.
func (v *View) SetServerSearch(enabled bool) {
	v.mux.Lock()
	changed := v.criteria.ServerSearch != enabled
	v.criteria.ServerSearch = enabled
	hasTerm := strings.TrimSpace(v.criteria.Search) != ""
	v.mux.Unlock()

	if changed && hasTerm {
		v.scheduleRefetch()
	}
}

func (v *View) scheduleRefetch() {
	v.debouncer.Schedule(func(ctx context.Context) {
		if err := v.refetch(ctx); err != nil && ctx.Err() == nil {
			v.logger.WarnCtx(v.logCtx(ctx), "debounced refetch failed", zap.Error(err))
		}
	})
}

func (v *View) SetPage(page int) int {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.page = ClampPage(page, PageCount(len(v.filteredLocked()), v.cfg.PageSize))
	return v.page
}

// filteredLocked is the selector for the refined collection.
func (v *View) filteredLocked() []data.Order {
	all := v.store.All()
	term := strings.TrimSpace(v.criteria.Search)
	if v.criteria.ServerSearch || term == "" {
		return all
	}
	res := make([]data.Order, 0, len(all))
	for _, order := range all {
		if MatchesSearch(order, term) {
			res = append(res, order)
		}
	}
	return res
}

func (v *View) displayedLocked() []data.Order {
	filtered := v.filteredLocked()
	page := ClampPage(v.page, PageCount(len(filtered), v.cfg.PageSize))
	start, end := pageBounds(page, v.cfg.PageSize, len(filtered))
	return filtered[start:end]
}

func parseCapacity(value string) (float64, bool) {
	capacity, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || capacity < 0 {
		return 0, false
	}
	return capacity, true
}
