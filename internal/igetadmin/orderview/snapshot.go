package orderview

import (
	"errors"
	"time"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/internal/igetadmin/igetapi"
	"iget-admin/internal/igetadmin/statuscheck"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the transient banner. Success notices expire on their own,
// errors stay until dismissed or replaced.
type Notice struct {
	ExpiresAt time.Time  `json:"expiresAt,omitempty"`
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
}

type Row struct {
	Order           data.Order           `json:"order"`
	External        *data.ExternalStatus `json:"external,omitempty"`
	DisplayName     string               `json:"displayName"`
	DisplayedStatus data.Status          `json:"displayedStatus"`
	Eligible        bool                 `json:"eligible"`
	Checking        bool                 `json:"checking"`
	Selected        bool                 `json:"selected"`
}

type Snapshot struct {
	Notice         *Notice  `json:"notice,omitempty"`
	Rows           []Row    `json:"rows"`
	Selected       []string `json:"selected"`
	Criteria       Criteria `json:"criteria"`
	Page           int      `json:"page"`
	PageCount      int      `json:"pageCount"`
	PageSize       int      `json:"pageSize"`
	FilteredCount  int      `json:"filteredCount"`
	LoadedCount    int      `json:"loadedCount"`
	ServerPage     int      `json:"serverPage"`
	ServerPages    int      `json:"serverPages"`
	ServerTotal    int      `json:"serverTotal"`
	HasMore        bool     `json:"hasMore"`
	Loading        bool     `json:"loading"`
	BulkInProgress bool     `json:"bulkInProgress"`
}

func (v *View) Snapshot() Snapshot {
	v.mux.Lock()
	defer v.mux.Unlock()

	filtered := v.filteredLocked()
	pages := PageCount(len(filtered), v.cfg.PageSize)
	page := ClampPage(v.page, pages)
	start, end := pageBounds(page, v.cfg.PageSize, len(filtered))

	rows := make([]Row, 0, end-start)
	for _, order := range filtered[start:end] {
		rows = append(rows, v.rowLocked(order))
	}

	return Snapshot{
		Notice:         v.activeNoticeLocked(),
		Rows:           rows,
		Selected:       v.selection.Items(),
		Criteria:       v.criteria,
		Page:           page,
		PageCount:      pages,
		PageSize:       v.cfg.PageSize,
		FilteredCount:  len(filtered),
		LoadedCount:    v.store.Len(),
		ServerPage:     v.serverPage,
		ServerPages:    v.serverPages,
		ServerTotal:    v.serverTotal,
		HasMore:        v.serverPage < v.serverPages,
		Loading:        v.loading > 0,
		BulkInProgress: v.bulkInProgress,
	}
}

func (v *View) rowLocked(order data.Order) Row {
	row := Row{
		Order:       order,
		DisplayName: order.DisplayName(),
		Eligible:    statuscheck.Eligible(order),
		Selected:    v.selection.Contains(order.ID),
	}
	if v.tracker != nil {
		if record, ok := v.tracker.Record(order.ID); ok {
			row.External = &record
		}
		row.Checking = v.tracker.Checking(order.ID)
	}
	row.DisplayedStatus = statuscheck.DisplayedStatus(order, row.External)
	return row
}

func (v *View) activeNoticeLocked() *Notice {
	if v.notice == nil {
		return nil
	}
	if !v.notice.ExpiresAt.IsZero() && !v.now().Before(v.notice.ExpiresAt) {
		v.notice = nil
		return nil
	}
	notice := *v.notice
	return &notice
}

func (v *View) DismissNotice() {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.notice = nil
}

func (v *View) setSuccessLocked(message string) {
	v.notice = &Notice{
		Kind:      NoticeSuccess,
		Message:   message,
		ExpiresAt: v.now().Add(v.cfg.NoticeTTL),
	}
}

func (v *View) setErrorLocked(err error) {
	v.notice = &Notice{
		Kind:    NoticeError,
		Message: UserMessage(err),
	}
}

// UserMessage turns an error into banner text: local validation errors as is,
// backend errors with the backend's own message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBulkInProgress), errors.Is(err, ErrNoMorePages):
		return err.Error()
	case errors.Is(err, statuscheck.ErrIneligible):
		return "Only MTN up2u orders with a reference can be checked"
	}
	return igetapi.Message(err)
}
