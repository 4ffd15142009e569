package screen

import (
	"context"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduelevate/internal/coaching"
)

// ReportMsg delivers a coaching result to the screen that asked for it.
// Screens drop messages whose ID is not the one they are waiting on.
type ReportMsg struct {
	ID     uint64
	Report coaching.Report
}

var requestSeq atomic.Uint64

// NextRequestID returns a process-unique id for a coaching request.
func NextRequestID() uint64 {
	return requestSeq.Add(1)
}

// SubmitCmd runs req on c off the update loop. The gateway applies its own
// timeout.
func SubmitCmd(c Coach, id uint64, req coaching.Request) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return ReportMsg{ID: id, Report: coaching.Failed{Kind: req.Kind}}
		}
		return ReportMsg{ID: id, Report: c.Submit(context.Background(), req)}
	}
}
