// Package session wires one widget-state manager and one host-communication
// manager into a per-session unit, translating host messages into backend
// effects and widget pushes into rerun requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/loomhq/loom/pkg/config"
	"github.com/loomhq/loom/pkg/hostcomm"
	"github.com/loomhq/loom/pkg/logging"
	"github.com/loomhq/loom/pkg/types"
	"github.com/loomhq/loom/pkg/widgetstate"
)

// Backend is the script-execution side of a session. The session drives it
// from both directions: widget interactions push rerun requests, and host
// messages trigger stop and cache-clear operations.
type Backend interface {
	// SendRerun asks the backend to re-execute the script with the given
	// widget states.
	SendRerun(req types.RerunRequest)

	// StopScript interrupts the running script.
	StopScript()

	// ClearCache drops the backend's memoization caches.
	ClearCache()
}

// Props configures a Session.
type Props struct {
	Backend   Backend
	Transport hostcomm.Transport

	// FormsDataChanged, when set, receives every fresh forms snapshot.
	FormsDataChanged func(widgetstate.FormsData)

	// ExtraAllowedOrigins extends the manifest allow-list beyond what the
	// host config section supplies.
	ExtraAllowedOrigins []string

	// Logger is optional; a discard logger is used when nil.
	Logger *logging.Logger
}

// Session owns exactly one widget-state manager and one host-communication
// manager. There are no package-level singletons; everything a session
// touches is reachable from the struct.
type Session struct {
	widgets *widgetstate.Manager
	host    *hostcomm.Manager
	backend Backend
	logger  *logging.Logger

	mu          sync.Mutex
	queryParams string
}

// New constructs a session and wires the host callbacks into backend
// effects. The widget-state manager's rerun pushes flow through the same
// path as host-initiated reruns, so both carry the latest query params.
func New(props Props) *Session {
	logger := props.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Session{
		backend: props.Backend,
		logger:  logger,
	}

	s.widgets = widgetstate.NewManager(widgetstate.Props{
		SendRerunRequest: s.sendRerun,
		FormsDataChanged: func(data widgetstate.FormsData) {
			if props.FormsDataChanged != nil {
				props.FormsDataChanged(data)
			}
		},
		Logger: logger,
	})

	extraOrigins := append([]string(nil), props.ExtraAllowedOrigins...)
	if host := config.GetHost(); host != nil {
		extraOrigins = append(extraOrigins, host.GetExtraAllowedOrigins()...)
	}

	s.host = hostcomm.NewManager(hostcomm.Props{
		Callbacks: hostcomm.Callbacks{
			StopScript: s.backend.StopScript,
			ClearCache: s.backend.ClearCache,
			RerunScript: func(pageScriptHash string) {
				s.rerun(pageScriptHash, "")
			},
			RequestPageChange: func(pageScriptHash string) {
				s.rerun(pageScriptHash, "")
			},
			QueryParamsChanged: func(queryParams string) {
				s.mu.Lock()
				s.queryParams = queryParams
				s.mu.Unlock()
			},
		},
		Transport:           props.Transport,
		ExtraAllowedOrigins: extraOrigins,
		Logger:              logger,
	})

	return s
}

// Widgets returns the session's widget-state manager.
func (s *Session) Widgets() *widgetstate.Manager {
	return s.widgets
}

// Host returns the session's host-communication manager.
func (s *Session) Host() *hostcomm.Manager {
	return s.host
}

// Open arms the host manager with the backend's origins manifest.
func (s *Session) Open(manifest hostcomm.OriginsManifest) error {
	return s.host.Open(manifest)
}

// Run pumps host messages until the context ends or the transport closes.
func (s *Session) Run(ctx context.Context) {
	s.host.Run(ctx)
}

// sendRerun forwards a widget-initiated rerun request to the backend,
// stamping it with the current query params.
func (s *Session) sendRerun(req types.RerunRequest) {
	s.mu.Lock()
	if req.QueryParams == "" {
		req.QueryParams = s.queryParams
	}
	s.mu.Unlock()

	s.backend.SendRerun(req)
}

// rerun pushes the current top-level widget states as a rerun request for
// host-initiated reruns and page changes.
func (s *Session) rerun(pageScriptHash, fragmentID string) {
	s.sendRerun(types.RerunRequest{
		WidgetStates:   s.widgets.EncodeTopLevel(),
		PageScriptHash: pageScriptHash,
		FragmentID:     fragmentID,
	})
}

// ApplyActiveIDs marks widget state clean after a rerun result: entries for
// widgets absent from the result's active set are dropped.
func (s *Session) ApplyActiveIDs(activeIDs map[string]bool) {
	s.widgets.RemoveInactive(activeIDs)
}

// ClaimAuthToken waits for the host's auth token, bounded by the configured
// wait timeout when one is set. A nil token means the host requires no
// external token.
func (s *Session) ClaimAuthToken(ctx context.Context) (*string, error) {
	if host := config.GetHost(); host != nil {
		if timeout := host.GetTokenWaitTimeoutSeconds(); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
			defer cancel()
		}
	}
	return s.host.ClaimAuthToken(ctx)
}
