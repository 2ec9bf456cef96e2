package hostcomm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/loomhq/loom/pkg/logging"
	"github.com/loomhq/loom/pkg/types"
)

// Callbacks are the app-side reactions to host messages. Unset callbacks are
// skipped; state fields are updated either way. All callbacks run outside
// the manager's lock.
type Callbacks struct {
	CloseModal              func()
	StopScript              func()
	RerunScript             func(pageScriptHash string)
	ClearCache              func()
	RequestPageChange       func(pageScriptHash string)
	AuthTokenSet            func()
	IsOwnerChanged          func(isOwner bool)
	MenuItemsChanged        func(items []types.MenuItem)
	MetadataChanged         func(metadata types.DeployedAppMetadata)
	PageLinkBaseURLChanged  func(url string)
	SidebarDownshiftChanged func(downshift int)
	SidebarNavHiddenChanged func(hidden bool)
	ToolbarItemsChanged     func(items []types.ToolbarItem)
	QueryParamsChanged      func(queryParams string)
	HashChanged             func(hash string)
	ThemeConfigChanged      func(theme map[string]any)
}

// State is the host-supplied metadata the manager retains. Every field is
// write-once-per-message, last-write-wins; no history is kept.
type State struct {
	IsOwner                 bool
	MenuItems               []types.MenuItem
	Metadata                types.DeployedAppMetadata
	PageLinkBaseURL         string
	SidebarChevronDownshift int
	SidebarNavHidden        bool
	ToolbarItems            []types.ToolbarItem
	QueryParams             string
	Hash                    string
	ThemeConfig             map[string]any
}

// Props configures a Manager.
type Props struct {
	Callbacks Callbacks
	Transport Transport

	// ExtraAllowedOrigins extends the backend manifest's allow-list with
	// locally-configured patterns.
	ExtraAllowedOrigins []string

	// Logger is optional; a discard logger is used when nil.
	Logger *logging.Logger
}

// Manager is the single per-session object speaking the host protocol.
// Lifecycle: constructed unarmed; Open arms it with the allow-listed origins
// and announces GUEST_READY; after that HandleMessage dispatches inbound
// envelopes. Anything arriving before Open is dropped.
type Manager struct {
	mu                   sync.Mutex
	open                 bool
	matcher              *originMatcher
	extraOrigins         []string
	authToken            *Deferred[*string]
	useExternalAuthToken bool
	state                State

	callbacks Callbacks
	transport Transport
	logger    *logging.Logger
}

// NewManager creates an unarmed manager.
func NewManager(props Props) *Manager {
	logger := props.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		authToken:    NewDeferred[*string](),
		extraOrigins: props.ExtraAllowedOrigins,
		callbacks:    props.Callbacks,
		transport:    props.Transport,
		logger:       logger,
	}
}

// Open arms the manager with the backend's origins manifest, resolves the
// auth token to "none" when the host advertises no external token, and
// announces GUEST_READY.
func (m *Manager) Open(manifest OriginsManifest) error {
	m.mu.Lock()
	patterns := append(append([]string(nil), manifest.AllowedOrigins...), m.extraOrigins...)
	matcher, rejected := newOriginMatcher(patterns)
	m.matcher = matcher
	m.useExternalAuthToken = manifest.UseExternalAuthToken
	m.open = true
	token := m.authToken
	m.mu.Unlock()

	for _, pattern := range rejected {
		m.logger.Warnf("skipping unparseable origin pattern %q", pattern)
	}
	if !manifest.UseExternalAuthToken {
		token.Resolve(nil)
	}

	return m.Send(types.GuestMessage{Type: types.GuestMsgReady})
}

// Run pumps the transport's inbound channel into HandleMessage until the
// context ends or the transport closes.
func (m *Manager) Run(ctx context.Context) {
	inbox := m.transport.Receive()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbox:
			if !ok {
				return
			}
			m.HandleMessage(msg.Origin, msg.Payload)
		}
	}
}

// HandleMessage validates and dispatches one inbound envelope. Messages are
// dropped, with zero observable side effects, when the manager is not yet
// open, the envelope does not parse, the protocol version mismatches, or
// the origin is not allow-listed. Unknown message types fall through to a
// no-op.
func (m *Manager) HandleMessage(origin string, payload []byte) {
	m.mu.Lock()
	open := m.open
	matcher := m.matcher
	m.mu.Unlock()

	if !open {
		m.logger.Debugf("dropping message from %s: host communication not open", origin)
		return
	}

	var msg types.HostMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		m.logger.Debugf("dropping unparseable message from %s", origin)
		return
	}
	if msg.StCommVersion != types.HostCommVersion {
		m.logger.Debugf("dropping message type %s from %s: version %d", msg.Type, origin, msg.StCommVersion)
		return
	}
	if !matcher.matches(origin) {
		m.logger.Debugf("dropping message type %s from untrusted origin %s", msg.Type, origin)
		return
	}

	m.dispatch(msg)
}

func (m *Manager) dispatch(msg types.HostMessage) {
	switch msg.Type {
	case types.HostMsgCloseModal:
		if m.callbacks.CloseModal != nil {
			m.callbacks.CloseModal()
		}

	case types.HostMsgStopScript:
		if m.callbacks.StopScript != nil {
			m.callbacks.StopScript()
		}

	case types.HostMsgRerunScript:
		if m.callbacks.RerunScript != nil {
			m.callbacks.RerunScript(msg.PageScriptHash)
		}

	case types.HostMsgClearCache:
		if m.callbacks.ClearCache != nil {
			m.callbacks.ClearCache()
		}

	case types.HostMsgRequestPageChange:
		if m.callbacks.RequestPageChange != nil {
			m.callbacks.RequestPageChange(msg.PageScriptHash)
		}

	case types.HostMsgSetAuthToken:
		m.mu.Lock()
		token := m.authToken
		m.mu.Unlock()
		value := msg.AuthToken
		// Resolving twice is a harmless no-op.
		token.Resolve(&value)
		if m.callbacks.AuthTokenSet != nil {
			m.callbacks.AuthTokenSet()
		}

	case types.HostMsgSetIsOwner:
		m.mu.Lock()
		m.state.IsOwner = msg.IsOwner
		m.mu.Unlock()
		if m.callbacks.IsOwnerChanged != nil {
			m.callbacks.IsOwnerChanged(msg.IsOwner)
		}

	case types.HostMsgSetMenuItems:
		m.mu.Lock()
		m.state.MenuItems = msg.MenuItems
		m.mu.Unlock()
		if m.callbacks.MenuItemsChanged != nil {
			m.callbacks.MenuItemsChanged(msg.MenuItems)
		}

	case types.HostMsgSetMetadata:
		if msg.Metadata == nil {
			return
		}
		m.mu.Lock()
		m.state.Metadata = *msg.Metadata
		m.mu.Unlock()
		if m.callbacks.MetadataChanged != nil {
			m.callbacks.MetadataChanged(*msg.Metadata)
		}

	case types.HostMsgSetPageLinkBaseURL:
		m.mu.Lock()
		m.state.PageLinkBaseURL = msg.PageLinkBaseURL
		m.mu.Unlock()
		if m.callbacks.PageLinkBaseURLChanged != nil {
			m.callbacks.PageLinkBaseURLChanged(msg.PageLinkBaseURL)
		}

	case types.HostMsgSetSidebarChevronDownshift:
		m.mu.Lock()
		m.state.SidebarChevronDownshift = msg.SidebarDownshift
		m.mu.Unlock()
		if m.callbacks.SidebarDownshiftChanged != nil {
			m.callbacks.SidebarDownshiftChanged(msg.SidebarDownshift)
		}

	case types.HostMsgSetSidebarNavVisibility:
		m.mu.Lock()
		m.state.SidebarNavHidden = msg.Hidden
		m.mu.Unlock()
		if m.callbacks.SidebarNavHiddenChanged != nil {
			m.callbacks.SidebarNavHiddenChanged(msg.Hidden)
		}

	case types.HostMsgSetToolbarItems:
		m.mu.Lock()
		m.state.ToolbarItems = msg.ToolbarItems
		m.mu.Unlock()
		if m.callbacks.ToolbarItemsChanged != nil {
			m.callbacks.ToolbarItemsChanged(msg.ToolbarItems)
		}

	case types.HostMsgUpdateFromQueryParams:
		m.mu.Lock()
		m.state.QueryParams = msg.QueryParams
		m.mu.Unlock()
		if m.callbacks.QueryParamsChanged != nil {
			m.callbacks.QueryParamsChanged(msg.QueryParams)
		}
		// New query params re-execute the script.
		if m.callbacks.RerunScript != nil {
			m.callbacks.RerunScript("")
		}

	case types.HostMsgUpdateHash:
		m.mu.Lock()
		m.state.Hash = msg.Hash
		m.mu.Unlock()
		if m.callbacks.HashChanged != nil {
			m.callbacks.HashChanged(msg.Hash)
		}

	case types.HostMsgSetCustomThemeConfig:
		m.mu.Lock()
		m.state.ThemeConfig = msg.ThemeInfo
		m.mu.Unlock()
		if m.callbacks.ThemeConfigChanged != nil {
			m.callbacks.ThemeConfigChanged(msg.ThemeInfo)
		}

	default:
		m.logger.Debugf("ignoring unknown host message type %q", msg.Type)
	}
}

// Send stamps a guest message with the protocol version and delivers it
// through the transport, fire-and-forget.
func (m *Manager) Send(msg types.GuestMessage) error {
	msg.StCommVersion = types.HostCommVersion
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize guest message: %w", err)
	}
	return m.transport.Send(payload)
}

// SendFrameHeight reports the rendered frame height to the host.
func (m *Manager) SendFrameHeight(height float64) error {
	return m.Send(types.GuestMessage{Type: types.GuestMsgSetFrameHeight, Height: height})
}

// SendPageFavicon asks the host to set the page favicon.
func (m *Manager) SendPageFavicon(favicon string) error {
	return m.Send(types.GuestMessage{Type: types.GuestMsgSetPageFavicon, Favicon: favicon})
}

// SendPageTitle asks the host to set the page title.
func (m *Manager) SendPageTitle(title string) error {
	return m.Send(types.GuestMessage{Type: types.GuestMsgSetPageTitle, Title: title})
}

// SendUpdateHash asks the host to update the location hash.
func (m *Manager) SendUpdateHash(hash string) error {
	return m.Send(types.GuestMessage{Type: types.GuestMsgUpdateHash, Hash: hash})
}

// SendWidgetValue mirrors a widget value to the host.
func (m *Manager) SendWidgetValue(widgetID string, value any) error {
	return m.Send(types.GuestMessage{Type: types.GuestMsgSetWidgetValue, WidgetID: widgetID, Value: value})
}

// AuthToken returns the current deferred auth token. A nil resolved value
// means the host requires no external token.
func (m *Manager) AuthToken() *Deferred[*string] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authToken
}

// ResetAuthToken discards the consumed deferred and arms a fresh one, so a
// reconnect can request a new token without stale-promise reuse. When the
// manifest declared no external token, the fresh deferred resolves to
// "none" immediately.
func (m *Manager) ResetAuthToken() {
	m.mu.Lock()
	m.authToken = NewDeferred[*string]()
	token := m.authToken
	resolveNow := m.open && !m.useExternalAuthToken
	m.mu.Unlock()

	if resolveNow {
		token.Resolve(nil)
	}
}

// ClaimAuthToken waits for the token and re-arms the deferred for the next
// consumer. This is the one await point gating backend-connection
// establishment; ctx bounds the wait.
func (m *Manager) ClaimAuthToken(ctx context.Context) (*string, error) {
	token, err := m.AuthToken().Wait(ctx)
	if err != nil {
		return nil, err
	}
	m.ResetAuthToken()
	return token, nil
}

// State returns a snapshot of the host-supplied metadata.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state
	snapshot.MenuItems = append([]types.MenuItem(nil), m.state.MenuItems...)
	snapshot.ToolbarItems = append([]types.ToolbarItem(nil), m.state.ToolbarItems...)
	if m.state.ThemeConfig != nil {
		theme := make(map[string]any, len(m.state.ThemeConfig))
		for k, v := range m.state.ThemeConfig {
			theme[k] = v
		}
		snapshot.ThemeConfig = theme
	}
	return snapshot
}
