package types

// HostCommVersion is the protocol version stamped on every message exchanged
// with the embedding host. Inbound messages carrying any other version are
// dropped without processing.
const HostCommVersion = 1

// HostMessageType tags a message sent by the embedding host page.
type HostMessageType string

const (
	HostMsgCloseModal                 HostMessageType = "CLOSE_MODAL"                   // HostMsgCloseModal dismisses any open modal dialog.
	HostMsgStopScript                 HostMessageType = "STOP_SCRIPT"                   // HostMsgStopScript interrupts the running backend script.
	HostMsgRerunScript                HostMessageType = "RERUN_SCRIPT"                  // HostMsgRerunScript requests a rerun, optionally of a specific page.
	HostMsgClearCache                 HostMessageType = "CLEAR_CACHE"                   // HostMsgClearCache clears the backend's memoization caches.
	HostMsgRequestPageChange          HostMessageType = "REQUEST_PAGE_CHANGE"           // HostMsgRequestPageChange navigates to another page script.
	HostMsgSetAuthToken               HostMessageType = "SET_AUTH_TOKEN"                // HostMsgSetAuthToken resolves the pending auth-token wait.
	HostMsgSetIsOwner                 HostMessageType = "SET_IS_OWNER"                  // HostMsgSetIsOwner marks the viewer as the app owner.
	HostMsgSetMenuItems               HostMessageType = "SET_MENU_ITEMS"                // HostMsgSetMenuItems replaces the injected menu items.
	HostMsgSetMetadata                HostMessageType = "SET_METADATA"                  // HostMsgSetMetadata sets deployed-app metadata.
	HostMsgSetPageLinkBaseURL         HostMessageType = "SET_PAGE_LINK_BASE_URL"        // HostMsgSetPageLinkBaseURL sets the base URL used for page links.
	HostMsgSetSidebarChevronDownshift HostMessageType = "SET_SIDEBAR_CHEVRON_DOWNSHIFT" // HostMsgSetSidebarChevronDownshift offsets the sidebar collapse control.
	HostMsgSetSidebarNavVisibility    HostMessageType = "SET_SIDEBAR_NAV_VISIBILITY"    // HostMsgSetSidebarNavVisibility shows or hides the sidebar nav.
	HostMsgSetToolbarItems            HostMessageType = "SET_TOOLBAR_ITEMS"             // HostMsgSetToolbarItems replaces the injected toolbar items.
	HostMsgUpdateFromQueryParams      HostMessageType = "UPDATE_FROM_QUERY_PARAMS"      // HostMsgUpdateFromQueryParams replaces query params and triggers a rerun.
	HostMsgUpdateHash                 HostMessageType = "UPDATE_HASH"                   // HostMsgUpdateHash mutates the location hash.
	HostMsgSetCustomThemeConfig       HostMessageType = "SET_CUSTOM_THEME_CONFIG"       // HostMsgSetCustomThemeConfig applies a host-supplied theme.
)

// MenuItem is one host-injected entry in the app menu. Type is either
// "text" (Label + Key) or "separator".
type MenuItem struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Key   string `json:"key,omitempty"`
}

// ToolbarItem is one host-injected toolbar action.
type ToolbarItem struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// DeployedAppMetadata carries host-supplied information about where the app
// is deployed.
type DeployedAppMetadata struct {
	HostedAppID string `json:"hostedAppId,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Repo        string `json:"repo,omitempty"`
	Branch      string `json:"branch,omitempty"`
	MainModule  string `json:"mainModule,omitempty"`
}

// HostMessage is the inbound envelope from the embedding host. It is a
// closed tagged union keyed by Type; only the fields relevant to that type
// are populated. Unknown types are ignored by the dispatcher.
type HostMessage struct {
	StCommVersion int             `json:"stCommVersion"`
	Type          HostMessageType `json:"type"`

	PageScriptHash   string               `json:"pageScriptHash,omitempty"`
	AuthToken        string               `json:"authToken,omitempty"`
	IsOwner          bool                 `json:"isOwner,omitempty"`
	MenuItems        []MenuItem           `json:"items,omitempty"`
	Metadata         *DeployedAppMetadata `json:"metadata,omitempty"`
	PageLinkBaseURL  string               `json:"pageLinkBaseUrl,omitempty"`
	SidebarDownshift int                  `json:"sidebarChevronDownshift,omitempty"`
	Hidden           bool                 `json:"hidden,omitempty"`
	ToolbarItems     []ToolbarItem        `json:"toolbarItems,omitempty"`
	QueryParams      string               `json:"queryParams,omitempty"`
	Hash             string               `json:"hash,omitempty"`
	ThemeInfo        map[string]any       `json:"themeInfo,omitempty"`
}

// GuestMessageType tags a message sent from the app to the embedding host.
type GuestMessageType string

const (
	GuestMsgReady          GuestMessageType = "GUEST_READY"      // GuestMsgReady announces the app is listening.
	GuestMsgSetWidgetValue GuestMessageType = "SET_WIDGET_VALUE" // GuestMsgSetWidgetValue mirrors a widget value to the host.
	GuestMsgSetFrameHeight GuestMessageType = "SET_FRAME_HEIGHT" // GuestMsgSetFrameHeight reports the rendered frame height.
	GuestMsgSetPageFavicon GuestMessageType = "SET_PAGE_FAVICON" // GuestMsgSetPageFavicon sets the embedding page's favicon.
	GuestMsgSetPageTitle   GuestMessageType = "SET_PAGE_TITLE"   // GuestMsgSetPageTitle sets the embedding page's title.
	GuestMsgUpdateHash     GuestMessageType = "UPDATE_HASH"      // GuestMsgUpdateHash asks the host to update the location hash.
)

// GuestMessage is the outbound envelope to the embedding host. Every message
// is stamped with HostCommVersion and sent fire-and-forget.
type GuestMessage struct {
	StCommVersion int              `json:"stCommVersion"`
	Type          GuestMessageType `json:"type"`

	WidgetID string  `json:"widgetId,omitempty"`
	Value    any     `json:"value,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Favicon  string  `json:"favicon,omitempty"`
	Title    string  `json:"title,omitempty"`
	Hash     string  `json:"hash,omitempty"`
}
