package idp

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/authcore/internal/ids"
)

const (
	defaultHTTPTimeout  = 10 * time.Second
	defaultMaxIdleConns = 100 // http.max-connections
)

// AdminAuthStrategy selects how a RealmAdapter authenticates admin calls.
type AdminAuthStrategy int

const (
	// AdminAuthMasterRealm authenticates admin username/password against
	// the provider's master realm.
	AdminAuthMasterRealm AdminAuthStrategy = iota
	// AdminAuthClientCredentials authenticates via client-credentials
	// against the target realm itself.
	AdminAuthClientCredentials
)

// ClientConfig configures the process-wide Client.
type ClientConfig struct {
	AdminAuthStrategy AdminAuthStrategy

	AdminRealm        string // provider.admin-realm, typically "master"
	AdminClientID     string // provider.admin-client-id
	AdminClientSecret string // provider.admin-client-secret
	AdminUsername     string
	AdminPassword     string

	HTTPTimeout  time.Duration
	MaxIdleConns int // http.max-connections, default 100
}

// Client owns the single pooled HTTP client shared by every realm adapter
// and the sync.Map of per-realm adapter instances (duplicate
// construction under concurrency is idempotent and requires no locking).
type Client struct {
	httpClient    *http.Client
	cfg           ClientConfig
	realmAdapters sync.Map // ids.ID -> *RealmAdapter
}

// NewClient constructs a Client with a connection-pooled HTTP transport.
func NewClient(cfg ClientConfig) *Client {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	maxConns := cfg.MaxIdleConns
	if maxConns <= 0 {
		maxConns = defaultMaxIdleConns
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        maxConns,
				MaxIdleConnsPerHost: maxConns,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cfg: cfg,
	}
}

// normalizeURL strips a trailing "/auth" segment to accommodate both
// older and newer provider server-URL layouts.
func normalizeURL(serverURL string) string {
	u := strings.TrimRight(serverURL, "/")
	return strings.TrimSuffix(u, "/auth")
}

// RealmAdapterFor returns the cached adapter for realmID, constructing one
// on first use. A losing concurrent build is discarded, never referenced
// again, and never closes shared state — construction has no side effects
// beyond allocating the struct.
func (c *Client) RealmAdapterFor(realmID ids.ID, serverURL, realmName, clientID, clientSecret string) *RealmAdapter {
	if v, ok := c.realmAdapters.Load(realmID); ok {
		return v.(*RealmAdapter)
	}

	ra := &RealmAdapter{
		client:       c,
		baseURL:      normalizeURL(serverURL),
		realmName:    realmName,
		clientID:     clientID,
		clientSecret: clientSecret,
	}

	actual, _ := c.realmAdapters.LoadOrStore(realmID, ra)
	return actual.(*RealmAdapter)
}

// RealmAdapterWithSecret is RealmAdapterFor for callers holding a freshly
// unsealed client secret: it always (re)stores the cache entry so a realm
// first touched by admin provisioning (no secret needed) is upgraded once a
// caller resolves the real one, rather than being stuck with an adapter
// that can never authenticate as a confidential client.
func (c *Client) RealmAdapterWithSecret(realmID ids.ID, serverURL, realmName, clientID, clientSecret string) *RealmAdapter {
	ra := &RealmAdapter{
		client:       c,
		baseURL:      normalizeURL(serverURL),
		realmName:    realmName,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	c.realmAdapters.Store(realmID, ra)
	return ra
}

// InvalidateRealmAdapter drops the cached adapter for realmID, forcing the
// next RealmAdapterFor call to rebuild it (e.g. after a client-secret
// rotation).
func (c *Client) InvalidateRealmAdapter(realmID ids.ID) {
	c.realmAdapters.Delete(realmID)
}

// RealmAdapter is the per-realm handle for both the OIDC and Admin
// surfaces, holding the realm's normalized base URL and client
// credentials.
type RealmAdapter struct {
	client       *Client
	baseURL      string
	realmName    string
	clientID     string
	clientSecret string
}

func (r *RealmAdapter) realmURL(path string) string {
	return r.baseURL + "/realms/" + r.realmName + path
}

func (r *RealmAdapter) adminURL(path string) string {
	return r.baseURL + "/admin/realms/" + r.realmName + path
}
