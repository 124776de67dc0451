package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/retry"
)

// Role names assigned after a profile is created.
const (
	RoleLandlord = "Landlord"
	RoleTenant   = "Tenant"
)

const opToken = "obtain management token"

// ErrRoleNotFound is returned when no role with the requested name exists at the provider.
var ErrRoleNotFound = errors.New("role not found")

// UpstreamError is a non-2xx response from the identity provider.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("identity provider %s failed with status %d", e.Op, e.Status)
}

// Role is a role defined at the identity provider.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// IIdentityClient manages roles through the identity provider's management API.
type IIdentityClient interface {
	ListRoles(ctx context.Context) ([]Role, error)
	AssignRole(ctx context.Context, userID, roleName string) error
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// identityClient implements IIdentityClient using client credentials.
type identityClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	audience     string
	policy       retry.Policy
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewIdentityClient creates a management API client for cfg.AuthDomain.
func NewIdentityClient(cfg *config.Config) IIdentityClient {
	return &identityClient{
		baseURL:      "https://" + cfg.AuthDomain,
		clientID:     cfg.AuthClientID,
		clientSecret: cfg.AuthClientSecret,
		audience:     cfg.AuthAudience,
		policy:       cfg.UpstreamPolicy(),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
	}
}

// ListRoles returns every role defined at the provider.
func (c *identityClient) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.call(ctx, "list roles", http.MethodGet, "/api/v2/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole looks roleName up and assigns it to userID.
func (c *identityClient) AssignRole(ctx context.Context, userID, roleName string) error {
	roles, err := c.ListRoles(ctx)
	if err != nil {
		return err
	}

	var roleID string
	for _, r := range roles {
		if r.Name == roleName {
			roleID = r.ID
			break
		}
	}
	if roleID == "" {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, roleName)
	}

	body := map[string][]string{"roles": {roleID}}
	path := "/api/v2/users/" + url.PathEscape(userID) + "/roles"
	if err := c.call(ctx, "assign role", http.MethodPost, path, body, nil); err != nil {
		return err
	}
	log.Printf("Assigned role %s to user %s", roleName, userID)
	return nil
}

// call performs an authenticated JSON request, retrying transport failures, 429 and 5xx.
// A 401 drops the cached token and is retried with a fresh one.
func (c *identityClient) call(ctx context.Context, op, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
	}

	return retry.Do(ctx, c.policy, func(ctx context.Context) error {
		token, err := c.managementToken(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create %s request: %w", op, err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to contact identity provider: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read %s response: %w", op, err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidateToken()
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			log.Printf("Identity provider %s returned status %d - Body: %s", op, resp.StatusCode, string(respBody))
			return &UpstreamError{Op: op, Status: resp.StatusCode, Body: string(respBody)}
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return retry.Permanent(fmt.Errorf("failed to parse %s response: %w", op, err))
			}
		}
		return nil
	}, isRetryable)
}

// managementToken returns the cached token or requests a new one.
// Tokens are refreshed a minute before they expire.
func (c *identityClient) managementToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"audience":      {c.audience},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to contact identity provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Identity provider token endpoint returned status %d", resp.StatusCode)
		return "", &UpstreamError{Op: opToken, Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", retry.Permanent(fmt.Errorf("failed to parse token response"))
	}

	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

func (c *identityClient) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch {
		case upstream.Status == http.StatusUnauthorized:
			// A rejected cached token has been dropped; a rejected client secret will not recover.
			return upstream.Op != opToken
		case upstream.Status == http.StatusTooManyRequests:
			return true
		default:
			return upstream.Status >= http.StatusInternalServerError
		}
	}
	return true
}
