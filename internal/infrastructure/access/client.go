package access

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/courtside/internal/domain/league"
	"github.com/riskibarqy/courtside/internal/domain/user"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/riskibarqy/courtside/internal/platform/resilience"
	"github.com/riskibarqy/courtside/internal/usecase"
)

var errAccessTransient = crerr.New("access service transient failure")

// Client introspects bearer tokens and resolves league roles against the
// external access service. Successful verdicts are cached briefly so a
// scorekeeper hammering the console does not hammer the access service.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	roleURL        string
	adminKey       string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	principals     *principalCache
	roles          *roleCache
}

type Config struct {
	BaseURL        string
	IntrospectPath string
	RolePath       string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheMaxSize   int
	CircuitBreaker resilience.CircuitBreakerConfig
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxSize := cfg.CacheMaxSize
	if maxSize <= 0 {
		maxSize = 10000
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		roleURL:        buildURL(cfg.BaseURL, cfg.RolePath),
		adminKey:       strings.TrimSpace(cfg.AdminKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		principals:     newPrincipalCache(ttl, maxSize),
		roles:          newRoleCache(ttl, maxSize),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.principals.Get(cacheKey); ok {
		return principal, nil
	}

	var decoded introspectResponse
	err := c.post(ctx, c.introspectURL, introspectRequest{Token: token}, &decoded)
	if err != nil {
		return user.Principal{}, err
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	principal := user.Principal{
		UserID:      decoded.UserID,
		DisplayName: decoded.DisplayName,
		Email:       decoded.Email,
	}
	c.principals.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) ResolveRole(ctx context.Context, userID, leagueID string) (league.Role, error) {
	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return league.RoleNone, fmt.Errorf("%w: user and league are required", usecase.ErrUnauthorized)
	}

	cacheKey := userID + "|" + leagueID
	if role, ok := c.roles.Get(cacheKey); ok {
		return role, nil
	}

	var decoded roleResponse
	err := c.post(ctx, c.roleURL, roleRequest{UserID: userID, LeagueID: leagueID}, &decoded)
	if err != nil {
		if stderrors.Is(err, usecase.ErrUnauthorized) {
			return league.RoleNone, nil
		}
		return league.RoleNone, err
	}

	role := league.Role(strings.TrimSpace(decoded.Role))
	if role == "" {
		role = league.RoleNone
	}
	c.roles.Set(cacheKey, role)
	return role, nil
}

func (c *Client) post(ctx context.Context, url string, payload, out any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "access circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: access service unavailable: %v", usecase.ErrDependencyUnavailable, err)
		}
	}

	err := c.doPost(ctx, url, payload, out)
	c.recordCircuitResult(err)
	if isCircuitFailure(err) {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func (c *Client) doPost(ctx context.Context, url string, payload, out any) error {
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal access request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return crerr.Wrap(err, "create access request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request access service: %v", errAccessTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: access denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return crerr.Wrap(err, "read access response")
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "access service non-200", "status_code", resp.StatusCode, "url", url)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: status %d", errAccessTransient, resp.StatusCode)
		}
		return crerr.Newf("access request failed with status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return crerr.Wrap(err, "unmarshal access response")
	}
	return nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool   `json:"active"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type roleRequest struct {
	UserID   string `json:"user_id"`
	LeagueID string `json:"league_id"`
}

type roleResponse struct {
	Role string `json:"role"`
}
