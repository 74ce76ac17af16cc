// Package remote implements the story store's HTTP/JSON contract.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/core/domain"
	"github.com/hackorsnooze/story-client/internal/core/ports"
	"github.com/hackorsnooze/story-client/internal/pkg/metrics"
)

// DefaultBaseURL is the public instance of the story store.
const DefaultBaseURL = "https://hack-or-snooze-v3.herokuapp.com"

const maxErrorBody = 64 << 10

// Config captures the settings of the store client.
type Config struct {
	BaseURL string
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the remote story store. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ ports.RemoteStore = (*Client)(nil)

// New returns a Client. A nil httpClient is replaced by one honouring
// cfg.Timeout.
func New(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: base, http: httpClient, logger: logger}
}

func (c *Client) ListStories(ctx context.Context) ([]domain.Story, error) {
	var res storiesResponse
	if err := c.do(ctx, "list_stories", http.MethodGet, "/stories", nil, nil, &res); err != nil {
		return nil, err
	}
	return toStories(res.Stories), nil
}

func (c *Client) CreateStory(ctx context.Context, token string, story domain.NewStory) (domain.Story, error) {
	body := createStoryBody{
		Token: token,
		Story: newStoryFields{Author: story.Author, Title: story.Title, URL: story.URL},
	}
	var res storyResponse
	if err := c.do(ctx, "create_story", http.MethodPost, "/stories", nil, body, &res); err != nil {
		return domain.Story{}, err
	}
	return res.Story.toDomain(), nil
}

func (c *Client) DeleteStory(ctx context.Context, token, storyID string) (domain.Story, error) {
	var res storyResponse
	path := "/stories/" + url.PathEscape(storyID)
	if err := c.do(ctx, "delete_story", http.MethodDelete, path, nil, tokenBody{Token: token}, &res); err != nil {
		return domain.Story{}, err
	}
	return res.Story.toDomain(), nil
}

func (c *Client) Signup(ctx context.Context, username, password, name string) (domain.UserProfile, string, error) {
	body := credentialsBody{User: credentialsFields{Username: username, Password: password, Name: name}}
	var res authResponse
	if err := c.do(ctx, "signup", http.MethodPost, "/signup", nil, body, &res); err != nil {
		return domain.UserProfile{}, "", err
	}
	return res.User.toDomain(), res.Token, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (domain.UserProfile, string, error) {
	body := credentialsBody{User: credentialsFields{Username: username, Password: password}}
	var res authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", nil, body, &res); err != nil {
		return domain.UserProfile{}, "", err
	}
	return res.User.toDomain(), res.Token, nil
}

func (c *Client) GetUser(ctx context.Context, token, username string) (domain.UserProfile, error) {
	var res userResponse
	path := "/users/" + url.PathEscape(username)
	if err := c.do(ctx, "get_user", http.MethodGet, path, url.Values{"token": {token}}, nil, &res); err != nil {
		return domain.UserProfile{}, err
	}
	return res.User.toDomain(), nil
}

func (c *Client) AddFavorite(ctx context.Context, token, username, storyID string) ([]domain.Story, error) {
	return c.favorite(ctx, "add_favorite", http.MethodPost, token, username, storyID)
}

func (c *Client) RemoveFavorite(ctx context.Context, token, username, storyID string) ([]domain.Story, error) {
	return c.favorite(ctx, "remove_favorite", http.MethodDelete, token, username, storyID)
}

func (c *Client) favorite(ctx context.Context, op, method, token, username, storyID string) ([]domain.Story, error) {
	var res favoritesResponse
	path := "/users/" + url.PathEscape(username) + "/favorites/" + url.PathEscape(storyID)
	if err := c.do(ctx, op, method, path, nil, tokenBody{Token: token}, &res); err != nil {
		return nil, err
	}
	return toStories(res.User.Favorites), nil
}

// do performs one exchange. Failures come back as *domain.RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		metrics.RemoteRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("operation", op).Msg("request failed")
		return &domain.RemoteError{Kind: domain.ErrRemoteUnavailable, Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return c.statusError(op, res)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		c.logger.Error().Err(err).Str("operation", op).Msg("response body unmarshaling error")
		return &domain.RemoteError{Kind: domain.ErrRemoteUnavailable, Status: res.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

func (c *Client) statusError(op string, res *http.Response) error {
	content, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

	message := http.StatusText(res.StatusCode)
	var envelope errorResponse
	if json.Unmarshal(content, &envelope) == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	kind := kindOf(res.StatusCode)
	event := c.logger.Warn()
	if errors.Is(kind, domain.ErrRemoteUnavailable) {
		event = c.logger.Error()
	}
	event.Str("operation", op).Int("status", res.StatusCode).Str("message", message).Msg("store rejected request")

	return &domain.RemoteError{Kind: kind, Status: res.StatusCode, Message: message}
}

// kindOf maps an unsuccessful status to the error taxonomy.
func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuth
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrRemoteUnavailable
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAuth):
		return "auth"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}

// Ping checks that the store answers a minimal listing.
func (c *Client) Ping(ctx context.Context) error {
	var res storiesResponse
	return c.do(ctx, "ping", http.MethodGet, "/stories", url.Values{"limit": {"1"}}, nil, &res)
}
