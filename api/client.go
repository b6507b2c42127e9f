package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Client talks to a running game server. It implements service.GameService
// and service.ScoreBoard, so the terminal player and the stdio MCP server can
// use a remote server in place of a local service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ service.GameService = (*Client)(nil)
	_ service.ScoreBoard  = (*Client)(nil)
)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) NewGame(ctx context.Context, req service.NewGameRequest) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.call(ctx, http.MethodPost, "/game/new", req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Move(ctx context.Context, req service.MoveRequest) (*service.MoveResult, error) {
	var result service.MoveResult
	if err := c.call(ctx, http.MethodPost, "/game/move", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Rules(ctx context.Context) (*service.RulesInfo, error) {
	var rules service.RulesInfo
	if err := c.call(ctx, http.MethodGet, "/game/rules", nil, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (c *Client) Submit(ctx context.Context, req service.SubmitScoreRequest) (*service.ScoreEntry, error) {
	var entry service.ScoreEntry
	if err := c.call(ctx, http.MethodPost, "/scores", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) Top(ctx context.Context, query service.TopScoresQuery) ([]service.ScoreEntry, error) {
	params := url.Values{}
	if query.BoardSize != 0 {
		params.Set("board_size", strconv.Itoa(query.BoardSize))
	}
	if query.Limit != 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/scores"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Scores []service.ScoreEntry `json:"scores"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call performs one JSON request. Error responses become *APIError.
func (c *Client) call(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// decodeError turns an error response into an *APIError. Bodies that are not
// an ErrorResponse, such as a proxy's HTML page, are kept as the message.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Message = fmt.Sprintf("API error: %d (reading body: %v)", resp.StatusCode, err)
		return apiErr
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
		apiErr.Type = errResp.Type
		apiErr.Message = errResp.Error
		return apiErr
	}

	if text := strings.TrimSpace(string(data)); text != "" {
		apiErr.Message = fmt.Sprintf("API error: %d: %s", resp.StatusCode, text)
	}
	return apiErr
}
