package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"typerace/game/service"
	"typerace/storage"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Typerace Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Typerace Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Typerace hosts real-time two-player typing races over websockets. Players
create six-character room codes, share them, and race through the same
50-word text; this interface covers the read-only and account operations.

AVAILABLE TOOLS:
- list_rooms: List live race rooms with their status and players
- get_leaderboard: Ranked solo results (filter by mode and period)
- generate_words: Produce a practice word list from the race corpus
- create_guest: Create a guest account and token for API/websocket use

Races themselves run over the websocket protocol at /ws, not over MCP.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live race rooms with their codes, status and players",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_leaderboard",
		Description: "Get ranked solo race results, ordered by accuracy-weighted WPM",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"timed", "word-count", "instant-death"},
					"description": "Game mode filter (optional)",
				},
				"period": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"daily", "weekly", "monthly", "all"},
					"description": "Time window (default all)",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (1-based)",
				},
				"page_size": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (max 100)",
				},
			},
		},
	}, c.handleGetLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_words",
		Description: "Generate a shuffled practice word list from the race corpus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of words (default 50)",
				},
			},
		},
	}, c.handleGenerateWords)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_guest",
		Description: "Create a guest account and return its token for API and websocket use",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"username": map[string]interface{}{
					"type":        "string",
					"description": "Display name (optional, a Guest_NNNN name is synthesized otherwise)",
				},
			},
		},
	}, c.handleCreateGuest)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Rooms []service.RoomInfo `json:"rooms"`
	}

	err := c.apiCall("GET", "/api/rooms", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No live rooms."), nil
	}

	result := fmt.Sprintf("Live Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		players := r.HostUsername
		if r.GuestUsername != "" {
			players += " vs " + r.GuestUsername
		}
		result += fmt.Sprintf("- %s [%s] %s (created %s)\n",
			r.Code, r.Status, players, r.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	params := url.Values{}
	if mode, ok := args["mode"].(string); ok && mode != "" {
		params.Set("mode", mode)
	}
	if period, ok := args["period"].(string); ok && period != "" {
		params.Set("period", period)
	}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if size, ok := args["page_size"].(float64); ok {
		params.Set("page_size", fmt.Sprintf("%d", int(size)))
	}

	path := "/api/leaderboard"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page service.LeaderboardPage
	err := c.apiCall("GET", path, nil, &page)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(page.Entries) == 0 {
		return mcp.NewToolResultText("Leaderboard is empty for this selection."), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Leaderboard (page %d):\n\n", page.Page))
	for _, e := range page.Entries {
		b.WriteString(fmt.Sprintf("%d. %s — %.1f WPM, %.1f%% accuracy (%s, %.1f effective)\n",
			e.Rank, e.PlayerUsername, e.WPM, e.Accuracy, e.GameMode, e.EffectiveWPM))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGenerateWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	path := "/api/words"
	if count, ok := args["count"].(float64); ok && count > 0 {
		path += fmt.Sprintf("?count=%d", int(count))
	}

	var response struct {
		Count int      `json:"count"`
		Words []string `json:"words"`
	}
	err := c.apiCall("GET", path, nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Generated %d words:\n\n%s", response.Count, strings.Join(response.Words, " "))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateGuest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	username, _ := args["username"].(string)

	body := map[string]string{}
	if username != "" {
		body["username"] = username
	}

	var session struct {
		Token string       `json:"token"`
		User  storage.User `json:"user"`
	}
	err := c.apiCall("POST", "/api/auth/guest", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created guest: %s\nID: %s\nToken: %s\n",
		session.User.Username, session.User.ID, session.Token)
	return mcp.NewToolResultText(result), nil
}
