package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2exd/suit-streak-server/internal/api"
	"github.com/2exd/suit-streak-server/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
	userFile   string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "suitstreak-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/suitstreak")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token and user files
	dir := t.TempDir()

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(dir, "token"),
		userFile:   filepath.Join(dir, "user"),
	}
}

// fork returns a runner sharing the built binary but with its own token and user files
func (r *cliRunner) fork(t *testing.T) *cliRunner {
	t.Helper()

	dir := t.TempDir()
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(dir, "token"),
		userFile:   filepath.Join(dir, "user"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--user-file", r.userFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--user-file", r.userFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{
		Logger: logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		IdentityService: app.IdentityService,
		RoomController:  app.RoomController,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	LoggedIn bool   `json:"logged_in"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	SessionToken string       `json:"session_token"`
}

type roomResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Players []struct {
		ID       string `json:"id"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Ready    string `json:"ready"`
		IsHost   bool   `json:"is_host"`
	} `json:"players"`
	MaxPlayers int  `json:"max_players"`
	AllReady   bool `json:"all_ready"`
}

type roomListResponse struct {
	Rooms []roomResponse `json:"rooms"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// login creates an identity for this runner and sets its username,
// returning the session token
func (r *cliRunner) login(t *testing.T, name string) string {
	t.Helper()

	output, err := r.run("user", "create")
	require.NoError(t, err, "output: %s", output)

	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))

	output, err = r.run("user", "login", "--name", name)
	require.NoError(t, err, "output: %s", output)

	return auth.SessionToken
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_UserCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create an identity (anonymous until a username is set)
	output, err := cli.run("user", "create")
	require.NoError(t, err, "output: %s", output)

	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))
	assert.NotEmpty(t, auth.User.ID)
	assert.Empty(t, auth.User.Username)
	assert.False(t, auth.User.LoggedIn)
	assert.NotEmpty(t, auth.SessionToken)

	// Set a username (token should be saved in the token file)
	output, err = cli.run("user", "login", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var user userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "Alice", user.Username)
	assert.True(t, user.LoggedIn)

	// Get me
	output, err = cli.run("user", "me")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "Alice", user.Username)
	assert.Equal(t, auth.User.ID, user.ID)

	// Default avatar is derived from the username
	output, err = cli.run("user", "avatar")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Contains(t, user.Avatar, "picsum.photos/seed/A")

	// Logout clears the session
	output, err = cli.run("user", "logout")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("user", "me")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_ResumeIdentity(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("user", "create")
	require.NoError(t, err, "output: %s", output)
	var first authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &first))

	_, err = cli.run("user", "login", "--name", "Alice")
	require.NoError(t, err)

	_, err = cli.run("user", "logout")
	require.NoError(t, err)

	// Creating again resumes the saved identity with a fresh session
	output, err = cli.run("user", "create")
	require.NoError(t, err, "output: %s", output)
	var second authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &second))
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.SessionToken, second.SessionToken)
	assert.False(t, second.User.LoggedIn)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	cli.login(t, "Alice")

	// Create a room
	output, err := cli.run("room", "create", "--name", "Friday Night")
	require.NoError(t, err, "output: %s", output)

	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "Friday Night", room.Name)
	assert.Equal(t, "waiting", room.Status)
	assert.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	roomID := room.ID

	// Get the room by id
	output, err = cli.run("room", "get", roomID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, roomID, room.ID)

	// The room shows up in the available list
	output, err = cli.run("room", "list")
	require.NoError(t, err, "output: %s", output)

	var list roomListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, roomID, list.Rooms[0].ID)

	// Current room tracks membership
	output, err = cli.run("room", "current")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, roomID, room.ID)

	// Toggle ready
	output, err = cli.run("room", "ready")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "ready", room.Players[0].Ready)

	// Leave the room
	output, err = cli.run("room", "leave")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Left room", msg.Message)

	// Sole player leaving deletes the room
	output, err = cli.run("room", "get", roomID)
	assert.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")
}

func TestCLI_FullLobbyFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := cli1.fork(t)
	cli3 := cli1.fork(t)
	cli4 := cli1.fork(t)

	token1 := cli1.login(t, "Alice")
	cli2.login(t, "Bob")
	cli3.login(t, "Carol")
	cli4.login(t, "Dave")

	// Alice creates a room
	output, err := cli1.run("room", "create", "--name", "Night Owls")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	roomID := room.ID
	t.Logf("Created room: %s", roomID)

	// Everyone else joins
	for _, cli := range []*cliRunner{cli2, cli3, cli4} {
		output, err = cli.run("room", "join", roomID)
		require.NoError(t, err, "output: %s", output)
	}

	output, err = cli1.run("room", "current")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Players, 4)

	// A full room is no longer listed
	output, err = cli1.run("room", "list")
	require.NoError(t, err, "output: %s", output)
	var list roomListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	assert.Empty(t, list.Rooms)

	// Starting before everyone is ready fails
	output, err = cli1.run("room", "start")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_ALL_READY")

	// Everyone readies up
	for _, cli := range []*cliRunner{cli1, cli2, cli3, cli4} {
		output, err = cli.run("room", "ready")
		require.NoError(t, err, "output: %s", output)
	}

	// Only the host can start
	output, err = cli2.run("room", "start")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_HOST")

	// The host starts the game
	output, err = cli1.runWithToken(token1, "room", "start")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "playing", room.Status)
	assert.True(t, room.AllReady)
	t.Logf("Game started in room %s", roomID)
}

func TestCLI_HostSuccession(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := cli1.fork(t)

	cli1.login(t, "Alice")
	cli2.login(t, "Bob")

	output, err := cli1.run("room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	roomID := room.ID

	_, err = cli2.run("room", "join", roomID)
	require.NoError(t, err)

	// Host leaves and the remaining player inherits the room
	_, err = cli1.run("room", "leave")
	require.NoError(t, err)

	output, err = cli2.run("room", "current")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	require.Len(t, room.Players, 1)
	assert.Equal(t, "Bob", room.Players[0].Username)
	assert.True(t, room.Players[0].IsHost)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get current user without a session
	output, err := cli.run("user", "me")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")

	// Room operations require a username
	_, err = cli.run("user", "create")
	require.NoError(t, err)

	output, err = cli.run("room", "list")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_AUTHENTICATED")

	// Get a non-existent room
	cli.login(t, "Alice")
	output, err = cli.run("room", "get", "RM9999")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Username validation
	output, err = cli.run("user", "login", "--name", "x")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_USERNAME")
}
