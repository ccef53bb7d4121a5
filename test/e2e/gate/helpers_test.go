package gate_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Shared setup for the gate end-to-end tests: the image is built once, every
 * test gets its own container wired to a puzzle stub running on the host.
 */

const (
	testImageName = "bananabrain-gate-test:latest"

	// 48 bytes, comfortably above the HS512 minimum
	tokenSecret  = "e2e-secret-0123456789abcdef0123456789abcdef0123"
	testPassword = "banana-split"
)

// TestMain builds the Docker image once before all tests and removes it after.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building gate Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up gate Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/bananabrain/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// puzzleStub serves the banana API shape. Every question's solution is the
// current value of solution.
type puzzleStub struct {
	srv      *httptest.Server
	solution atomic.Int64
	down     atomic.Bool
}

func startPuzzleStub(t *testing.T) *puzzleStub {
	t.Helper()

	p := &puzzleStub{}
	p.solution.Store(4)
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.down.Load() {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"question":"https://puzzles.example/%d.png","solution":%d}`, time.Now().UnixNano(), p.solution.Load())
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *puzzleStub) port() int {
	return p.srv.Listener.Addr().(*net.TCPAddr).Port
}

type gateOptions struct {
	env map[string]string
}

// setupGateContainer starts the gate with relaxed rate limits and returns
// its base URL and the puzzle stub it talks to.
func setupGateContainer(t *testing.T, opts ...func(*gateOptions)) (string, *puzzleStub) {
	t.Helper()
	ctx := context.Background()

	puzzles := startPuzzleStub(t)

	o := gateOptions{env: map[string]string{
		"GATE_TOKEN_SECRET": tokenSecret,
		"PUZZLE_API_URL":    fmt.Sprintf("http://%s:%d/api.php?out=json", testcontainers.HostInternal, puzzles.port()),
		"UPSTREAM_TIMEOUT":  "2s",
		"DATABASE_FILE":     "/home/gate/e2e.db",
		"PEPPER_FILE":       "/home/gate/pepper",
		"PUBLIC_BASE_URL":   "http://localhost:3000",
		"ENV":               "test",
		"LOG_LEVEL":         "info",
		"LOG_FORMAT":        "json",
		// Tests make many rapid requests which would otherwise hit the strict production limits
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}}
	for _, opt := range opts {
		opt(&o)
	}

	req := testcontainers.ContainerRequest{
		Image:           testImageName,
		ExposedPorts:    []string{"8080/tcp"},
		Env:             o.env,
		HostAccessPorts: []int{puzzles.port()},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), puzzles
}

// withEnv overrides container environment variables.
func withEnv(kv ...string) func(*gateOptions) {
	return func(o *gateOptions) {
		for i := 0; i+1 < len(kv); i += 2 {
			o.env[kv[i]] = kv[i+1]
		}
	}
}

// enrollTOTP signs up, enrolls a factor and returns the elevated session and
// its TOTP secret.
func enrollTOTP(t *testing.T, client *gatesdk.SDKClient, email string) (*gatesdk.Session, string) {
	t.Helper()

	sess, err := client.SignUp(t.Context(), email, testPassword)
	require.NoError(t, err)
	assertPhase(t, sess, "needs-enrollment")

	enr, err := sess.EnrollTOTP(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, enr.Secret)

	phase, err := sess.CompleteEnrollment(t.Context(), enr.FactorID, totpCode(t, enr.Secret))
	require.NoError(t, err)
	require.Equal(t, "authorized", phase)

	return sess, enr.Secret
}

func totpCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// assertPhase checks the phase the gate computes for sess on the default route.
func assertPhase(t *testing.T, sess *gatesdk.Session, want string) {
	t.Helper()
	p, err := sess.Phase(t.Context(), "")
	require.NoError(t, err)
	require.Equal(t, want, p.Phase)
	require.Empty(t, p.Error)
}

func assertHealthy(t *testing.T, health *gatesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
