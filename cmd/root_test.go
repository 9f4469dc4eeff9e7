package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatectl/internal/guard"
)

// fakePortal is an in-memory portal backend
type fakePortal struct {
	mu   sync.Mutex
	hits map[string]int
}

var users = map[string]string{
	"tok-ada":  `{"id":1,"email":"ada@ga.test","full_name":"Ada Admin","role":"admin","is_active":true}`,
	"tok-rita": `{"id":2,"email":"rita@ga.test","full_name":"Rita Resident","role":"resident","is_active":true}`,
	"tok-mo":   `{"id":3,"email":"mo@ga.test","full_name":"Mo Guard","role":"guard","is_active":true,"mfa_enabled":true}`,
}

func (f *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/access-token", func(w http.ResponseWriter, r *http.Request) {
		f.hit("login")
		_ = r.ParseForm()
		switch r.PostForm.Get("username") {
		case "ada@ga.test":
			_, _ = w.Write([]byte(`{"access_token":"tok-ada","token_type":"bearer"}`))
		case "rita@ga.test":
			_, _ = w.Write([]byte(`{"access_token":"tok-rita","token_type":"bearer"}`))
		case "mo@ga.test":
			_, _ = w.Write([]byte(`{"mfa_required":true,"temp_token":"tmp-mo"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
		}
	})
	mux.HandleFunc("/mfa/login", func(w http.ResponseWriter, r *http.Request) {
		f.hit("mfa")
		var body struct {
			TempToken string `json:"temp_token"`
			Token     string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.TempToken != "tmp-mo" || body.Token != "123456" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Invalid MFA code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-mo","token_type":"bearer"}`))
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		f.hit("me")
		user, ok := users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		_, _ = w.Write([]byte(user))
	})
	mux.HandleFunc("/tenants/by-slug/ga", func(w http.ResponseWriter, r *http.Request) {
		f.hit("tenant")
		_, _ = w.Write([]byte(`{"id":1,"slug":"ga","name":"Green Acres","is_active":true,"primary_color":"#16a34a","limits":{"max_admins":2,"max_guards":5,"max_residents":300}}`))
	})
	mux.HandleFunc("/tenants/by-slug/hb", func(w http.ResponseWriter, r *http.Request) {
		f.hit("tenant")
		_, _ = w.Write([]byte(`{"id":2,"slug":"hb","name":"Hill Brook","is_active":true,"limits":{"max_admins":1,"max_guards":2,"max_residents":50}}`))
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		f.hit("echo")
		_ = json.NewEncoder(w).Encode(map[string][]string{"trace": r.Header.Values("X-Trace")})
	})
	return mux
}

func (f *fakePortal) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[name]++
}

func (f *fakePortal) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[name]
}

type harness struct {
	t       *testing.T
	backend *fakePortal
	config  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := &fakePortal{hits: map[string]int{}}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "gatectl.yaml")
	content := "server:\n  url: " + srv.URL + "\n  timeout: 2s\ntenant:\n  slug: ga\nformat:\n  default: text\n  colors: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return &harness{t: t, backend: backend, config: path}
}

// run executes gatectl with args and returns stdout, stderr and the error
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	resetCommands(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", h.config}, args...))

	err := Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetCommands restores flag defaults and drops the context left by the
// previous run of the shared command tree
func resetCommands(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetContext(nil)
	for _, c := range cmd.Commands() {
		resetCommands(c)
	}
}

func TestLoginPersistsTokenAndPointsAtLanding(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("", "auth", "login", "-e", "ada@ga.test", "-p", "secret")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Signed in as Ada Admin (admin)")
	assert.Contains(t, stderr, "continue with: gatectl admin home")

	saved, err := os.ReadFile(h.config)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "tok-ada")
	assert.Contains(t, string(saved), "email: ada@ga.test")

	stdout, _, err := h.run("", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "State: authenticated")
	assert.Contains(t, stdout, "Role: admin")
}

func TestLoginFailureLeavesNoToken(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("", "auth", "login", "-e", "nobody@ga.test", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, stderr, "Incorrect email or password")

	saved, err := os.ReadFile(h.config)
	require.NoError(t, err)
	assert.NotContains(t, string(saved), "tok-")
}

func TestLoginWithMFARetriesUntilCodeAccepted(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("000000\n123456\n", "auth", "login", "-e", "mo@ga.test", "-p", "secret")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Invalid MFA code")
	assert.Contains(t, stderr, "Signed in as Mo Guard (guard)")
	assert.Contains(t, stderr, "continue with: gatectl security home")
	assert.Equal(t, 2, h.backend.count("mfa"))

	stdout, _, err := h.run("", "security", "home")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dashboard: security")
	assert.Contains(t, stdout, "Community: Green Acres")
}

func TestLoginWithMFACancelled(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("\n", "auth", "login", "-e", "mo@ga.test", "-p", "secret")
	require.Error(t, err)
	assert.Equal(t, 0, h.backend.count("mfa"))

	stdout, _, err := h.run("", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "State: anonymous")
}

func TestGuardedShellRedirectsWrongRole(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("", "auth", "login", "-e", "rita@ga.test", "-p", "secret")
	require.NoError(t, err)

	stdout, stderr, err := h.run("", "admin", "home")
	require.ErrorIs(t, err, guard.ErrRedirected)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "continue with: gatectl resident home")
	assert.Equal(t, 0, h.backend.count("tenant"))

	stdout, _, err = h.run("", "resident")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Name: Rita Resident")
}

func TestGuardedShellSendsAnonymousToLogin(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("", "platform", "tenants")
	require.ErrorIs(t, err, guard.ErrRedirected)
	assert.Contains(t, stderr, "continue with: gatectl auth login")
}

func TestBarePlatformCommandIsGuarded(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, err := h.run("", "platform")
	require.ErrorIs(t, err, guard.ErrRedirected)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "continue with: gatectl auth login")

	_, _, err = h.run("", "auth", "login", "-e", "ada@ga.test", "-p", "secret")
	require.NoError(t, err)
	_, stderr, err = h.run("", "platform", "--limit", "5")
	require.ErrorIs(t, err, guard.ErrRedirected)
	assert.Contains(t, stderr, "continue with: gatectl admin home")
}

func TestRevokedTokenPointsAtLoginOnce(t *testing.T) {
	h := newHarness(t)
	f, err := os.OpenFile(h.config, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("auth:\n  token: tok-revoked\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, stderr, err := h.run("", "admin", "home")
	require.ErrorIs(t, err, guard.ErrRedirected)
	assert.Equal(t, 1, strings.Count(stderr, "continue with: gatectl auth login"), stderr)
	assert.Equal(t, 1, h.backend.count("me"))

	saved, err := os.ReadFile(h.config)
	require.NoError(t, err)
	assert.NotContains(t, string(saved), "tok-revoked")
}

func TestLogoutClearsStoredToken(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("", "auth", "login", "-e", "ada@ga.test", "-p", "secret")
	require.NoError(t, err)

	_, stderr, err := h.run("", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Signed out")

	_, _, err = h.run("", "auth", "logout")
	require.NoError(t, err)

	_, _, err = h.run("", "auth", "whoami")
	require.Error(t, err)
}

func TestTenantShowJSON(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("", "-o", "json", "tenant", "show")
	require.NoError(t, err)

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, "Green Acres", view["name"])
	assert.Equal(t, "#16a34a", view["primary_color"])
	assert.Equal(t, "#0f172a", view["accent_color"])
}

func TestTenantShowSaveMakesDefault(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("", "tenant", "show", "hb", "--save")
	require.NoError(t, err)
	assert.Contains(t, stderr, "hb is now the default community")

	saved, err := os.ReadFile(h.config)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "slug: hb")

	stdout, _, err := h.run("", "-o", "json", "tenant", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "Hill Brook"`)
}

func TestRawSendsRepeatedHeaders(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("", "-o", "json-compact", "raw", "get", "echo",
		"-H", "X-Trace: a", "-H", "x-trace: b")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"trace":["a","b"]`)

	_, _, err = h.run("", "raw", "get", "echo", "-H", "broken")
	require.Error(t, err)
}

func TestRawCallUsesSession(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("", "auth", "login", "-e", "ada@ga.test", "-p", "secret")
	require.NoError(t, err)

	stdout, _, err := h.run("", "-o", "json-compact", "raw", "get", "users/me")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"email":"ada@ga.test"`)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("", "-o", "xml", "auth", "status")
	require.Error(t, err)
	assert.Contains(t, stderr, "unsupported format: xml")
}
