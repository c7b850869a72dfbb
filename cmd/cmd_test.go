package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/smdata-dev/smdata/internal/config"
	"github.com/smdata-dev/smdata/internal/storage"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		DataDir:          t.TempDir(),
		SiteName:         "smdata.dev",
		ContactRecipient: "info@smdata.dev",
		FromEmail:        "info@smdata.dev",
		EmailBackend:     "console",
		NotifyTimeout:    time.Second,
	}
}

func seed(t *testing.T, cfg *config.AppConfig, subs ...storage.NewSubmission) []*storage.Submission {
	t.Helper()
	store, closeStore, err := openStore(context.Background(), cfg, cliLogger(cfg))
	require.NoError(t, err)
	defer closeStore()

	var out []*storage.Submission
	for _, in := range subs {
		s, err := store.Create(context.Background(), in)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func run(t *testing.T, cfg *config.AppConfig, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(cfg)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestSubmissionsList_JSON(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg,
		storage.NewSubmission{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello"},
		storage.NewSubmission{Name: "John Roe", Email: "john@example.com", Message: "Quote please"},
	)

	out, err := run(t, cfg, "submissions", "list", "-o", "json")
	require.NoError(t, err)

	var subs []storage.Submission
	require.NoError(t, json.Unmarshal([]byte(out), &subs))
	require.Len(t, subs, 2)
}

func TestSubmissionsList_SearchAndPending(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg,
		storage.NewSubmission{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello"},
		storage.NewSubmission{Name: "John Roe", Email: "john@example.com", Message: "Quote please"},
	)

	out, err := run(t, cfg, "submissions", "list", "--pending", "--search", "quote", "-o", "yaml")
	require.NoError(t, err)

	var subs []storage.Submission
	require.NoError(t, yaml.Unmarshal([]byte(out), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "John Roe", subs[0].Name)
}

func TestSubmissionsList_Table(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, storage.NewSubmission{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello\nthere"})

	out, err := run(t, cfg, "submissions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "Hello there")
}

func TestSubmissionsList_Empty(t *testing.T) {
	out, err := run(t, testConfig(t), "submissions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No submissions.")
}

func TestSubmissionsList_ConflictingFlags(t *testing.T) {
	_, err := run(t, testConfig(t), "submissions", "list", "--pending", "--notified")
	require.Error(t, err)
}

func TestSubmissionsShow(t *testing.T) {
	cfg := testConfig(t)
	subs := seed(t, cfg, storage.NewSubmission{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello"})

	out, err := run(t, cfg, "submissions", "show", subs[0].ID, "-o", "json")
	require.NoError(t, err)

	var got storage.Submission
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, subs[0].ID, got.ID)
	assert.False(t, got.Notified)
}

func TestSubmissionsShow_NotFound(t *testing.T) {
	_, err := run(t, testConfig(t), "submissions", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNotifyTest_Console(t *testing.T) {
	out, err := run(t, testConfig(t), "notify-test", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "via console")
	assert.Contains(t, out, `"ok": true`)
}

func TestNotifyTest_MissingSendGridKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmailBackend = "sendgrid"

	_, err := run(t, cfg, "notify-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENDGRID_API_KEY")
}

func TestComposerFromConfig_UsesNotificationAddresses(t *testing.T) {
	cfg := testConfig(t)
	cfg.FromEmail = "noreply@smdata.dev"
	cfg.ContactRecipient = "ops@smdata.dev"
	cfg.PhoneRegion = "US"

	c := composerFromConfig(cfg, cfg.NotificationConfig())
	assert.Equal(t, "noreply@smdata.dev", c.From)
	assert.Equal(t, "ops@smdata.dev", c.Recipient)
	assert.Equal(t, "smdata.dev", c.SiteName)
	assert.Equal(t, "US", c.PhoneRegion)

	msg := c.Compose(&storage.Submission{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello"})
	assert.Equal(t, "noreply@smdata.dev", msg.From)
	assert.Equal(t, "ops@smdata.dev", msg.To)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\t c", 10))
	assert.Equal(t, "abcd…", oneLine("abcdefgh", 5))
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(&out, strings.NewReader("y\n"), "? "))
	assert.True(t, confirm(&out, strings.NewReader("YES\n"), "? "))
	assert.False(t, confirm(&out, strings.NewReader("\n"), "? "))
	assert.False(t, confirm(&out, strings.NewReader(""), "? "))
}

func TestRunUpdate_DevBuild(t *testing.T) {
	err := runUpdate(context.Background(), &bytes.Buffer{}, strings.NewReader(""), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev build")
}

func TestOpenStore_SQLitePath(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)
	assert.FileExists(t, filepath.Join(cfg.DataDir, "smdata.db"))
}
