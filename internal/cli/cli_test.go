package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/mcx/internal/config"
	"github.com/lexfrei/mcx/internal/launcher"
	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/rcon"
	"github.com/lexfrei/mcx/pkg/resolver"
	"github.com/lexfrei/mcx/pkg/testutil"
)

// Commands install the default slog logger and some tests change the working
// directory, so these tests run sequentially.

type fakeService struct {
	mu sync.Mutex

	catalogs    map[string]loader.Catalog
	downloadErr error
	downloads   []string
	opts        resolver.Options
}

func (f *fakeService) Kinds() []loader.Kind { return loader.Kinds() }

func (f *fakeService) GetLoaderVersions(_ context.Context, name string) loader.Catalog {
	if c, ok := f.catalogs[name]; ok {
		return c
	}

	return loader.Catalog{}
}

func (f *fakeService) ListVersions(_ context.Context, name string) (loader.Catalog, error) {
	if _, ok := loader.ParseKind(name); !ok {
		return nil, loader.UnknownLoader(name)
	}

	return f.catalogs[name], nil
}

func (f *fakeService) DownloadVersion(_ context.Context, version, path, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.downloads = append(f.downloads, name+" "+version+" "+path)

	if f.downloadErr != nil {
		return f.downloadErr
	}

	return os.MkdirAll(path, 0o750)
}

type fakePrompter struct {
	inputs  []string
	selects []string
	titles  []string
	options [][]string
}

func (p *fakePrompter) Input(_ context.Context, title string) (string, error) {
	p.titles = append(p.titles, title)

	if len(p.inputs) == 0 {
		return "", errors.New("unexpected input prompt")
	}

	v := p.inputs[0]
	p.inputs = p.inputs[1:]

	return v, nil
}

func (p *fakePrompter) Select(_ context.Context, title string, options []string) (string, error) {
	p.titles = append(p.titles, title)
	p.options = append(p.options, options)

	if len(p.selects) == 0 {
		return "", errors.New("unexpected select prompt")
	}

	v := p.selects[0]
	p.selects = p.selects[1:]

	return v, nil
}

type harness struct {
	app      *App
	service  *fakeService
	prompter *fakePrompter
	launches [][]string
	rcon     *testutil.MockRCONConn
	dialed   []rcon.Settings
	out      bytes.Buffer
	errOut   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	h := &harness{
		service: &fakeService{catalogs: map[string]loader.Catalog{
			"Vanilla":  {"1.20.1", "1.20.4", "1.21", "1.21.1"},
			"NeoForge": {"20.4.237", "21.0.3-beta", "21.1.77"},
			"Paper":    {"1.20.4", "1.21.1"},
		}},
		prompter: &fakePrompter{},
		rcon:     &testutil.MockRCONConn{},
	}

	h.app = &App{
		Version: "test",
		NewService: func(opts resolver.Options) Service {
			h.service.opts = opts
			return h.service
		},
		Prompter: h.prompter,
		Launch: func(_ context.Context, _ string, command []string, _ launcher.Stdio) error {
			h.launches = append(h.launches, command)
			return nil
		},
		DialRCON: func(_ context.Context, s rcon.Settings) (rcon.Conn, error) {
			h.dialed = append(h.dialed, s)
			return h.rcon, nil
		},
	}

	return h
}

func (h *harness) run(args ...string) error {
	root := h.app.Command()
	root.SetOut(&h.out)
	root.SetErr(&h.errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return errors.CombineErrors(err, h.app.flushMetrics())
}

func TestVersions_Formats(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "text", args: []string{"versions", "Vanilla"}, want: "1.20.1\n1.20.4\n1.21\n1.21.1\n"},
		{name: "json", args: []string{"versions", "Paper", "-o", "json"}, want: "[\n  \"1.20.4\",\n  \"1.21.1\"\n]\n"},
		{name: "yaml", args: []string{"versions", "Paper", "--output", "yaml"}, want: "- 1.20.4\n- 1.21.1\n"},
		{name: "vanilla line", args: []string{"versions", "Vanilla", "--minecraft", "1.21.x"}, want: "1.21\n1.21.1\n"},
		{name: "neoforge by minecraft", args: []string{"versions", "NeoForge", "--minecraft", "1.21"}, want: "21.0.3-beta\n"},
		{name: "empty json", args: []string{"versions", "Paper", "--minecraft", "1.8.8", "-o", "json"}, want: "[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			require.NoError(t, h.run(tt.args...))
			assert.Equal(t, tt.want, h.out.String())
		})
	}
}

func TestVersions_Errors(t *testing.T) {
	h := newHarness(t)

	err := h.run("versions", "Forge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid loader: "Forge"`)
	assert.Contains(t, err.Error(), "Invalid metadata")

	h = newHarness(t)
	err = h.run("versions", "Vanilla", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestDownload(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(t.TempDir(), "srv")

	require.NoError(t, h.run("download", "Paper", "1.21.1", dir))

	assert.Equal(t, []string{"Paper 1.21.1 " + dir}, h.service.downloads)
	assert.Contains(t, h.out.String(), "Installed Paper 1.21.1")
}

func TestDownload_Latest(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	require.NoError(t, h.run("download", "NeoForge", "latest", dir))

	assert.Equal(t, []string{"NeoForge 21.1.77 " + dir}, h.service.downloads)
}

func TestDownload_LatestWithoutStableRelease(t *testing.T) {
	h := newHarness(t)
	h.service.catalogs["Paper"] = loader.Catalog{"1.21.2-rc1"}

	err := h.run("download", "Paper", "latest", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve latest Paper version")
	assert.Empty(t, h.service.downloads)
}

func TestDownload_ShowsCategory(t *testing.T) {
	h := newHarness(t)
	h.service.downloadErr = loader.StatusError("https://piston-data.mojang.com/x", http.StatusBadGateway)

	err := h.run("download", "Vanilla", "1.20.4", t.TempDir())

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Network error: "), err.Error())
	assert.Equal(t, loader.CategoryRequest, loader.CategoryOf(err))
}

func TestInit_Prompts(t *testing.T) {
	h := newHarness(t)
	t.Chdir(t.TempDir())

	h.prompter.inputs = []string{"survival"}
	h.prompter.selects = []string{"NeoForge", "21.1.77"}

	require.NoError(t, h.run("init"))

	assert.Equal(t, []string{"Server name", "Loader", "NeoForge version"}, h.prompter.titles)
	assert.Equal(t, []string{"Vanilla", "NeoForge", "Paper"}, h.prompter.options[0])
	assert.Equal(t, []string{"21.1.77", "21.0.3-beta", "20.4.237"}, h.prompter.options[1])
	assert.Equal(t, []string{"NeoForge 21.1.77 survival"}, h.service.downloads)

	server, err := config.ReadServer("survival")
	require.NoError(t, err)
	assert.Equal(t, config.Server{Name: "survival", Version: "21.1.77", Loader: "NeoForge"}, server)
}

func TestInit_FlagsSkipPrompts(t *testing.T) {
	h := newHarness(t)
	t.Chdir(t.TempDir())

	require.NoError(t, h.run("init", "--name", "lobby", "--loader", "Paper", "--version", "1.21.1"))

	assert.Empty(t, h.prompter.titles)
	assert.FileExists(t, filepath.Join("lobby", config.FileName))
}

func TestInit_LatestIsRecordedResolved(t *testing.T) {
	h := newHarness(t)
	t.Chdir(t.TempDir())

	require.NoError(t, h.run("init", "--name", "hub", "--loader", "Vanilla", "--version", "latest"))

	server, err := config.ReadServer("hub")
	require.NoError(t, err)
	assert.Equal(t, "1.21.1", server.Version)
}

func TestInit_FailedDownloadWritesNoConfig(t *testing.T) {
	h := newHarness(t)
	t.Chdir(t.TempDir())

	h.service.downloadErr = loader.VersionNotFound(loader.Vanilla, "1.19.9")

	err := h.run("init", "--name", "old", "--loader", "Vanilla", "--version", "1.19.9")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Version not found")
	assert.NoFileExists(t, filepath.Join("old", config.FileName))
}

func TestInit_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "path as name", args: []string{"init", "--name", "../x", "--loader", "Vanilla", "--version", "1.21"}, want: "invalid server name"},
		{name: "unknown loader", args: []string{"init", "--name", "x", "--loader", "vanilla", "--version", "1.21"}, want: "invalid loader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			t.Chdir(t.TempDir())

			err := h.run(tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, h.service.downloads)
		})
	}
}

func TestInit_NoVersionsAvailable(t *testing.T) {
	h := newHarness(t)
	t.Chdir(t.TempDir())

	h.service.catalogs["Paper"] = loader.Catalog{}

	err := h.run("init", "--name", "x", "--loader", "Paper")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Paper versions available")
}

func TestRun_LaunchesRecordedLoader(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	require.NoError(t, config.WriteServer(dir, config.Server{Name: "s", Version: "1.21.1", Loader: "Vanilla"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.jar"), []byte("jar"), 0o600))

	t.Setenv("MCX_JAVA_MEMORY", "3G")

	require.NoError(t, h.run("run", "--dir", dir, "--accept-eula"))

	require.Len(t, h.launches, 1)
	assert.Equal(t, []string{"java", "-Xmx3G", "-Xms3G", "-jar", "server.jar", "nogui"}, h.launches[0])
	assert.FileExists(t, filepath.Join(dir, launcher.EULAFile))
}

func TestRun_NoConfig(t *testing.T) {
	h := newHarness(t)

	err := h.run("run", "--dir", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrNoServerConfig))
	assert.Empty(t, h.launches)
}

func TestStop(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	props := "#Minecraft server properties\nenable-rcon=true\nrcon.port=25580\nrcon.password=secret\nserver-ip=\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, rcon.PropertiesFile), []byte(props), 0o600))

	require.NoError(t, h.run("stop", "--dir", dir, "--warn", "Restarting soon", "--interval", "1ms"))

	assert.Equal(t, []rcon.Settings{{Host: "127.0.0.1", Port: 25580, Password: "secret"}}, h.dialed)
	assert.True(t, h.rcon.Closed())
	assert.Equal(t, []string{"say Restarting soon", "save-all flush", "stop"}, h.rcon.Commands())
	assert.Contains(t, h.out.String(), "stopped")
}

func TestStop_CommandFailure(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	h.rcon.Fail = map[string]error{"save-all flush": errors.New("connection reset")}

	props := "enable-rcon=true\nrcon.password=secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, rcon.PropertiesFile), []byte(props), 0o600))

	err := h.run("stop", "--dir", dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stop server at 127.0.0.1:25575")
	assert.Equal(t, []string{"save-all flush"}, h.rcon.Commands())
	assert.True(t, h.rcon.Closed())
}

func TestStop_RCONDisabled(t *testing.T) {
	h := newHarness(t)

	err := h.run("stop", "--dir", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, rcon.ErrDisabled))
	assert.Empty(t, h.dialed)
}

func TestSettingsReachResolver(t *testing.T) {
	h := newHarness(t)
	t.Setenv("MCX_ENDPOINTS_PAPER_API", "http://127.0.0.1:9999")
	t.Setenv("MCX_HTTP_TIMEOUT", "45s")

	require.NoError(t, h.run("versions", "Paper"))

	assert.Equal(t, "http://127.0.0.1:9999", h.service.opts.PaperAPIURL)
	assert.Equal(t, 45*time.Second, h.service.opts.HTTP.MetadataTimeout)
	assert.Nil(t, h.service.opts.Recorder)
}

func TestMetricsTextfile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "mcx.prom")

	require.NoError(t, h.run("versions", "Paper", "--metrics-textfile", path))

	require.NotNil(t, h.service.opts.Recorder)
	h.service.opts.Recorder.RecordDownload("Paper", nil, time.Second)
	require.NoError(t, h.app.flushMetrics())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mcx_download_total{loader="Paper"} 1`)
}

func TestConfigFlag(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "mcx.toml")
	require.NoError(t, os.WriteFile(path, []byte("[endpoints]\nvanilla-manifest = \"http://mirror/manifest.json\"\n"), 0o600))

	require.NoError(t, h.run("--config", path, "versions", "Vanilla"))

	assert.Equal(t, "http://mirror/manifest.json", h.service.opts.VanillaManifestURL)

	err := newHarness(t).run("--config", filepath.Join(t.TempDir(), "missing.toml"), "versions", "Vanilla")
	assert.Error(t, err)
}
