package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/cache"
	"github.com/MirrorChyan/dxvk-manager/internal/catalog"
	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/fetcher"
	"github.com/MirrorChyan/dxvk-manager/internal/logic"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/patcher"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/restserver"
	"github.com/MirrorChyan/dxvk-manager/internal/stg"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func newApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"tag_name":"v2.6","name":"Version 2.6","published_at":"2025-03-01T00:00:00Z","assets":[]}]`))
	}))
	t.Cleanup(upstream.Close)

	dxvk := channel.DXVK()
	dxvk.IndexURL = upstream.URL
	channels := channel.NewSet(dxvk, channel.GPLAsync())

	root := t.TempDir()
	logger := zap.NewNop()
	storage := stg.New(logger, filepath.Join(root, "cache"))
	fetch := fetcher.New(logger, fetcher.Config{Timeout: 5 * time.Second})
	cat := catalog.New(logger, fetch, storage, cache.NewCacheGroup(time.Minute))
	store := metadata.NewFileStore(logger, filepath.Join(root, "metadata"))
	engine := patcher.NewEngine(logger, storage, store, channels)
	targets := metadata.NewTargetProvider(logger, store)
	manager := logic.NewManager(logger, channels, cat, fetch, storage, engine, store, targets, logic.LibraryPath(filepath.Join(root, "steamapps")))

	app := restserver.New(logger, Error,
		NewSystemHandler(),
		NewRequirementsHandler(manager),
		NewChannelHandler(logger, manager),
		NewTargetHandler(manager),
	)
	return app, root
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, sonic.Unmarshal(data, &env))
	}
	return resp.StatusCode, env
}

func TestRoutes(t *testing.T) {
	app, root := newApp(t)
	gameDir := filepath.Join(root, "game")
	require.NoError(t, os.MkdirAll(gameDir, 0o755))

	testCases := []struct {
		Name   string
		Method string
		Path   string
		Body   string
		Status int
		Code   int
	}{
		{Name: "health", Method: http.MethodGet, Path: "/health", Status: http.StatusOK},
		{Name: "requirements", Method: http.MethodGet, Path: "/requirements?descriptor=Direct3D%2011&x64=true", Status: http.StatusOK},
		{Name: "releases", Method: http.MethodGet, Path: "/channels/dxvk/releases?order=oldest", Status: http.StatusOK},
		{Name: "releases of unknown channel", Method: http.MethodGet, Path: "/channels/vkd3d/releases", Status: http.StatusBadRequest, Code: errs.BizCodeInvalidParams},
		{Name: "installed of unknown channel", Method: http.MethodGet, Path: "/channels/vkd3d/versions", Status: http.StatusBadRequest, Code: errs.BizCodeInvalidChannel},
		{Name: "cached", Method: http.MethodGet, Path: "/channels/dxvk/versions/v2.6", Status: http.StatusOK},
		{Name: "fetch without version", Method: http.MethodPost, Path: "/channels/dxvk/versions", Body: `{}`, Status: http.StatusBadRequest, Code: errs.BizCodeInvalidParams},
		{Name: "fetch without asset", Method: http.MethodPost, Path: "/channels/dxvk/versions", Body: `{"version":"v2.6"}`, Status: http.StatusNotFound, Code: errs.BizCodeNotFound},
		{Name: "unknown target", Method: http.MethodGet, Path: "/targets/570", Status: http.StatusNotFound, Code: errs.BizCodeNotFound},
		{Name: "empty update", Method: http.MethodPut, Path: "/targets/570", Body: `{}`, Status: http.StatusBadRequest, Code: errs.BizCodeInvalidParams},
		{Name: "update", Method: http.MethodPut, Path: "/targets/570", Body: `{"name":"Dota 2","install_dir":"` + filepath.ToSlash(gameDir) + `","direct_x_version":"Direct3D 11","is_64_bit":true}`, Status: http.StatusOK},
		{Name: "state", Method: http.MethodGet, Path: "/targets/570/state", Status: http.StatusOK},
		{Name: "backup", Method: http.MethodGet, Path: "/targets/570/backup", Status: http.StatusOK},
		{Name: "apply invalid body", Method: http.MethodPost, Path: "/targets/570/apply", Body: `{"channel":"vkd3d","version":"v2.6"}`, Status: http.StatusBadRequest, Code: errs.BizCodeInvalidParams},
		{Name: "apply uncached", Method: http.MethodPost, Path: "/targets/570/apply", Body: `{"channel":"dxvk","version":"v2.6"}`, Status: http.StatusUnprocessableEntity, Code: 1},
		{Name: "restore without backup", Method: http.MethodPost, Path: "/targets/570/restore", Status: http.StatusUnprocessableEntity, Code: 1},
		{Name: "scan", Method: http.MethodPost, Path: "/library/scan", Status: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			status, env := do(t, app, tc.Method, tc.Path, tc.Body)
			require.Equal(t, tc.Status, status, env.Msg)
			require.Equal(t, tc.Code, env.Code)
		})
	}
}

func TestFailedApplyCarriesResult(t *testing.T) {
	app, root := newApp(t)
	gameDir := filepath.Join(root, "game")
	require.NoError(t, os.MkdirAll(gameDir, 0o755))

	status, _ := do(t, app, http.MethodPut, "/targets/570", `{"install_dir":"`+filepath.ToSlash(gameDir)+`","is_64_bit":true}`)
	require.Equal(t, http.StatusOK, status)

	status, env := do(t, app, http.MethodPost, "/targets/570/apply", `{"channel":"dxvk","version":"v2.6"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotEmpty(t, env.Msg)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, false, data["success"])
	require.Equal(t, env.Msg, data["message"])
}
