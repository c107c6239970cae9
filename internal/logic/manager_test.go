package logic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/cache"
	"github.com/MirrorChyan/dxvk-manager/internal/catalog"
	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/fetcher"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/patcher"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/archive"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/sortorder"
	"github.com/MirrorChyan/dxvk-manager/internal/stg"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	manager   *Manager
	store     *metadata.FileStore
	steamApps string
	downloads int32
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func packRelease(t *testing.T, version string) []byte {
	t.Helper()
	src := t.TempDir()
	for _, arch := range []string{"x64", "x32"} {
		for _, dll := range []string{"d3d9.dll", "d3d11.dll", "dxgi.dll"} {
			writeFile(t, filepath.Join(src, "dxvk-"+version, arch, dll), arch+"-"+dll)
		}
	}
	archivePath := filepath.Join(t.TempDir(), "release.tar.gz")
	require.NoError(t, archive.PackTarGz(src, "", archivePath))
	data, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	return data
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	payload := packRelease(t, "2.3")

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/releases", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `[
  {"tag_name":"v2.3","name":"Version 2.3","published_at":"2023-09-01T00:00:00Z","assets":[
    {"name":"dxvk-2.3.tar.gz","browser_download_url":"%[1]s/download/dxvk-2.3.tar.gz"}]},
  {"tag_name":"v2.1","name":"Version 2.1","published_at":"2023-01-01T00:00:00Z","assets":[]}
]`, srv.URL)
	})
	mux.HandleFunc("/tree", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","name":"dxvk-gplasync-2.3-1.tar.gz","type":"blob","path":"releases/dxvk-gplasync-2.3-1.tar.gz"}]`))
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.downloads, 1)
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write(payload)
	})

	dxvk := channel.DXVK()
	dxvk.IndexURL = srv.URL + "/releases"
	gpl := channel.GPLAsync()
	gpl.IndexURL = srv.URL + "/tree"
	gpl.DownloadURL = srv.URL + "/download/{file}"
	channels := channel.NewSet(dxvk, gpl)

	root := t.TempDir()
	logger := zap.NewNop()
	storage := stg.New(logger, filepath.Join(root, "cache"))
	fetch := fetcher.New(logger, fetcher.Config{Timeout: 10 * time.Second, MaxRedirects: 3})
	cat := catalog.New(logger, fetch, storage, cache.NewCacheGroup(time.Minute))
	f.store = metadata.NewFileStore(logger, filepath.Join(root, "metadata"))
	engine := patcher.NewEngine(logger, storage, f.store, channels)
	targets := metadata.NewTargetProvider(logger, f.store)
	f.steamApps = filepath.Join(root, "steamapps")

	f.manager = NewManager(logger, channels, cat, fetch, storage, engine, f.store, targets, LibraryPath(f.steamApps))
	return f
}

func TestListCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		Name     string
		Order    sortorder.Order
		Expected []string
	}{
		{Name: "newest", Order: sortorder.Newest, Expected: []string{"v2.3", "v2.1"}},
		{Name: "oldest", Order: sortorder.Oldest, Expected: []string{"v2.1", "v2.3"}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			releases, err := f.manager.ListCatalog(ctx, "dxvk", tc.Order)
			require.NoError(t, err)
			got := make([]string, 0, len(releases))
			for _, r := range releases {
				got = append(got, r.Version)
			}
			require.Equal(t, tc.Expected, got)
		})
	}

	_, err := f.manager.ListCatalog(ctx, "vkd3d", sortorder.Newest)
	require.ErrorIs(t, err, errs.ErrInvalidChannel)
}

func TestListAllCatalogs(t *testing.T) {
	f := newFixture(t)

	all := f.manager.ListAllCatalogs(context.Background())
	require.Len(t, all, 2)
	require.Len(t, all[types.ChannelDXVK], 2)
	require.Len(t, all[types.ChannelGPLAsync], 1)
	require.Equal(t, "v2.3-1", all[types.ChannelGPLAsync][0].Version)
}

func TestFetchAndCacheFromCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cached, err := f.manager.IsCached("dxvk", "v2.3")
	require.NoError(t, err)
	require.False(t, cached)

	require.NoError(t, f.manager.FetchAndCache(ctx, model.FetchParam{Channel: "dxvk", Version: "v2.3"}))

	cached, err = f.manager.IsCached("dxvk", "v2.3")
	require.NoError(t, err)
	require.True(t, cached)

	versions, err := f.manager.InstalledVersions("dxvk")
	require.NoError(t, err)
	require.Equal(t, []string{"v2.3"}, versions)

	// already present: no second download
	require.NoError(t, f.manager.FetchAndCache(ctx, model.FetchParam{Channel: "dxvk", Version: "v2.3"}))
	require.EqualValues(t, 1, atomic.LoadInt32(&f.downloads))

	releases, err := f.manager.ListCatalog(ctx, "dxvk", sortorder.Newest)
	require.NoError(t, err)
	require.True(t, releases[0].IsDownloaded)
}

func TestFetchAndCacheErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		Name     string
		Param    model.FetchParam
		Expected error
	}{
		{
			Name:     "unknown channel",
			Param:    model.FetchParam{Channel: "vkd3d", Version: "v1"},
			Expected: errs.ErrInvalidChannel,
		},
		{
			Name:     "invalid version",
			Param:    model.FetchParam{Channel: "dxvk", Version: ".."},
			Expected: errs.ErrInvalidParams,
		},
		{
			Name:     "not in catalog",
			Param:    model.FetchParam{Channel: "dxvk", Version: "v9.9"},
			Expected: errs.ErrNotFound,
		},
		{
			Name:     "no asset",
			Param:    model.FetchParam{Channel: "dxvk", Version: "v2.1"},
			Expected: errs.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := f.manager.FetchAndCache(ctx, tc.Param)
			require.ErrorIs(t, err, tc.Expected)
		})
	}

	versions, err := f.manager.InstalledVersions("dxvk")
	require.NoError(t, err)
	require.Empty(t, versions)
}

func TestFetchAndCacheSharesConcurrentDownloads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	failures := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.manager.FetchAndCache(ctx, model.FetchParam{Channel: "dxvk-gplasync", Version: "v2.3-1"}); err != nil {
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(failures)
	for err := range failures {
		require.NoError(t, err)
	}

	require.EqualValues(t, 1, atomic.LoadInt32(&f.downloads))
	versions, err := f.manager.InstalledVersions("dxvk-gplasync")
	require.NoError(t, err)
	require.Equal(t, []string{"2.3-1"}, versions)
}

func TestApplyRestoreThroughManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	installDir := t.TempDir()
	writeFile(t, filepath.Join(installDir, "d3d11.dll"), "vendor")
	_, err := f.manager.UpdateTarget("570", model.TargetUpdate{
		Name:       ptr("Dota 2"),
		InstallDir: &installDir,
		Descriptor: ptr("Direct3D 11"),
		Is64:       ptr(true),
	})
	require.NoError(t, err)

	_, err = f.manager.Apply(ctx, "missing", "dxvk", "v2.3")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.manager.Apply(ctx, "570", "vkd3d", "v2.3")
	require.ErrorIs(t, err, errs.ErrInvalidChannel)

	require.NoError(t, f.manager.FetchAndCache(ctx, model.FetchParam{Channel: "dxvk", Version: "v2.3"}))

	applied, err := f.manager.Apply(ctx, "570", "dxvk", "v2.3")
	require.NoError(t, err)
	require.True(t, applied.Success, applied.Message)
	require.True(t, applied.Recorded)

	state := f.manager.GetPatchState("570")
	require.True(t, state.Patched)
	require.Equal(t, types.ChannelDXVK, state.AppliedChannel)
	require.Equal(t, "v2.3", state.AppliedVersion)

	hasBackup, err := f.manager.HasBackup("570")
	require.NoError(t, err)
	require.True(t, hasBackup)

	verify, err := f.manager.Verify("570")
	require.NoError(t, err)
	require.True(t, verify.Intact())

	restored, err := f.manager.Restore(ctx, "570")
	require.NoError(t, err)
	require.True(t, restored.Success, restored.Message)

	data, err := os.ReadFile(filepath.Join(installDir, "d3d11.dll"))
	require.NoError(t, err)
	require.Equal(t, "vendor", string(data))
	require.False(t, f.manager.GetPatchState("570").Patched)
}

func TestForceRemoveThroughManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	installDir := t.TempDir()
	writeFile(t, filepath.Join(installDir, "d3d9.dll"), "dxvk")
	_, err := f.manager.UpdateTarget("220", model.TargetUpdate{
		InstallDir: &installDir,
		Descriptor: ptr("Direct3D 9"),
		Is32:       ptr(true),
	})
	require.NoError(t, err)

	removed, err := f.manager.ForceRemove(ctx, "220")
	require.NoError(t, err)
	require.True(t, removed.Success, removed.Message)
	require.NoFileExists(t, filepath.Join(installDir, "d3d9.dll"))
}

func TestSyncLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	manifest := func(id, name, dir string) {
		writeFile(t, filepath.Join(f.steamApps, "appmanifest_"+id+".acf"), fmt.Sprintf(`"AppState"
{
	"appid"		"%s"
	"name"		"%s"
	"installdir"		"%s"
}`, id, name, dir))
	}
	manifest("570", "Dota 2", "dota 2 beta")
	manifest("220", "Half-Life 2", "Half-Life 2")

	// a manually configured target is never pruned
	custom := t.TempDir()
	_, err := f.manager.UpdateTarget("custom-game", model.TargetUpdate{InstallDir: &custom})
	require.NoError(t, err)

	result, err := f.manager.SyncLibrary(ctx, model.SyncLibraryParam{})
	require.NoError(t, err)
	require.Equal(t, 2, result.Discovered)
	require.ElementsMatch(t, []string{"220", "570"}, result.Added)

	target, err := f.manager.Target("570")
	require.NoError(t, err)
	require.Equal(t, "Dota 2", target.Name)
	require.Equal(t, filepath.Join(f.steamApps, "common", "dota 2 beta"), target.InstallDir)

	// user edits survive a rescan
	_, err = f.manager.UpdateTarget("570", model.TargetUpdate{Descriptor: ptr("Direct3D 11")})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(f.steamApps, "appmanifest_220.acf")))
	manifest("570", "Dota 2", "dota2")

	result, err = f.manager.SyncLibrary(ctx, model.SyncLibraryParam{Prune: true})
	require.NoError(t, err)
	require.Empty(t, result.Added)
	require.Equal(t, []string{"570"}, result.Updated)
	require.Equal(t, []string{"220"}, result.Removed)

	target, err = f.manager.Target("570")
	require.NoError(t, err)
	require.Equal(t, "Direct3D 11", target.Descriptor)
	require.Equal(t, filepath.Join(f.steamApps, "common", "dota2"), target.InstallDir)

	_, err = f.manager.Target("220")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.manager.Target("custom-game")
	require.NoError(t, err)
}

func TestResolveRequirements(t *testing.T) {
	f := newFixture(t)
	req := f.manager.ResolveRequirements("Direct3D 9", model.Bitness{Is32: true})
	require.Equal(t, []string{"d3d9.dll"}, req.Files)
}

func ptr[T any](v T) *T {
	return &v
}
