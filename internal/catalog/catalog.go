package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/cache"
	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/metrics"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/vercomp"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// IndexGetter fetches a release index and returns the body of a 2xx response.
type IndexGetter interface {
	GetIndex(ctx context.Context, url string) ([]byte, error)
}

// PresenceChecker answers whether a version is already cached.
type PresenceChecker interface {
	IsPresent(ch *channel.Channel, version string) bool
}

type Catalog struct {
	logger     *zap.Logger
	getter     IndexGetter
	presence   PresenceChecker
	caches     *cache.MultiCacheGroup
	comparator *vercomp.VersionComparator
}

func New(logger *zap.Logger, getter IndexGetter, presence PresenceChecker, caches *cache.MultiCacheGroup) *Catalog {
	return &Catalog{
		logger:     logger,
		getter:     getter,
		presence:   presence,
		caches:     caches,
		comparator: vercomp.NewComparator(),
	}
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type githubRelease struct {
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	PublishedAt string        `json:"published_at"`
	Assets      []githubAsset `json:"assets"`
}

type gitlabTreeEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// Fetch queries the channel's release index and returns its releases,
// newest first. Presence in the cache is evaluated on every call.
func (c *Catalog) Fetch(ctx context.Context, ch *channel.Channel) ([]model.Release, error) {
	body, err := c.index(ctx, ch)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues(ch.ID.String(), metrics.ResultFailure).Inc()
		return nil, err
	}

	var releases []model.Release
	switch ch.Index {
	case channel.IndexGitHubReleases:
		releases, err = parseGitHub(ch, body)
	case channel.IndexGitLabTree:
		releases, err = parseGitLabTree(ch, body)
	default:
		err = errs.NewUnexpected("unsupported index kind")
	}
	if err != nil {
		metrics.CatalogFetches.WithLabelValues(ch.ID.String(), metrics.ResultFailure).Inc()
		// a body that cannot be parsed must not be served again from cache
		c.caches.ReleaseIndexCache.Delete(c.cacheKey(ch))
		return nil, err
	}
	metrics.CatalogFetches.WithLabelValues(ch.ID.String(), metrics.ResultSuccess).Inc()

	for i := range releases {
		releases[i].IsDownloaded = c.presence.IsPresent(ch, releases[i].Version)
	}
	c.sort(releases)
	return releases, nil
}

// List is Fetch with failures collapsed into an empty list. An empty result
// means "unknown", not "no releases".
func (c *Catalog) List(ctx context.Context, ch *channel.Channel) []model.Release {
	releases, err := c.Fetch(ctx, ch)
	if err != nil {
		c.logger.Error("Failed to fetch release catalog",
			zap.String("channel", ch.ID.String()),
			zap.Error(err),
		)
		return []model.Release{}
	}
	return releases
}

// Find looks a version up in the channel's catalog.
func (c *Catalog) Find(ctx context.Context, ch *channel.Channel, version string) (*model.Release, error) {
	releases, err := c.Fetch(ctx, ch)
	if err != nil {
		return nil, err
	}
	for i := range releases {
		if releases[i].Version == version || ch.DirName(releases[i].Version) == ch.DirName(version) {
			return &releases[i], nil
		}
	}
	return nil, errs.ErrNotFound.WithMessage("%s %s is not in the release catalog", ch.DisplayName, version)
}

func (c *Catalog) cacheKey(ch *channel.Channel) string {
	return c.caches.GetCacheKey(ch.ID.String(), ch.IndexURL)
}

func (c *Catalog) index(ctx context.Context, ch *channel.Channel) ([]byte, error) {
	body, err := c.caches.ReleaseIndexCache.ComputeIfAbsent(c.cacheKey(ch), func() ([]byte, error) {
		data, err := c.getter.GetIndex(ctx, ch.IndexURL)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Fetched release index",
			zap.String("channel", ch.ID.String()),
			zap.Int("bytes", len(data)),
		)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return *body, nil
}

// sort orders releases newest first; ties keep upstream order.
func (c *Catalog) sort(releases []model.Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		return c.compare(releases[i].Version, releases[j].Version) > 0
	})
}

func (c *Catalog) compare(a, b string) int {
	if r := c.comparator.Compare(a, b); r.Comparable {
		return r.Result
	}
	return vercomp.CompareLoose(a, b)
}

func parseGitHub(ch *channel.Channel, body []byte) ([]model.Release, error) {
	var upstream []githubRelease
	if err := sonic.Unmarshal(body, &upstream); err != nil {
		return nil, errs.ErrNetworkFailure.WithMessage("invalid %s release index", ch.DisplayName).Wrap(err)
	}

	releases := make([]model.Release, 0, len(upstream))
	for _, r := range upstream {
		if r.TagName == "" {
			continue
		}
		release := model.Release{
			Version:       r.TagName,
			DisplayName:   r.Name,
			PublishedDate: r.PublishedAt,
		}
		if release.DisplayName == "" {
			release.DisplayName = ch.DisplayName + " " + r.TagName
		}
		for _, a := range r.Assets {
			if ch.AssetMatches(r.TagName, a.BrowserDownloadURL) {
				release.DownloadURL = a.BrowserDownloadURL
				break
			}
		}
		releases = append(releases, release)
	}
	return releases, nil
}

func parseGitLabTree(ch *channel.Channel, body []byte) ([]model.Release, error) {
	var entries []gitlabTreeEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return nil, errs.ErrNetworkFailure.WithMessage("invalid %s release index", ch.DisplayName).Wrap(err)
	}

	releases := make([]model.Release, 0, len(entries))
	for _, e := range entries {
		if e.Type != "" && e.Type != "blob" {
			continue
		}
		if !strings.HasSuffix(e.Name, ch.ArchiveSuffix) || (ch.Exclude != "" && strings.Contains(e.Name, ch.Exclude)) {
			continue
		}
		version := ch.VersionFromFile(e.Name)
		releases = append(releases, model.Release{
			Version:     version,
			DisplayName: ch.DisplayName + " " + version,
			DownloadURL: ch.FileURL(e.Name),
		})
	}
	return releases, nil
}
