package channel

import (
	"regexp"
	"sort"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
)

type IndexKind int

const (
	// IndexGitHubReleases is a GitHub "list releases" response.
	IndexGitHubReleases IndexKind = iota
	// IndexGitLabTree is a GitLab repository tree listing.
	IndexGitLabTree
)

// Channel is the static description of one distribution source. Everything
// that differs between sources is data here, so fetch, cache and catalog code
// is written once.
type Channel struct {
	ID          types.Channel
	DisplayName string
	CacheDir    string
	Index       IndexKind
	IndexURL    string

	// DownloadURL is a template with a {file} placeholder, used when the index
	// does not carry asset links.
	DownloadURL string

	// StripV drops the leading "v" when mapping a version to a directory name.
	StripV bool

	// NestedDirs are directory name templates tried inside the version
	// directory; {version} is the raw version, {bare} the version without "v".
	NestedDirs []string

	// AssetMarker must appear in a release asset URL; same placeholders as NestedDirs.
	AssetMarker string

	// ArchiveSuffix filters tree entries.
	ArchiveSuffix string

	// VersionPattern extracts the version number from an archive file name.
	VersionPattern *regexp.Regexp

	// Exclude rejects assets whose name contains it.
	Exclude string
}

var sanitizer = strings.NewReplacer("/", "-", "\\", "-")

// DirName maps a free-form version string to a safe directory name.
func (c *Channel) DirName(version string) string {
	v := strings.TrimSpace(version)
	if c.StripV {
		v = strings.TrimPrefix(v, "v")
	}
	return sanitizer.Replace(v)
}

// ValidVersion rejects versions that do not map to a usable directory name.
func (c *Channel) ValidVersion(version string) bool {
	name := c.DirName(version)
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, ":*?\"<>|")
}

// NestedNames lists the candidate directories for the nested layout, in order.
func (c *Channel) NestedNames(version string) []string {
	names := make([]string, 0, len(c.NestedDirs))
	seen := make(map[string]struct{}, len(c.NestedDirs))
	for _, tpl := range c.NestedDirs {
		name := sanitizer.Replace(expand(tpl, version))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func (c *Channel) AssetMatches(version, url string) bool {
	if c.Exclude != "" && strings.Contains(url, c.Exclude) {
		return false
	}
	return strings.Contains(url, expand(c.AssetMarker, version))
}

// VersionFromFile derives a release version from an archive file name.
func (c *Channel) VersionFromFile(name string) string {
	if c.VersionPattern != nil {
		if m := c.VersionPattern.FindStringSubmatch(name); len(m) > 1 {
			return "v" + m[1]
		}
	}
	return strings.TrimSuffix(name, c.ArchiveSuffix)
}

func (c *Channel) FileURL(file string) string {
	return strings.ReplaceAll(c.DownloadURL, "{file}", file)
}

// ArchiveName is the local file name used while a version is downloading.
func (c *Channel) ArchiveName(version string) string {
	return string(c.ID) + "-" + c.DirName(version) + ".tar.gz"
}

func expand(tpl, version string) string {
	return strings.NewReplacer(
		"{version}", version,
		"{bare}", strings.TrimPrefix(version, "v"),
	).Replace(tpl)
}

func DXVK() Channel {
	return Channel{
		ID:          types.ChannelDXVK,
		DisplayName: "DXVK",
		CacheDir:    "dxvk-cache",
		Index:       IndexGitHubReleases,
		IndexURL:    "https://api.github.com/repos/doitsujin/dxvk/releases",
		NestedDirs:  []string{"dxvk-{bare}"},
		AssetMarker: "dxvk-{bare}",
		Exclude:     "native",
	}
}

func GPLAsync() Channel {
	return Channel{
		ID:             types.ChannelGPLAsync,
		DisplayName:    "DXVK-gplasync",
		CacheDir:       "dxvk-gplasync-cache",
		Index:          IndexGitLabTree,
		IndexURL:       "https://gitlab.com/api/v4/projects/Ph42oN%2Fdxvk-gplasync/repository/tree?path=releases&ref=main",
		DownloadURL:    "https://gitlab.com/Ph42oN/dxvk-gplasync/-/raw/main/releases/{file}",
		StripV:         true,
		NestedDirs:     []string{"dxvk-gplasync-{version}", "dxvk-gplasync-{bare}", "{version}"},
		ArchiveSuffix:  ".tar.gz",
		VersionPattern: regexp.MustCompile(`dxvk-gplasync-([0-9.]+(?:-[0-9]+)?)\.tar\.gz`),
		Exclude:        "native",
	}
}

// Set holds the configured channels. It is built once and never mutated.
type Set struct {
	channels map[types.Channel]*Channel
}

func NewSet(channels ...Channel) *Set {
	s := &Set{channels: make(map[types.Channel]*Channel, len(channels))}
	for i := range channels {
		ch := channels[i]
		s.channels[ch.ID] = &ch
	}
	return s
}

func (s *Set) Get(id string) (*Channel, error) {
	ch, ok := s.channels[types.Channel(id)]
	if !ok {
		return nil, errs.ErrInvalidChannel.WithMessage("unknown channel %q", id)
	}
	return ch, nil
}

// All returns the channels ordered by id.
func (s *Set) All() []*Channel {
	list := make([]*Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		list = append(list, ch)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *Set) Valid(id string) bool {
	_, ok := s.channels[types.Channel(id)]
	return ok
}
