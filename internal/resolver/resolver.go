package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
)

const (
	D3D8      = "d3d8.dll"
	D3D9      = "d3d9.dll"
	D3D10Core = "d3d10core.dll"
	D3D11     = "d3d11.dll"
	D3D12     = "d3d12.dll"
	DXGI      = "dxgi.dll"
)

const DescriptionUnknown = "Unknown"

type Requirement struct {
	Files       []string
	Description string
	Arch        types.Arch
	// Incompatible marks API levels the translation layer is not expected to handle.
	Incompatible bool
}

type apiLevel struct {
	major        int
	markers      []string
	files        []string
	description  string
	incompatible bool
}

var levels = []apiLevel{
	{major: 8, markers: []string{"direct3d 8", "d3d8"}, files: []string{D3D8, D3D9}, description: "Direct3D 8"},
	{major: 9, markers: []string{"direct3d 9", "d3d9"}, files: []string{D3D9}, description: "Direct3D 9"},
	{major: 10, markers: []string{"direct3d 10", "d3d10"}, files: []string{DXGI, D3D11, D3D10Core}, description: "Direct3D 10"},
	{major: 11, markers: []string{"direct3d 11", "d3d11"}, files: []string{DXGI, D3D11}, description: "Direct3D 11"},
	{major: 12, markers: []string{"direct3d 12", "d3d12"}, files: []string{DXGI, D3D12}, description: "Direct3D 12 (may not work with DXVK)", incompatible: true},
}

var defaultFiles = []string{D3D9, DXGI, D3D11}

// tried in order, most explicit first
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`direct3d\s*(\d+)(?:\.\d+)?`),
	regexp.MustCompile(`d3d\s*(\d+)(?:\.\d+)?`),
	regexp.MustCompile(`dx\s*(\d+)(?:\.\d+)?`),
	regexp.MustCompile(`(\d+)(?:\.\d+)?`),
}

// Resolve maps a graphics API descriptor such as "Direct3D 9.0c" and the
// target bitness to the binaries that have to be replaced. It never fails:
// anything it cannot classify gets the common default set.
func Resolve(descriptor string, b model.Bitness) Requirement {
	req := Requirement{Arch: ArchFor(b)}

	level, ok := classify(descriptor)
	if !ok {
		req.Files = append([]string(nil), defaultFiles...)
		req.Description = DescriptionUnknown
		return req
	}

	req.Files = append([]string(nil), level.files...)
	req.Description = level.description
	req.Incompatible = level.incompatible
	return req
}

// ArchFor prefers 64-bit when both or neither flag is set.
func ArchFor(b model.Bitness) types.Arch {
	if b.Is64 {
		return types.Arch64
	}
	if b.Is32 {
		return types.Arch32
	}
	return types.Arch64
}

func classify(descriptor string) (apiLevel, bool) {
	normalized := strings.ToLower(strings.TrimSpace(descriptor))
	if normalized == "" || normalized == strings.ToLower(DescriptionUnknown) {
		return apiLevel{}, false
	}

	if major, ok := primaryVersion(normalized); ok {
		for _, l := range levels {
			if l.major == major {
				return l, true
			}
		}
	}

	for _, l := range levels {
		for _, m := range l.markers {
			if strings.Contains(normalized, m) {
				return l, true
			}
		}
	}
	return apiLevel{}, false
}

func primaryVersion(normalized string) (int, bool) {
	for _, p := range versionPatterns {
		m := p.FindStringSubmatch(normalized)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// AllFiles lists every binary name any API level may require.
func AllFiles() []string {
	seen := make(map[string]struct{})
	var files []string
	for _, l := range levels {
		for _, f := range l.files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files
}
