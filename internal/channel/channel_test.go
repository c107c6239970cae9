package channel

import (
	"testing"

	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/stretchr/testify/require"
)

func TestDirName(t *testing.T) {
	dxvk, gpl := DXVK(), GPLAsync()

	testCases := []struct {
		Name     string
		Channel  Channel
		Version  string
		Expected string
	}{
		{Name: "DXVKKeepsPrefix", Channel: dxvk, Version: "v2.6", Expected: "v2.6"},
		{Name: "DXVKSanitizes", Channel: dxvk, Version: "v2.6/rc\\1", Expected: "v2.6-rc-1"},
		{Name: "GPLAsyncStripsPrefix", Channel: gpl, Version: "v2.6-1", Expected: "2.6-1"},
		{Name: "GPLAsyncSanitizes", Channel: gpl, Version: "v2.6/1", Expected: "2.6-1"},
		{Name: "GPLAsyncNoPrefix", Channel: gpl, Version: "2.5", Expected: "2.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, tc.Channel.DirName(tc.Version))
		})
	}
}

func TestNestedNames(t *testing.T) {
	dxvk, gpl := DXVK(), GPLAsync()

	require.Equal(t, []string{"dxvk-2.6"}, dxvk.NestedNames("v2.6"))
	require.Equal(t,
		[]string{"dxvk-gplasync-v2.6-1", "dxvk-gplasync-2.6-1", "v2.6-1"},
		gpl.NestedNames("v2.6-1"),
	)
	// duplicates collapse when the version carries no prefix
	require.Equal(t,
		[]string{"dxvk-gplasync-2.6", "2.6"},
		gpl.NestedNames("2.6"),
	)
}

func TestAssetMatches(t *testing.T) {
	dxvk := DXVK()

	testCases := []struct {
		Name     string
		URL      string
		Expected bool
	}{
		{Name: "Windows", URL: "https://github.com/doitsujin/dxvk/releases/download/v2.6/dxvk-2.6.tar.gz", Expected: true},
		{Name: "Native", URL: "https://github.com/doitsujin/dxvk/releases/download/v2.6/dxvk-native-2.6-steamrt-sniper.tar.gz", Expected: false},
		{Name: "NativeWithTag", URL: "https://example.com/dxvk-2.6-native.tar.gz", Expected: false},
		{Name: "OtherVersion", URL: "https://example.com/dxvk-2.5.tar.gz", Expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, dxvk.AssetMatches("v2.6", tc.URL))
		})
	}
}

func TestVersionFromFile(t *testing.T) {
	gpl := GPLAsync()

	testCases := []struct {
		Name     string
		File     string
		Expected string
	}{
		{Name: "Plain", File: "dxvk-gplasync-2.6.tar.gz", Expected: "v2.6"},
		{Name: "Revision", File: "dxvk-gplasync-v2.6-1.tar.gz", Expected: "dxvk-gplasync-v2.6-1"},
		{Name: "NumericRevision", File: "dxvk-gplasync-2.5.3-1.tar.gz", Expected: "v2.5.3-1"},
		{Name: "Fallback", File: "gplasync-build.tar.gz", Expected: "gplasync-build"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, gpl.VersionFromFile(tc.File))
		})
	}
}

func TestFileURL(t *testing.T) {
	gpl := GPLAsync()
	require.Equal(t,
		"https://gitlab.com/Ph42oN/dxvk-gplasync/-/raw/main/releases/dxvk-gplasync-2.6.tar.gz",
		gpl.FileURL("dxvk-gplasync-2.6.tar.gz"),
	)
}

func TestSetGet(t *testing.T) {
	set := NewSet(DXVK(), GPLAsync())

	ch, err := set.Get("dxvk-gplasync")
	require.NoError(t, err)
	require.Equal(t, types.ChannelGPLAsync, ch.ID)

	_, err = set.Get("proton")
	require.ErrorIs(t, err, errs.ErrInvalidChannel)

	all := set.All()
	require.Len(t, all, 2)
	require.Equal(t, types.ChannelDXVK, all[0].ID)
}

func TestValidVersion(t *testing.T) {
	dxvk, gpl := DXVK(), GPLAsync()

	testCases := []struct {
		Name     string
		Channel  Channel
		Version  string
		Expected bool
	}{
		{Name: "Tag", Channel: dxvk, Version: "v2.6", Expected: true},
		{Name: "SlashesAreFlattened", Channel: dxvk, Version: "v2.6/../x", Expected: true},
		{Name: "Empty", Channel: dxvk, Version: " ", Expected: false},
		{Name: "Dot", Channel: dxvk, Version: ".", Expected: false},
		{Name: "Parent", Channel: dxvk, Version: "..", Expected: false},
		{Name: "BareV", Channel: gpl, Version: "v", Expected: false},
		{Name: "Wildcard", Channel: gpl, Version: "v2.*", Expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, tc.Channel.ValidVersion(tc.Version))
		})
	}
}
