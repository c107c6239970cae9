package validator

import (
	"testing"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {

	type Channel struct {
		C string `validate:"channel"`
	}

	testCases := []struct {
		Name     string
		Value    string
		Expected bool
	}{
		{
			Name:     "dxvk",
			Value:    "dxvk",
			Expected: true,
		},
		{
			Name:     "gplasync",
			Value:    "dxvk-gplasync",
			Expected: true,
		},
		{
			Name:     "unknown",
			Value:    "vkd3d",
			Expected: false,
		},
		{
			Name:     "case sensitive",
			Value:    "DXVK",
			Expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {

			err := Validate.Struct(&Channel{
				C: tc.Value,
			})

			if tc.Expected {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestVersion(t *testing.T) {

	type Version struct {
		V string `validate:"version"`
	}

	testCases := []struct {
		Name     string
		Value    string
		Expected bool
	}{
		{
			Name:     "tag",
			Value:    "v2.6",
			Expected: true,
		},
		{
			Name:     "revision",
			Value:    "v2.6-1",
			Expected: true,
		},
		{
			Name:     "slash is sanitised later",
			Value:    "release/2.6",
			Expected: true,
		},
		{
			Name:     "dot dot",
			Value:    "..",
			Expected: false,
		},
		{
			Name:     "reserved character",
			Value:    "v2:6",
			Expected: false,
		},
		{
			Name:     "empty",
			Value:    "",
			Expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {

			err := Validate.Struct(&Version{
				V: tc.Value,
			})

			if tc.Expected {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestStructReportsViolations(t *testing.T) {
	type Apply struct {
		Channel string `json:"channel" validate:"required,channel"`
		Version string `json:"version" validate:"required,version"`
	}

	err := Struct(&Apply{Channel: "vkd3d"})
	require.ErrorIs(t, err, errs.ErrInvalidParams)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	details, ok := e.Details().(fiber.Map)
	require.True(t, ok)
	violations, ok := details["violations"].([]*ValidationError)
	require.True(t, ok)
	require.Len(t, violations, 2)
	require.Equal(t, "channel", violations[0].Violation)
	require.Equal(t, "required", violations[1].Violation)

	require.NoError(t, Struct(&Apply{Channel: "dxvk", Version: "v2.6"}))
}
