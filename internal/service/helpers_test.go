package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Granite Tile", want: "granite-tile"},
		{input: "  Café Tile ", want: "cafe-tile"},
		{input: "Über Grout 2.0", want: "uber-grout-2-0"},
		{input: "--already-slugged--", want: "already-slugged"},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.want, normalizeSlug(tc.input))
		})
	}
}

func TestGenerateSlugKeepsTransliteratedBase(t *testing.T) {
	generated := generateSlug("Café Tile", "product")
	require.True(t, strings.HasPrefix(generated, "cafe-tile-"), generated)
	require.Len(t, generated, len("cafe-tile-")+8)

	require.True(t, strings.HasPrefix(generateSlug("!!!", "product"), "product-"))
}
