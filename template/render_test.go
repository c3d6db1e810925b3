package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer is a minimal Renderer for exercising Render in isolation
// from the real bar/style implementation.
type fakeRenderer struct {
	values map[string]string
	wide   map[string]WideKind
}

func (f *fakeRenderer) Resolve(key string, opts PlaceholderOpts) string { return f.values[key] }
func (f *fakeRenderer) SelfRendered(key string) bool                    { return false }
func (f *fakeRenderer) WideKind(key string) WideKind                    { return f.wide[key] }
func (f *fakeRenderer) TabWidth() int                                   { return 8 }

func (f *fakeRenderer) RenderWide(kind WideKind, left int, opts PlaceholderOpts) string {
	switch kind {
	case WideBar:
		return strings.Repeat("#", left)
	case WideMsg:
		return Pad(f.values["msg"], left, opts.Align, true)
	default:
		return ""
	}
}

func TestRenderFixedWidthPlaceholder(t *testing.T) {
	tpl, err := Parse("{pos:>5}/{len}")
	require.NoError(t, err)
	r := &fakeRenderer{values: map[string]string{"pos": "3", "len": "10"}}
	lines, err := Render(tpl, 80, r, nil)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "    3/10", lines[0])
}

func TestRenderWideBarFillsResidualWidth(t *testing.T) {
	tpl, err := Parse("{wide_bar} {pos}%")
	require.NoError(t, err)
	r := &fakeRenderer{
		values: map[string]string{"pos": "42"},
		wide:   map[string]WideKind{"wide_bar": WideBar},
	}
	lines, err := Render(tpl, 20, r, nil)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, DisplayWidth(lines[0]))
	assert.True(t, strings.HasSuffix(lines[0], "42%"))
}

func TestRenderWideMsgClampsToTargetWidth(t *testing.T) {
	tpl, err := Parse("{pos} {wide_msg}")
	require.NoError(t, err)
	r := &fakeRenderer{
		values: map[string]string{"pos": "3", "msg": strings.Repeat("x", 100)},
		wide:   map[string]WideKind{"wide_msg": WideMsg},
	}
	lines, err := Render(tpl, 20, r, nil)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, DisplayWidth(lines[0]))
}

func TestRenderMultipleWidePlaceholdersError(t *testing.T) {
	tpl, err := Parse("{wide_bar} {wide_msg}")
	require.NoError(t, err)
	r := &fakeRenderer{
		wide: map[string]WideKind{"wide_bar": WideBar, "wide_msg": WideMsg},
	}
	_, err = Render(tpl, 40, r, nil)
	require.Error(t, err)
}

func TestRenderStyleWrapping(t *testing.T) {
	tpl, err := Parse("{msg:.red}")
	require.NoError(t, err)
	r := &fakeRenderer{values: map[string]string{"msg": "hi"}}
	style := func(token string) (string, string) {
		if token == "red" {
			return "<red>", "</red>"
		}
		return "", ""
	}
	lines, err := Render(tpl, 80, r, style)
	require.NoError(t, err)
	assert.Equal(t, "<red>hi</red>", lines[0])
}

func TestRenderTabExpansion(t *testing.T) {
	tpl, err := Parse("{msg}")
	require.NoError(t, err)
	r := &fakeRenderer{values: map[string]string{"msg": "Test\t:)"}}
	lines, err := Render(tpl, 80, r, nil)
	require.NoError(t, err)
	assert.Equal(t, "Test        :)", lines[0])
}
