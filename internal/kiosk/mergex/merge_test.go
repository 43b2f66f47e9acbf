package mergex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/kioskd/internal/kiosk/models"
)

func TestMerge_NestedObjectsMergedFieldByField(t *testing.T) {
	dst := map[string]any{"a": 1, "b": map[string]any{"c": 2, "d": 3}}
	src := map[string]any{"b": map[string]any{"c": 99}}

	got := Merge(dst, src)

	require.Equal(t, map[string]any{
		"a": 1,
		"b": map[string]any{"c": 99, "d": 3},
	}, got)
}

func TestMerge_ScalarOverwrites(t *testing.T) {
	dst := map[string]any{"a": 1, "b": "keep"}
	src := map[string]any{"a": 2}

	got := Merge(dst, src)

	require.Equal(t, 2, got["a"])
	require.Equal(t, "keep", got["b"])
}

func TestMerge_ObjectReplacesScalar(t *testing.T) {
	dst := map[string]any{"a": "scalar"}
	src := map[string]any{"a": map[string]any{"x": 1}}

	got := Merge(dst, src)

	require.Equal(t, map[string]any{"x": 1}, got["a"])
}

func TestMerge_InputsUntouched(t *testing.T) {
	dst := map[string]any{"b": map[string]any{"c": 2}}
	src := map[string]any{"b": map[string]any{"c": 99}}

	_ = Merge(dst, src)

	require.Equal(t, 2, dst["b"].(map[string]any)["c"])
}

func TestApply_TypedSettingsOverlay(t *testing.T) {
	base := models.Settings{
		StoreName:        "Old Name",
		ScreensaverDelay: 120,
		CustomAPIKey:     "secret",
	}
	overlay := map[string]any{"storeName": "New Name"}

	var got models.Settings
	require.NoError(t, Apply(base, overlay, &got))

	require.Equal(t, "New Name", got.StoreName)
	require.Equal(t, 120, got.ScreensaverDelay)
	require.Equal(t, "secret", got.CustomAPIKey, "fields absent from the overlay must survive")
}
