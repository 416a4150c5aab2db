package savefile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogsaver/core/savefile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleState = `{"version":"1.2.3","stats":{"name":"Talia","strength":12},` +
	`"temps":{"choice_reuse":"allow"},"lineNum":42,"sceneName":"chapter_3"}`

func TestExtractState(t *testing.T) {
	t.Run("BareObject", func(t *testing.T) {
		state, err := savefile.ExtractState([]byte(sampleState))
		require.NoError(t, err)
		assert.Equal(t, sampleState, string(state))
	})

	t.Run("SurroundingJunk", func(t *testing.T) {
		raw := "storePSjunk!" + sampleState + "\x00\x00trailing"
		state, err := savefile.ExtractState([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, sampleState, string(state))
	})

	t.Run("NoObject", func(t *testing.T) {
		_, err := savefile.ExtractState([]byte("nothing here"))
		assert.ErrorIs(t, err, savefile.ErrStateNotFound)
	})

	t.Run("UnbalancedBraces", func(t *testing.T) {
		_, err := savefile.ExtractState([]byte(`{"stats": {"name"`))
		assert.ErrorIs(t, err, savefile.ErrStateNotFound)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("AllFields", func(t *testing.T) {
		sum := savefile.Summarize([]byte(sampleState))
		assert.Equal(t, "Talia", sum.Character)
		assert.Equal(t, "chapter_3", sum.Scene)
		assert.Equal(t, int64(42), sum.Line)
		assert.Equal(t, "1.2.3", sum.Version)
	})

	t.Run("FirstnameFallback", func(t *testing.T) {
		sum := savefile.Summarize([]byte(`{"stats":{"firstname":"Ben"}}`))
		assert.Equal(t, "Ben", sum.Character)
	})

	t.Run("TopLevelName", func(t *testing.T) {
		sum := savefile.Summarize([]byte(`{"name":"Root"}`))
		assert.Equal(t, "Root", sum.Character)
	})

	t.Run("EmptyState", func(t *testing.T) {
		sum := savefile.Summarize([]byte(`{}`))
		assert.Empty(t, sum.Character)
		assert.Empty(t, sum.Scene)
		assert.Zero(t, sum.Line)
	})

	t.Run("NonStringNameIgnored", func(t *testing.T) {
		sum := savefile.Summarize([]byte(`{"stats":{"name":true}}`))
		assert.Empty(t, sum.Character)
	})
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "storePSxPSstate")
	require.NoError(t, os.WriteFile(path, []byte("junk"+sampleState), 0o644))

	sum := savefile.Describe(path)
	assert.Equal(t, "Talia", sum.Character)

	t.Run("UnreadableFileYieldsEmptySummary", func(t *testing.T) {
		assert.Equal(t, savefile.Summary{}, savefile.Describe(filepath.Join(dir, "absent")))
	})

	t.Run("GarbageFileYieldsEmptySummary", func(t *testing.T) {
		bad := filepath.Join(dir, "garbage")
		require.NoError(t, os.WriteFile(bad, []byte("no json at all"), 0o644))
		assert.Equal(t, savefile.Summary{}, savefile.Describe(bad))
	})
}

func TestSuggestName(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 5, 0, 0, time.Local)

	t.Run("AllParts", func(t *testing.T) {
		name := savefile.SuggestName(savefile.Summary{Character: "Talia", Scene: "chapter_3"}, now)
		assert.Equal(t, "Talia 25.03.09 14.05 chapter_3", name)
	})

	t.Run("NoCharacter", func(t *testing.T) {
		name := savefile.SuggestName(savefile.Summary{Scene: "intro"}, now)
		assert.Equal(t, "25.03.09 14.05 intro", name)
	})

	t.Run("NoScene", func(t *testing.T) {
		name := savefile.SuggestName(savefile.Summary{Character: "Ben"}, now)
		assert.Equal(t, "Ben 25.03.09 14.05", name)
	})

	t.Run("TimestampOnly", func(t *testing.T) {
		name := savefile.SuggestName(savefile.Summary{}, now)
		assert.Equal(t, "25.03.09 14.05", name)
	})

	t.Run("SanitizesCharacterName", func(t *testing.T) {
		name := savefile.SuggestName(savefile.Summary{Character: `A/B\C`}, now)
		assert.Equal(t, "A-B-C 25.03.09 14.05", name)
	})
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a-b-c-d-e-f-g-h-i-j", savefile.SanitizeName(`a/b\c:d*e?f"g<h>i|j`))
	assert.Equal(t, "plain name.cogsav", savefile.SanitizeName("plain name.cogsav"))
	assert.Equal(t, "tab", savefile.SanitizeName("ta\tb"))
}
