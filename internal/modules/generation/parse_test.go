package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReq(ids ...string) Request {
	return Request{Topic: "Kitchen Items", BatchSize: len(ids), ItemIDs: ids}
}

func TestExtractItemsPlainArray(t *testing.T) {
	raw := `[{"id":"a","phrase":"Coffee Maker","difficulty":"easy"},{"id":"b","phrase":"Toaster"}]`
	items, err := extractItems(raw, testReq("a", "b"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Coffee Maker", items[0].Text)
	assert.Equal(t, DifficultyEasy, items[0].Difficulty)
	assert.Equal(t, "Kitchen Items", items[1].Topic)
}

func TestExtractItemsFencedMarkdown(t *testing.T) {
	raw := "```json\n[{\"id\":\"a\",\"phrase\":\"Coffee Maker\"}]\n```"
	items, err := extractItems(raw, testReq("a"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
}

func TestExtractItemsProseWrapped(t *testing.T) {
	raw := `Sure! Here are the phrases you asked for:
[{"id":"a","phrase":"Coffee Maker"},{"id":"b","phrase":"Toaster"}]
Let me know if you need more.`
	items, err := extractItems(raw, testReq("a", "b"))
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestExtractItemsNoArray(t *testing.T) {
	_, err := extractItems("I cannot help with that.", testReq("a"))
	assert.ErrorIs(t, err, errNoItems)
}

func TestSanitizeDropsEmptyAndCaps(t *testing.T) {
	req := testReq("a", "b")
	items := sanitizeItems([]Item{
		{ID: "a", Text: "  "},
		{ID: "b", Text: "Toaster"},
		{ID: "c", Text: "Blender"},
		{ID: "d", Text: "Whisk"},
	}, req)
	// Empty text dropped; the unknown id inherits the unused request id;
	// overflow past the batch size is discarded.
	require.Len(t, items, 2)
	assert.Equal(t, "Toaster", items[0].Text)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "Blender", items[1].Text)
	assert.Equal(t, "a", items[1].ID)
}

func TestSanitizeReassignsDuplicateIDs(t *testing.T) {
	req := testReq("a", "b")
	items := sanitizeItems([]Item{
		{ID: "a", Text: "Toaster"},
		{ID: "a", Text: "Blender"},
	}, req)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestSanitizeInvalidDifficulty(t *testing.T) {
	req := testReq("a")
	items := sanitizeItems([]Item{{ID: "a", Text: "Toaster", Difficulty: "brutal"}}, req)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Difficulty)
}
