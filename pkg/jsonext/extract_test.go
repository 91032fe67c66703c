package jsonext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainObject(t *testing.T) {
	got, err := Extract(`{"a": 1}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(got))
}

func TestExtract_MarkdownFence(t *testing.T) {
	raw := "Here is the roadmap you asked for:\n```json\n{\"levels\": []}\n```\nLet me know if you need changes."
	got, err := Extract(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"levels": []}`, string(got))
}

func TestExtract_FenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n[1, 2, 3]\n```"
	got, err := Extract(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, string(got))
}

func TestExtract_ProseWrappedObject(t *testing.T) {
	raw := `Sure! The answer is {"questions": [{"id": 1}]} — hope that helps.`
	got, err := Extract(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions": [{"id": 1}]}`, string(got))
}

func TestExtract_ArrayBeforeObject(t *testing.T) {
	// The span that opens first wins.
	raw := `[{"id": 1}, {"id": 2}]`
	got, err := Extract(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1}, {"id": 2}]`, string(got))
}

func TestExtract_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"no json here at all",
		`{"unterminated": `,
		"```json\nnot json\n```",
	} {
		_, err := Extract(raw)
		assert.ErrorIs(t, err, ErrMalformedOutput, "input: %q", raw)
	}
}

func TestExtractInto(t *testing.T) {
	var payload struct {
		Levels []struct {
			Name string `json:"name"`
		} `json:"levels"`
	}
	raw := "```json\n{\"levels\": [{\"name\": \"Beginner\"}]}\n```"
	require.NoError(t, ExtractInto(raw, &payload))
	require.Len(t, payload.Levels, 1)
	assert.Equal(t, "Beginner", payload.Levels[0].Name)
}

func TestExtractInto_TypeMismatch(t *testing.T) {
	var payload []int
	err := ExtractInto(`{"a": 1}`, &payload)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}
