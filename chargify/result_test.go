// ABOUTME: Tests for response normalization rules
// ABOUTME: Covers error descriptors, raw fallbacks, and error message extraction
package chargify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBodySuccess(t *testing.T) {
	res := NormalizeBody(200, []byte(`{"customer":{"id":12345678901234567}}`))

	require.True(t, res.Parsed)
	obj, ok := res.Object()
	require.True(t, ok)
	id := obj["customer"].(map[string]any)["id"]
	assert.Equal(t, json.Number("12345678901234567"), id, "large ids keep their precision")
}

func TestNormalizeBodyFailure(t *testing.T) {
	res := NormalizeBody(404, []byte("Not Found"))

	assert.False(t, res.OK())
	assert.Equal(t, map[string]any{"errors": "Not Found", "status": 404}, res.Value())
}

func TestNormalizeBodyFailureWithJSONIsStillRaw(t *testing.T) {
	res := NormalizeBody(422, []byte(`{"errors":["Product must be specified"]}`))

	assert.Nil(t, res.Data)
	assert.Equal(t, `{"errors":["Product must be specified"]}`, res.Errors)
}

func TestNormalizeBodyRawFallbacks(t *testing.T) {
	for _, body := range []string{"", "not json", `{"a":1} trailing`, `{} {}`} {
		res := NormalizeBody(200, []byte(body))

		assert.False(t, res.Parsed, body)
		assert.Equal(t, map[string]any{"response": body}, res.Value(), body)
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, []string{"Product must be specified", "Credit card is invalid"},
		NormalizeBody(422, []byte(`{"errors":["Product must be specified","Credit card is invalid"]}`)).ErrorMessages())
	assert.Equal(t, []string{"Bad thing"}, NormalizeBody(422, []byte(`{"errors":"Bad thing"}`)).ErrorMessages())
	assert.Equal(t, []string{"Not Found"}, NormalizeBody(404, []byte("Not Found")).ErrorMessages())
	assert.Equal(t, []string{"Internal Server Error"}, NormalizeBody(500, nil).ErrorMessages())
	assert.Nil(t, NormalizeBody(200, []byte("{}")).ErrorMessages())
}
