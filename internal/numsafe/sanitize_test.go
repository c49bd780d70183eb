package numsafe

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeConvertsOversizedIntegersAtAnyDepth(t *testing.T) {
	huge, _ := new(big.Int).SetString("1152921504606846977", 10)
	created := time.Date(2023, 5, 15, 12, 0, 0, 0, time.UTC)

	input := map[string]any{
		"id":      huge,
		"created": created,
		"missing": nil,
		"count":   3,
		"ok":      true,
		"title":   "May",
		"nested": map[string]any{
			"ids":   []any{int64(9007199254740993), int64(7), uint64(18446744073709551615)},
			"typed": []int64{-9007199254740993},
			"inner": map[string]any{"id": json.Number("9007199254740993")},
		},
	}

	got, ok := Sanitize(input).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "1152921504606846977", got["id"])
	assert.Equal(t, created, got["created"], "dates must not be rewritten")
	assert.Nil(t, got["missing"])
	assert.Equal(t, 3, got["count"])
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "May", got["title"])

	nested := got["nested"].(map[string]any)
	assert.Equal(t, []any{"9007199254740993", int64(7), "18446744073709551615"}, nested["ids"])
	assert.Equal(t, []any{"-9007199254740993"}, nested["typed"])
	assert.Equal(t, "9007199254740993", nested["inner"].(map[string]any)["id"])
}

func TestSanitizeBareValues(t *testing.T) {
	assert.Nil(t, Sanitize(nil))
	assert.Equal(t, "9007199254740992", Sanitize(int64(9007199254740992)))
	assert.Equal(t, int64(MaxSafeInteger), Sanitize(int64(MaxSafeInteger)))
	assert.Equal(t, json.Number("1.5e300"), Sanitize(json.Number("1.5e300")))
	assert.Equal(t, json.Number("12"), Sanitize(json.Number("12")))
	assert.Equal(t, 2.5, Sanitize(2.5))
}

func TestMarshalStructWithOversizedField(t *testing.T) {
	type row struct {
		ID        int64     `json:"id"`
		Small     int       `json:"small"`
		CreatedAt time.Time `json:"createdAt"`
		Report    ID        `json:"reportId"`
	}

	body, err := Marshal([]row{{
		ID:        9007199254740993,
		Small:     10,
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Report:    "1152921504606846977",
	}})
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id": "9007199254740993",
		"small": 10,
		"createdAt": "2023-01-01T00:00:00Z",
		"reportId": "1152921504606846977"
	}]`, string(body))
}
