package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Citrus & Herb Chicken!":   "citrus-herb-chicken",
		"  Test Soup  ":            "test-soup",
		"--Already-slugged--":      "already-slugged",
		"Grandma's 2nd Best Pie":   "grandma-s-2nd-best-pie",
		"!!!":                      "",
		"":                         "",
		"Crème brûlée":             "cr-me-br-l-e",
		"multiple   spaces\tand\n": "multiple-spaces-and",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for c := 32; c < 127; c++ {
		in := "Pre " + string(rune(c)) + " Post" + string(rune(c))
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "1.01", FormatQuantity(1.005))
	assert.Equal(t, "2", FormatQuantity(2.00))
	assert.Equal(t, "1.33", FormatQuantity(1.333))
	assert.Equal(t, "10", FormatQuantity(10))
	assert.Equal(t, "0.5", FormatQuantity(0.5))
	assert.Equal(t, "0.25", FormatQuantity(0.25))
}

func TestScaleRatio(t *testing.T) {
	base := 4.0
	zero := 0.0
	negative := -2.0

	assert.Equal(t, 2.0, ScaleRatio("8", &base))
	assert.Equal(t, 0.5, ScaleRatio(" 2 ", &base))
	assert.Equal(t, 1.0, ScaleRatio("", &base))
	assert.Equal(t, 1.0, ScaleRatio("abc", &base))
	assert.Equal(t, 1.0, ScaleRatio("-3", &base))
	assert.Equal(t, 1.0, ScaleRatio("0", &base))
	assert.Equal(t, 1.0, ScaleRatio("Inf", &base))
	assert.Equal(t, 1.0, ScaleRatio("8", nil))
	assert.Equal(t, 1.0, ScaleRatio("8", &zero))
	assert.Equal(t, 1.0, ScaleRatio("8", &negative))
}

func TestScaledQuantity(t *testing.T) {
	two := 2.0
	third := 1.333
	zero := 0.0
	nan := math.NaN()

	got := ScaledQuantity(&two, 0.5)
	require.NotNil(t, got)
	assert.Equal(t, "1", *got)

	got = ScaledQuantity(&third, 1)
	require.NotNil(t, got)
	assert.Equal(t, "1.33", *got)

	got = ScaledQuantity(&two, 2)
	require.NotNil(t, got)
	assert.Equal(t, "4", *got)

	assert.Nil(t, ScaledQuantity(nil, 2))
	assert.Nil(t, ScaledQuantity(&zero, 3))
	assert.Nil(t, ScaledQuantity(&nan, 1))
}

func TestIngredientLabel(t *testing.T) {
	qty := "2"
	unit := "cups"
	blank := "  "

	assert.Equal(t, "2 cups Water", IngredientLabel(&qty, &unit, "Water"))
	assert.Equal(t, "cups Water", IngredientLabel(nil, &unit, "Water"))
	assert.Equal(t, "2 Water", IngredientLabel(&qty, &blank, "Water"))
	assert.Equal(t, "Salt", IngredientLabel(nil, nil, " Salt "))
}

func TestUniqueNames(t *testing.T) {
	got := UniqueNames([]string{" Dinner ", "quick", "", "DINNER", "Vegan", "  ", "Quick"})
	assert.Equal(t, []string{"DINNER", "Quick", "Vegan"}, got)
	assert.Empty(t, UniqueNames(nil))
}

func TestOptionalNumber_Unmarshal(t *testing.T) {
	var payload struct {
		A OptionalNumber `json:"a"`
		B OptionalNumber `json:"b"`
		C OptionalNumber `json:"c"`
		D OptionalNumber `json:"d"`
		E OptionalNumber `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a": 2.5, "b": "3", "c": "", "d": null, "e": "a pinch"}`), &payload)
	require.NoError(t, err)

	require.NotNil(t, payload.A.Value)
	assert.Equal(t, 2.5, *payload.A.Value)
	require.NotNil(t, payload.B.Value)
	assert.Equal(t, 3.0, *payload.B.Value)
	assert.Nil(t, payload.C.Value)
	assert.Nil(t, payload.D.Value)
	assert.Nil(t, payload.E.Value)
}
