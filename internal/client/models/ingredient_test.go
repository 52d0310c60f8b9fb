package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIngredient_DecodesRemotePayload(t *testing.T) {
	raw := `{"_id":"643d69a5c3f7b9001cfa093c","name":"Краторная булка N-200i","type":"bun",
		"proteins":80,"fat":24,"carbohydrates":53,"calories":420,"price":1255,
		"image":"https://code.s3.yandex.net/react/code/bun-02.png",
		"image_mobile":"https://code.s3.yandex.net/react/code/bun-02-mobile.png",
		"image_large":"https://code.s3.yandex.net/react/code/bun-02-large.png","__v":0}`

	var ing Ingredient
	require.NoError(t, json.Unmarshal([]byte(raw), &ing))

	require.Equal(t, "643d69a5c3f7b9001cfa093c", ing.ID)
	require.Equal(t, IngredientTypeBun, ing.Type)
	require.Equal(t, 1255, ing.Price)
	require.Equal(t, 420, ing.Calories)
	require.Equal(t, "https://code.s3.yandex.net/react/code/bun-02-mobile.png", ing.ImageMobile)
	require.True(t, ing.IsBun())
}

func TestIngredient_IsBun_FalseForFillings(t *testing.T) {
	require.False(t, Ingredient{Type: IngredientTypeMain}.IsBun())
	require.False(t, Ingredient{Type: IngredientTypeSauce}.IsBun())
}
