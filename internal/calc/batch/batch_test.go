package batch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Solids/internal/calc/solid"
)

func TestCalculateSolids(t *testing.T) {
	res, err := CalculateSolids(SolidBatchInput{Items: []solid.Input{
		{Shape: solid.Cube, Mode: "both", Values: solid.RawValues{"s": "2"}},
		{Shape: solid.Sphere, Values: solid.RawValues{"r": "-1"}},
		{Shape: "prism", Mode: "surface"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 1, res.Failed)

	require.NotNil(t, res.Results[0].Outcome)
	assert.Equal(t, "Volume: 8.000 units³\nSurface area: 24.000 units²", res.Results[0].Outcome.Text())

	assert.Nil(t, res.Results[1].Outcome)
	assert.Equal(t, solid.MsgInvalid, res.Results[1].Error)

	require.NotNil(t, res.Results[2].Outcome)
	assert.Equal(t, solid.MsgNoSurface, res.Results[2].Outcome.Message)
	assert.Equal(t, 2, res.Results[2].Index)
}

func TestCalculateSolids_Bounds(t *testing.T) {
	_, err := CalculateSolids(SolidBatchInput{})
	require.Error(t, err)

	_, err = CalculateSolids(SolidBatchInput{Items: make([]solid.Input, MaxItems+1)})
	require.Error(t, err)
}

func TestHandler_Solids(t *testing.T) {
	h := &Handler{}
	body := `{"items":[{"shape":"cylinder","mode":"both","values":{"r":"1","h":"1"}}]}`
	rec := httptest.NewRecorder()
	h.Solids(rec, httptest.NewRequest(http.MethodPost, "/batch", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out SolidBatchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out.Results, 1)
	require.NotNil(t, out.Results[0].Outcome)
	assert.Equal(t, "3.142", out.Results[0].Outcome.Lines[0].Value)
	assert.Equal(t, "12.566", out.Results[0].Outcome.Lines[1].Value)

	rec = httptest.NewRecorder()
	h.Solids(rec, httptest.NewRequest(http.MethodPost, "/batch", strings.NewReader(`{"items":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
