package solid_test

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

func post(t *testing.T, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &solid.Handler{}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Calc(rec, req)
	return rec
}

func TestHandler_CalcBoth(t *testing.T) {
	rec := post(t, "/calc", `{"shape":"cube","mode":"both","values":{"s":"2"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out solid.Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, solid.Cube, out.Shape)
	assert.Equal(t, solid.ModeBoth, out.Mode)
	require.NotNil(t, out.Volume)
	require.NotNil(t, out.SurfaceArea)
	assert.Equal(t, 8.0, *out.Volume)
	assert.Equal(t, 24.0, *out.SurfaceArea)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "24.000", out.Lines[1].Value)
}

func TestHandler_CalcNumbersAndNull(t *testing.T) {
	rec := post(t, "/calc", `{"shape":"cylinder","values":{"r":1,"h":null}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out solid.Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, solid.ModeVolume, out.Mode)
	assert.Equal(t, "Volume: 0.000 units³", out.Text())
}

func TestHandler_CalcStrict(t *testing.T) {
	rec := post(t, "/calc", `{"shape":"cylinder","values":{"r":"1","h":""},"strict":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), solid.MsgIncomplete)
}

func TestHandler_CalcInvalid(t *testing.T) {
	for _, body := range []string{
		`{"shape":"cube","values":{"s":"-2"}}`,
		`{"shape":"cube","values":{"s":"two"}}`,
		`{"shape":"sphere","mode":"surface","values":{"r":"3","x":-1}}`,
	} {
		rec := post(t, "/calc", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), solid.MsgInvalid, body)
	}

	rec := post(t, "/calc", `{"shape":"cube","mode":"area"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, "/calc", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")
}

func TestHandler_CalcHTML(t *testing.T) {
	rec := post(t, "/calc?format=html", `{"shape":"blob","mode":"both","values":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<em>Unable to compute with given inputs.</em>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandler_Shapes(t *testing.T) {
	h := &solid.Handler{}
	rec := httptest.NewRecorder()
	h.Shapes(rec, httptest.NewRequest(http.MethodGet, "/shapes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cat []struct {
		Shape  string `json:"shape"`
		Label  string `json:"label"`
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cat))
	require.Len(t, cat, 10)
	assert.Equal(t, "torus", cat[7].Shape)
	assert.Equal(t, "R", cat[7].Fields[0].Name)
}
