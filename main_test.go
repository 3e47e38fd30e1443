package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Solids/internal/auth"
	"Solids/internal/config"
	"Solids/internal/repo"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{TokenKey: "test", RateLimit: 1000, RateBurst: 1000, StaticDir: t.TempDir()}
	router := mux.NewRouter()
	HandleList(router, cfg, repo.NewMemory(), zap.NewNop())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes_Calculator(t *testing.T) {
	srv := newServer(t)

	res, err := http.Post(srv.URL+"/api/tools/solids/calc", "application/json",
		strings.NewReader(`{"shape":"cube","mode":"volume","values":{"s":"2"}}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out struct {
		Lines []struct{ Label, Value, Unit string } `json:"lines"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "8.000", out.Lines[0].Value)

	res, err = http.Get(srv.URL + "/api/tools/solids/shapes")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRoutes_History(t *testing.T) {
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/api/user/calculations")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, err = http.Post(srv.URL+"/api/register", "application/json",
		strings.NewReader(`{"login":"dana","email":"d@example.com","password":"secret1"}`))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var session *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/user/calculations",
		strings.NewReader(`{"shape":"sphere","mode":"both","values":{"r":"3"}}`))
	require.NoError(t, err)
	req.AddCookie(session)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/user/calculations", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []struct {
		Shape   string `json:"shape"`
		Outcome struct {
			Lines []struct{ Value string } `json:"lines"`
		} `json:"outcome"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "sphere", list[0].Shape)
	assert.Equal(t, "113.097", list[0].Outcome.Lines[0].Value)
	assert.Equal(t, "113.097", list[0].Outcome.Lines[1].Value)
}
