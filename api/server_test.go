package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/raksh/borewell-capture/geo"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping() error {
	return p.err
}

func TestHealthz(t *testing.T) {
	viper.Set("server.version", "1.2.3")
	defer viper.Set("server.version", "")

	s := NewServer(nil, geo.Unsupported, nil, fakePinger{}, nil)
	defer s.Shutdown(context.Background())

	w := doRequest(s.setupRouter(), "GET", "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp["status"])
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestHealthzBackendDown(t *testing.T) {
	s := NewServer(nil, geo.Unsupported, nil, fakePinger{err: errors.New("no reachable servers")}, nil)
	defer s.Shutdown(context.Background())

	w := doRequest(s.setupRouter(), "GET", "/healthz", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errorInternalServer, resp)
}

func TestInformation(t *testing.T) {
	s, router := newTestServer(nil, geo.Unsupported, nil)
	defer s.Shutdown(context.Background())

	createDraft(t, router, nil, nil)

	w := doRequest(router, "GET", "/api/information", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Information struct {
			Locator     string `json:"locator"`
			Suggestions bool   `json:"suggestions"`
			Drafts      int    `json:"drafts"`
		} `json:"information"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "none", resp.Information.Locator)
	assert.False(t, resp.Information.Suggestions)
	assert.Equal(t, 1, resp.Information.Drafts)
}

func TestShutdownReleasesDrafts(t *testing.T) {
	s, router := newTestServer(nil, geo.Unsupported, nil)
	created := createDraft(t, router, nil, nil)

	d, err := s.drafts.GetDraft(created.ID)
	assert.NoError(t, err)

	assert.NoError(t, s.Shutdown(context.Background()))
	assert.Error(t, d.Context().Err())
}

func TestParseGeoPosition(t *testing.T) {
	lat, lng, acc, err := parseGeoPosition("22.72;75.86")
	assert.NoError(t, err)
	assert.Equal(t, 22.72, lat)
	assert.Equal(t, 75.86, lng)
	assert.Equal(t, float64(0), acc)

	_, _, acc, err = parseGeoPosition(" 22.72; 75.86; 12.5")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, acc)

	for _, bad := range []string{"", "22.72", "a;b", "91;0", "0;181", "1;2;x", "1;2;3;4"} {
		_, _, _, err := parseGeoPosition(bad)
		assert.Error(t, err, bad)
	}
}
