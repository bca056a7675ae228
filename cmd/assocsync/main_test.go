package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/assocsync/internal/config"
	"github.com/johnwards/assocsync/internal/crmfake"
	"github.com/johnwards/assocsync/internal/testhelpers"
)

func setupServer(t *testing.T, authToken string) (*httptest.Server, *crmfake.Server) {
	t.Helper()
	fake := crmfake.New("crm-token")
	crm := httptest.NewServer(fake.Handler())
	t.Cleanup(crm.Close)

	c := config.Config{
		AuthToken: authToken,
		HubSpot:   config.HubSpot{BaseURL: crm.URL, Token: "crm-token"},
	}
	srv := httptest.NewServer(newHandler(c, testhelpers.NewMigratedDB(t), nil))
	t.Cleanup(srv.Close)
	return srv, fake
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := setupServer(t, "")

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var env struct {
		Success bool   `json:"success"`
		Data    string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, "No route found for GET /nope", env.Data)
}

func TestServeRequiresAuthToken(t *testing.T) {
	srv, fake := setupServer(t, "secret")

	resp, err := http.Get(srv.URL + "/associations/definitions/contacts/companies?customerId=cust-1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, fake.Requests())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/associations/definitions/contacts/companies?customerId=cust-1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, fake.Requests())
}

func TestServeMappingRoundTrip(t *testing.T) {
	srv, fake := setupServer(t, "")

	body := `{"nativeAssociationId":"a-1","fromObjectType":"contacts","toObjectType":"companies",
		"fromHubSpotObjectId":"1","toHubSpotObjectId":"2","associationTypeId":1,"customerId":"cust-1"}`
	resp, err := http.Post(srv.URL+"/associations/mappings", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []int{1}, fake.AssociationTypes("contacts", "1", "companies", "2"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.Log{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, slog.LevelWarn.String(), line["level"])

	_, err = newLogger(config.Log{Level: "loud"}, &buf)
	assert.Error(t, err)
	_, err = newLogger(config.Log{Level: "info", Format: "xml"}, &buf)
	assert.Error(t, err)
}
