package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"restaurant-finder/internal/client"
	"restaurant-finder/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type brokenToken struct{}

func (brokenToken) Token(context.Context) (string, error) { return "", errors.New("disk gone") }

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL+"/", srv.Client(), staticToken("abc"))
	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "/auth/validate", nil, &out))

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, out["ok"])
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	tests := []struct {
		name   string
		tokens client.TokenSource
	}{
		{name: "nil_source", tokens: nil},
		{name: "empty_token", tokens: staticToken("")},
		{name: "unreadable_token", tokens: brokenToken{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var hasAuth bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, hasAuth = r.Header["Authorization"]
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			c := client.New(srv.URL, srv.Client(), testCase.tokens)
			require.NoError(t, c.Get(context.Background(), "/api/v1/restaurants", nil, nil))
			assert.False(t, hasAuth)
		})
	}
}

func TestClient_EncodesRepeatedQueryAndBody(t *testing.T) {
	var gotQuery url.Values
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, srv.Client(), nil)
	query := url.Values{"categories": {"Asian", "Japanese"}}
	require.NoError(t, c.Do(context.Background(), http.MethodPost, "/x", query, map[string]int{"rating": 5}, nil))

	assert.Equal(t, []string{"Asian", "Japanese"}, gotQuery["categories"])
	assert.Equal(t, float64(5), gotBody["rating"])
}

func TestClient_StructuredServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid username or password","error":"The provided credentials are incorrect.","status":401,"timestamp":"2024-03-01T10:15:30"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, srv.Client(), nil)
	err := c.Post(context.Background(), "/auth/login", map[string]string{"username": "x"}, nil)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid username or password", apiErr.Error())
	assert.Equal(t, "The provided credentials are incorrect.", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, 2024, apiErr.Timestamp.Year())
	assert.False(t, errors.Is(err, client.ErrNetwork))
	assert.True(t, client.IsUnauthorized(err))
}

func TestClient_UnstructuredServerError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "plain_text", status: http.StatusBadRequest, body: "bad rating\n", wantMessage: "bad rating"},
		{name: "empty", status: http.StatusInternalServerError, body: "", wantMessage: "Internal Server Error"},
		{name: "html", status: http.StatusBadGateway, body: "<html>oops</html>", wantMessage: "Bad Gateway"},
		{name: "spring_default", status: http.StatusForbidden, body: `{"status":403,"error":"Forbidden","path":"/x"}`, wantMessage: "Forbidden"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(testCase.status)
				w.Write([]byte(testCase.body))
			}))
			defer srv.Close()

			err := client.New(srv.URL, srv.Client(), nil).Get(context.Background(), "/x", nil, nil)
			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, testCase.wantMessage, apiErr.Error())
			assert.Equal(t, testCase.status, apiErr.Status)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)
	httpClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	c := client.New("http://backend", httpClient, nil)
	err := c.Get(context.Background(), "/api/v1/restaurants", nil, nil)

	assert.ErrorIs(t, err, client.ErrNetwork)
	var netErr *client.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.MethodGet, netErr.Method)
	assert.Contains(t, netErr.Error(), "connection refused")
	var apiErr *client.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_DecodeFailure(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)
	httpClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"id":`)),
		Header:     make(http.Header),
	}, nil).Once()

	var out struct{ ID int }
	err := client.New("http://backend", httpClient, nil).Get(context.Background(), "/x", nil, &out)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, client.ErrNetwork))
}
