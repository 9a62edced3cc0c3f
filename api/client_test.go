package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-passkey-client/api"
	"github.com/jrsteele09/go-passkey-client/tokens"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, provider tokens.Provider) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := api.New(api.Config{
		BaseURL:       srv.URL,
		ClientPackage: "io.test.client",
		Tokens:        provider,
	})
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := api.New(api.Config{})
		require.Error(t, err)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`{}`))
		}))
		t.Cleanup(srv.Close)

		client, err := api.New(api.Config{BaseURL: srv.URL + "/", Tokens: tokens.Static("tok")})
		require.NoError(t, err)
		require.NoError(t, client.Get(context.Background(), "/passkeys", nil, nil))
		require.Equal(t, "/passkeys", gotPath)
	})
}

func TestHeaders(t *testing.T) {
	var gotAuth, gotPackage, gotContentType string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Auth-Token")
		gotPackage = r.Header.Get("X-Client-Package")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}), tokens.Static("secret-token"))

	err := client.Post(context.Background(), "/passkeys/registration/finish", nil, map[string]string{"k": "v"}, nil)
	require.NoError(t, err)
	require.Equal(t, "secret-token", gotAuth)
	require.Equal(t, "io.test.client", gotPackage)
	require.Equal(t, "application/json", gotContentType)
}

func TestAuthenticationRequired(t *testing.T) {
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}), tokens.NewStore()) // empty store: no token

	err := client.Get(context.Background(), "/passkeys", nil, nil)
	require.ErrorIs(t, err, api.ErrAuthenticationRequired)
	require.Zero(t, requests, "no network call may be issued without a token")
}

func TestUnauthenticatedRequestSkipsToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Auth-Token")
		w.Write([]byte(`{}`))
	}), tokens.NewStore())

	err := client.Do(context.Background(), api.Request{
		Method: http.MethodPost,
		Path:   "/users/two-factor/passkeys/begin",
		Body:   map[string]string{"sessionID": "s"},
	}, nil)
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"session expired"}`))
	}), tokens.Static("tok"))

	err := client.Get(context.Background(), "/passkeys", nil, nil)
	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, http.StatusConflict, serverErr.StatusCode)
	require.Contains(t, string(serverErr.Body), "session expired")
	require.True(t, api.IsStatus(err, http.StatusConflict))
	require.False(t, api.IsStatus(err, http.StatusNotFound))
}

func TestNetworkError(t *testing.T) {
	client, err := api.New(api.Config{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		Tokens:  tokens.Static("tok"),
	})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/passkeys", nil, nil)
	require.ErrorIs(t, err, api.ErrNetwork)
}

func TestQueryEncoding(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}), tokens.Static("tok"))

	query := url.Values{}
	query.Set("sessionID", "id with spaces & symbols=+")
	err := client.Post(context.Background(), "/finish", query, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "id with spaces & symbols=+", gotQuery.Get("sessionID"))
}

func TestResponseDecoding(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"passkeys":[{"id":"pk-1"}]}`))
	}), tokens.Static("tok"))

	var out struct {
		Passkeys []struct {
			ID string `json:"id"`
		} `json:"passkeys"`
	}
	require.NoError(t, client.Get(context.Background(), "/passkeys", nil, &out))
	require.Len(t, out.Passkeys, 1)
	require.Equal(t, "pk-1", out.Passkeys[0].ID)
}
