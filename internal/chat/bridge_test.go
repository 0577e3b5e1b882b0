package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talknest/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "chat-secret"

func TestStreamBridge_UpsertUser(t *testing.T) {
	var (
		gotPath   string
		gotKey    string
		gotAuth   string
		gotBody   upsertRequest
		gotAuthTy string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotAuth = r.Header.Get("Authorization")
		gotAuthTy = r.Header.Get("Stream-Auth-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":{}}`))
	}))
	defer srv.Close()

	b := NewStreamBridge(srv.URL+"/", "key-1", testSecret, time.Second)
	user := FromModel(&models.User{ID: 12, FullName: "Ada", ProfilePic: "https://img/ada.png"})

	require.NoError(t, b.UpsertUser(context.Background(), user))
	assert.Equal(t, "/users", gotPath)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "jwt", gotAuthTy)
	require.Contains(t, gotBody.Users, "12")
	assert.Equal(t, "Ada", gotBody.Users["12"].Name)
	assert.Equal(t, "https://img/ada.png", gotBody.Users["12"].Image)

	parsed, err := jwt.Parse(gotAuth, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, true, claims["server"])
}

func TestStreamBridge_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	b := NewStreamBridge(srv.URL, "key", testSecret, time.Second)
	err := b.UpsertUser(context.Background(), User{ID: "1", Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestStreamBridge_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	b := NewStreamBridge(url, "key", testSecret, 200*time.Millisecond)
	assert.Error(t, b.UpsertUser(context.Background(), User{ID: "1", Name: "x"}))
}

func TestStreamBridge_CancelledContext(t *testing.T) {
	b := NewStreamBridge("http://127.0.0.1:1", "key", testSecret, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.UpsertUser(ctx, User{ID: "1"}), context.Canceled)
}

func TestNewBridge_NoopWithoutCredentials(t *testing.T) {
	b := NewBridge("http://chat", "", "", 0)
	_, ok := b.(NoopBridge)
	assert.True(t, ok)
	assert.NoError(t, b.UpsertUser(context.Background(), User{ID: "1"}))

	_, ok = NewBridge("http://chat", "k", "s", 0).(*StreamBridge)
	assert.True(t, ok)
}

func TestTokenIssuer_UserToken(t *testing.T) {
	token, err := NewTokenIssuer(testSecret).UserToken(5)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.Equal(t, "5", parsed.Claims.(jwt.MapClaims)["user_id"])

	_, err = NewTokenIssuer("").UserToken(5)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
