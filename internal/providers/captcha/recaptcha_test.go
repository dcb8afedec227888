package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newVerifyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
		assert.NotEmpty(t, r.PostForm.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestVerify_PassesAboveThreshold(t *testing.T) {
	srv := newVerifyServer(t, `{"success":true,"score":0.9}`)
	defer srv.Close()

	v := NewRecaptcha("secret-key", nil).WithVerifyURL(srv.URL)
	assert.True(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_PassesAtThreshold(t *testing.T) {
	srv := newVerifyServer(t, `{"success":true,"score":0.5}`)
	defer srv.Close()

	v := NewRecaptcha("secret-key", nil).WithVerifyURL(srv.URL)
	assert.True(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_FailsBelowThreshold(t *testing.T) {
	srv := newVerifyServer(t, `{"success":true,"score":0.3}`)
	defer srv.Close()

	v := NewRecaptcha("secret-key", nil).WithVerifyURL(srv.URL)
	assert.False(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_FailsWhenEndpointRejects(t *testing.T) {
	srv := newVerifyServer(t, `{"success":false,"score":0.9,"error-codes":["invalid-input-response"]}`)
	defer srv.Close()

	v := NewRecaptcha("secret-key", nil).WithVerifyURL(srv.URL)
	assert.False(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_FailsOnMalformedResponse(t *testing.T) {
	srv := newVerifyServer(t, `not json at all`)
	defer srv.Close()

	v := NewRecaptcha("secret-key", nil).WithVerifyURL(srv.URL)
	assert.False(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_FailsClosedOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // endpoint is gone

	v := NewRecaptcha("secret-key", nil).WithVerifyURL(srv.URL)
	assert.False(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_FailsClosedWithoutSecret(t *testing.T) {
	v := NewRecaptcha("", nil)
	assert.False(t, v.Verify(context.Background(), "tok"))
}

func TestVerify_FailsOnEmptyToken(t *testing.T) {
	v := NewRecaptcha("secret-key", nil)
	assert.False(t, v.Verify(context.Background(), ""))
}
