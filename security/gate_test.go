package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSingleUse(t *testing.T) {
	g := NewGate()
	assert.False(t, g.Ready())

	g.Present("tok-1")
	assert.True(t, g.Ready())

	assert.Equal(t, "tok-1", g.Consume())
	assert.False(t, g.Ready())
	assert.Equal(t, "", g.Consume())
}

func TestGateIgnoresEmptyPresent(t *testing.T) {
	g := NewGate()
	g.Present("")
	assert.False(t, g.Ready())

	g.Present("tok-1")
	g.Present("tok-2") // re-verification replaces the held token
	assert.Equal(t, "tok-2", g.Consume())
}

func TestVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("response") == "good" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL, "secret", zerolog.Nop())

	ok, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifierNoSecret(t *testing.T) {
	v := NewVerifier("http://unused", "", zerolog.Nop())
	_, err := v.Verify(context.Background(), "tok")
	assert.Error(t, err)
}
