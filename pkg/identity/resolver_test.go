package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("fills missing email through secondary lookup", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"email": "b@y.com", "primary": false, "verified": true},
				{"email": "c@y.com", "primary": true, "verified": true}
			]`))
		}))
		defer srv.Close()

		r := NewResolver(NewEmailFetcher(WithEmailEndpoint(ProviderGithub, srv.URL)))

		id, err := r.Resolve(context.Background(), ProviderGithub, "id",
			map[string]any{"id": float64(42), "login": "octo"}, "tok")
		require.NoError(t, err)
		assert.Equal(t, "c@y.com", id.Email)
	})

	t.Run("keeps mapped email without a lookup", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(NewEmailFetcher(WithEmailEndpoint(ProviderGithub, "http://127.0.0.1:0")))

		id, err := r.Resolve(context.Background(), ProviderGithub, "id",
			map[string]any{"id": float64(42), "email": "set@y.com"}, "tok")
		require.NoError(t, err)
		assert.Equal(t, "set@y.com", id.Email)
	})

	t.Run("degrades to empty email when the lookup fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		r := NewResolver(NewEmailFetcher(WithEmailEndpoint(ProviderGithub, srv.URL)))

		id, err := r.Resolve(context.Background(), ProviderGithub, "id",
			map[string]any{"id": float64(42)}, "tok")
		require.NoError(t, err)
		assert.Empty(t, id.Email)
	})

	t.Run("propagates malformed payload as fatal", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(nil)

		_, err := r.Resolve(context.Background(), ProviderKakao, "id", map[string]any{"id": float64(1)}, "")
		var malformed *MalformedPayloadError
		require.ErrorAs(t, err, &malformed)
	})

	t.Run("skips lookup for providers without an endpoint", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(NewEmailFetcher())

		id, err := r.Resolve(context.Background(), ProviderGoogle, "sub",
			map[string]any{"sub": "g-1"}, "tok")
		require.NoError(t, err)
		assert.Empty(t, id.Email)
	})
}
