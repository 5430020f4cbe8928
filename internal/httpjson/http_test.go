package httpjson

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v", r.Header.Get("X-Test"))
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"order_1"}`))
	}))
	defer srv.Close()

	var out struct {
		ID string `json:"id"`
	}
	_, status, err := SendJSON(context.Background(), nil, srv.URL+"/ok", map[string]int{"a": 1}, map[string]string{"X-Test": "v"}, &out, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "order_1", out.ID)

	raw, status, err := SendJSON(context.Background(), nil, srv.URL+"/fail", nil, map[string]string{"X-Test": "v"}, nil, zerolog.Nop())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 400, status)
	assert.Equal(t, `{"error":"bad"}`, string(raw))
}
