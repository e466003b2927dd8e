package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	var gotToken string
	handler := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = IdentityFromRequest(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("token propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/workout-question", nil)
		req.Header.Set(IdentityHeader, " user-42 ")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-42", gotToken)
	})

	t.Run("no header, no identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/workout-question", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, gotToken)
	})
}
