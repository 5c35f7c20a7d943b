package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)

	token, err := m.GenerateAccessToken(42)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestJWTRejectsForeignSecretAndExpiry(t *testing.T) {
	token, err := NewJWTManager("other", time.Minute).GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Minute).ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Minute).ParseAndValidate(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTRejectsOtherAlgorithmsAndSubjects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.ParseAndValidate(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "1",
	}}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.ParseAndValidate(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.UserIDFromToken(badSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newIdentityRouter(m *JWTManager, trustHeader bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Identity(m, trustHeader), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestIdentityMiddleware(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	token, err := m.GenerateAccessToken(7)
	require.NoError(t, err)
	expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(7)
	require.NoError(t, err)

	tests := []struct {
		name        string
		trustHeader bool
		headers     map[string]string
		wantCode    int
		wantBody    string
	}{
		{"bearer", false, map[string]string{"Authorization": "Bearer " + token}, http.StatusOK, `{"id":7}`},
		{"bearer wins over header", true, map[string]string{"Authorization": "Bearer " + token, UserHeader: "9"}, http.StatusOK, `{"id":7}`},
		{"trusted header", true, map[string]string{UserHeader: "3"}, http.StatusOK, `{"id":3}`},
		{"untrusted header", false, map[string]string{UserHeader: "3"}, http.StatusUnauthorized, ""},
		{"malformed header", true, map[string]string{UserHeader: "abc"}, http.StatusUnauthorized, ""},
		{"bad scheme", true, map[string]string{"Authorization": "Basic xyz"}, http.StatusUnauthorized, ""},
		{"bad token", true, map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"expired token", true, map[string]string{"Authorization": "Bearer " + expired}, http.StatusUnauthorized, `{"error":"token expired"}`},
		{"missing", true, nil, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newIdentityRouter(m, tt.trustHeader)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
