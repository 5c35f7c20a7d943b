package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/events"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type stubUsers map[int64]*user.User

func (s stubUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

type stubItems map[int64]*item.Item

func (s stubItems) GetByID(_ context.Context, id int64) (*item.Item, error) {
	if it, ok := s[id]; ok {
		return it, nil
	}
	return nil, item.ErrNotFound
}

var now = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := stubUsers{
		1: {ID: 1, Name: "owner"},
		2: {ID: 2, Name: "booker"},
		3: {ID: 3, Name: "stranger"},
	}
	items := stubItems{
		10: {ID: 10, OwnerID: 1, Name: "drill", Available: true},
		11: {ID: 11, OwnerID: 1, Name: "ladder", Available: false},
	}

	svc := booking.NewService(booking.NewMemoryRepository(), users, items, events.NopPublisher{}, zap.NewNop(),
		booking.WithClock(func() time.Time { return now }))

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth.Identity(auth.NewJWTManager("secret", time.Minute), true))
	return r
}

func do(r *gin.Engine, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(auth.UserHeader, strconv.FormatInt(userID, 10))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBody(itemID int64, start, end time.Duration) gin.H {
	return gin.H{"item_id": itemID, "start": now.Add(start), "end": now.Add(end)}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateAndGetBooking(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/v1/bookings", 2, createBody(10, time.Hour, 2*time.Hour))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[BookingResponse](t, w)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "WAITING", created.Status)
	assert.Equal(t, ItemTag{ID: 10, Name: "drill", OwnerID: 1}, created.Item)
	assert.Equal(t, int64(2), created.Booker.ID)
	assert.Equal(t, "booker", created.Booker.Name)

	w = do(r, http.MethodGet, "/v1/bookings/1", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[BookingResponse](t, w)
	assert.True(t, got.Start.Equal(created.Start))
	assert.True(t, got.End.Equal(created.End))

	w = do(r, http.MethodGet, "/v1/bookings/1", 3, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/v1/bookings/99", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingStatusCodes(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/v1/bookings", 2, createBody(10, time.Hour, 2*time.Hour)).Code)

	tests := []struct {
		name   string
		userID int64
		body   any
		want   int
	}{
		{"no identity", 0, createBody(10, 3*time.Hour, 4*time.Hour), http.StatusUnauthorized},
		{"malformed body", 2, gin.H{"item_id": "x"}, http.StatusBadRequest},
		{"unknown booker", 42, createBody(10, 3*time.Hour, 4*time.Hour), http.StatusNotFound},
		{"unknown item", 2, createBody(99, 3*time.Hour, 4*time.Hour), http.StatusNotFound},
		{"end before start", 2, createBody(10, 4*time.Hour, 3*time.Hour), http.StatusBadRequest},
		{"end equals start", 2, createBody(10, 3*time.Hour, 3*time.Hour), http.StatusBadRequest},
		{"unavailable", 2, createBody(11, 3*time.Hour, 4*time.Hour), http.StatusBadRequest},
		{"own item", 1, createBody(10, 3*time.Hour, 4*time.Hour), http.StatusForbidden},
		{"overlap", 3, createBody(10, 90*time.Minute, 150*time.Minute), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/v1/bookings", tt.userID, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestApproveBookingEndpoint(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/v1/bookings", 2, createBody(10, time.Hour, 2*time.Hour)).Code)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/v1/bookings/1", 1, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/v1/bookings/1?approved=maybe", 1, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPatch, "/v1/bookings/1?approved=true", 2, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/v1/bookings/7?approved=true", 1, nil).Code)

	w := do(r, http.MethodPatch, "/v1/bookings/1?approved=true", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decode[BookingResponse](t, w).Status)

	w = do(r, http.MethodPatch, "/v1/bookings/1?approved=false", 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"booking already processed"}`, w.Body.String())
}

func TestListBookingEndpoints(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/v1/bookings", 2, createBody(10, -3*time.Hour, -2*time.Hour)).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/v1/bookings", 2, createBody(10, time.Hour, 2*time.Hour)).Code)

	w := do(r, http.MethodGet, "/v1/bookings", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]BookingResponse](t, w)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID, "latest start first")

	w = do(r, http.MethodGet, "/v1/bookings?state=past", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	past := decode[[]BookingResponse](t, w)
	require.Len(t, past, 1)
	assert.Equal(t, int64(1), past[0].ID)

	w = do(r, http.MethodGet, "/v1/bookings/owner?state=FUTURE", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	future := decode[[]BookingResponse](t, w)
	require.Len(t, future, 1)
	assert.Equal(t, int64(2), future[0].ID)

	w = do(r, http.MethodGet, "/v1/bookings/owner?state=REJECTED", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/bookings?state=UNSUPPORTED_STATUS", 2, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unknown state: UNSUPPORTED_STATUS"}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/bookings", 42, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
