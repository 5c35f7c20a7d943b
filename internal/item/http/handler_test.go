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

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// fakeItems implements item.Service over a fixed set of items.
type fakeItems struct {
	items map[int64]*item.Item
}

func (f *fakeItems) Create(_ context.Context, req item.CreateRequest) (*item.Item, error) {
	if req.Available == nil {
		return nil, item.ErrAvailableRequired
	}
	it := &item.Item{ID: int64(len(f.items) + 100), OwnerID: req.OwnerID, Name: req.Name, Description: req.Description, Available: *req.Available, RequestID: req.RequestID}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeItems) Update(_ context.Context, actingUserID, itemID int64, req item.UpdateRequest) (*item.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, item.ErrNotFound
	}
	if it.OwnerID != actingUserID {
		return nil, item.ErrNotOwner
	}
	if req.Name != nil {
		it.Name = *req.Name
	}
	return it, nil
}

func (f *fakeItems) GetByID(_ context.Context, id int64) (*item.Item, error) {
	if it, ok := f.items[id]; ok {
		return it, nil
	}
	return nil, item.ErrNotFound
}

func (f *fakeItems) ListByOwner(_ context.Context, ownerID int64) ([]*item.Item, error) {
	out := []*item.Item{}
	for id := int64(1); id <= 20; id++ {
		if it, ok := f.items[id]; ok && it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItems) ListByRequestIDs(context.Context, []int64) ([]*item.Item, error) {
	return nil, nil
}

func (f *fakeItems) Search(_ context.Context, text string) ([]*item.Item, error) {
	if text == "" {
		return []*item.Item{}, nil
	}
	return []*item.Item{f.items[10]}, nil
}

type stubWindows map[int64]booking.Adjacent

func (s stubWindows) LastAndNext(_ context.Context, ids []int64) (map[int64]booking.Adjacent, error) {
	out := map[int64]booking.Adjacent{}
	for _, id := range ids {
		if adj, ok := s[id]; ok {
			out[id] = adj
		}
	}
	return out, nil
}

type stubComments map[int64][]*comment.Comment

func (s stubComments) ListByItems(context.Context, []int64) (map[int64][]*comment.Comment, error) {
	return s, nil
}

var now = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	items := &fakeItems{items: map[int64]*item.Item{
		10: {ID: 10, OwnerID: 1, Name: "drill", Description: "cordless", Available: true},
		11: {ID: 11, OwnerID: 1, Name: "ladder", Description: "tall", Available: true},
	}}
	windows := stubWindows{
		10: {
			Last: &booking.Booking{ID: 1, Start: now.Add(-48 * time.Hour), End: now.Add(-24 * time.Hour), Booker: booking.UserSummary{ID: 2}},
			Next: &booking.Booking{ID: 2, Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour), Booker: booking.UserSummary{ID: 3}},
		},
	}
	comments := stubComments{
		10: {{ID: 5, Text: "great drill", AuthorName: "bob", CreatedAt: now}},
	}

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(items, windows, comments), auth.Identity(auth.NewJWTManager("secret", time.Minute), true))
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

func TestGetItemOwnerSeesBookings(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodGet, "/v1/items/10", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.LastBooking)
	require.NotNil(t, resp.NextBooking)
	assert.Equal(t, int64(1), resp.LastBooking.ID)
	assert.Equal(t, int64(2), resp.LastBooking.BookerID)
	assert.Equal(t, int64(2), resp.NextBooking.ID)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "great drill", resp.Comments[0].Text)
}

func TestGetItemOthersSeeOnlyComments(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodGet, "/v1/items/10", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["last_booking"])
	assert.Nil(t, resp["next_booking"])
	assert.Len(t, resp["comments"], 1)
}

func TestListMineHasEmptyArrays(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodGet, "/v1/items", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.NotNil(t, resp[0]["last_booking"])
	assert.Nil(t, resp[1]["last_booking"])
	assert.Equal(t, []any{}, resp[1]["comments"])
}

func TestItemWrites(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodPost, "/v1/items", 2, map[string]any{"name": "tent", "description": "2p", "available": true})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/v1/items", 2, map[string]any{"name": "tent", "description": "2p"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "available is required")

	w = do(r, http.MethodPatch, "/v1/items/10", 2, map[string]any{"name": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPatch, "/v1/items/10", 1, map[string]any{"name": "hammer drill"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"hammer drill"`)

	w = do(r, http.MethodGet, "/v1/items/99", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/v1/items/10", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchItems(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodGet, "/v1/items/search?text=dri", 3, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"drill"`)

	w = do(r, http.MethodGet, "/v1/items/search", 3, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
