package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelier/models"
	"hotelier/session"
	"hotelier/storage"
	"hotelier/utils"
)

// fakeBackend is a minimal hotel API used to exercise the client's bearer
// and refresh-and-retry behavior.
type fakeBackend struct {
	srv *httptest.Server

	mu         sync.Mutex
	validToken string
	nextToken  string

	refreshCalls int32
	refreshFails bool
	refreshDelay time.Duration
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

func (b *fakeBackend) valid(tok string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return tok != "" && tok == b.validToken
}

func identity() models.Identity {
	return models.Identity{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: "guest"}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := &fakeBackend{validToken: "T1", nextToken: "T2"}

	r := gin.New()
	r.POST("/api/auth/login", func(c *gin.Context) {
		var creds models.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil || creds.Password != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "code": 1})
			return
		}
		id := identity()
		c.JSON(http.StatusOK, models.AuthResponse{AccessToken: b.validToken, TokenType: "bearer", Identity: &id})
	})
	r.POST("/api/auth/register", func(c *gin.Context) {
		var reg models.Registration
		if err := c.ShouldBindJSON(&reg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "code": 2})
			return
		}
		if reg.Email == "taken@example.com" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered", "code": 3})
			return
		}
		id := models.Identity{ID: "u2", Name: reg.Name, Email: reg.Email, Role: "guest"}
		c.JSON(http.StatusCreated, models.AuthResponse{AccessToken: b.validToken, TokenType: "bearer", Identity: &id})
	})
	r.POST("/api/auth/refresh", func(c *gin.Context) {
		atomic.AddInt32(&b.refreshCalls, 1)
		b.mu.Lock()
		fails, delay := b.refreshFails, b.refreshDelay
		b.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		if fails || bearer(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh credential expired", "code": 4})
			return
		}
		b.mu.Lock()
		b.validToken = b.nextToken
		tok := b.validToken
		b.mu.Unlock()
		c.JSON(http.StatusOK, models.AuthResponse{AccessToken: tok, TokenType: "bearer"})
	})
	r.POST("/api/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "revocation store down", "code": 5})
	})
	r.GET("/api/auth/me", func(c *gin.Context) {
		if !b.valid(bearer(c)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired", "code": 6})
			return
		}
		c.JSON(http.StatusOK, identity())
	})
	r.GET("/api/rooms", func(c *gin.Context) {
		applied := map[string]string{}
		for _, k := range []string{"check_in", "check_out", "guests", "min_price", "max_price"} {
			if v := c.Query(k); v != "" {
				applied[k] = v
			}
		}
		c.JSON(http.StatusOK, models.RoomList{
			Rooms: []models.Room{
				{ID: "sea-view", Name: "Sea View Suite", RoomType: "suite", NightlyRate: 2000, Capacity: 3},
				{ID: "garden", Name: "Garden Double", RoomType: "double", NightlyRate: 900, Capacity: 2},
			},
			FiltersApplied: applied,
			TotalCount:     2,
		})
	})
	r.POST("/api/bookings", func(c *gin.Context) {
		if !b.valid(bearer(c)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired", "code": 6})
			return
		}
		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "code": 2})
			return
		}
		c.JSON(http.StatusCreated, models.Booking{
			ID: "b1", RoomType: req.RoomType, CheckIn: req.CheckIn, CheckOut: req.CheckOut,
			GuestsCount: req.GuestsCount, Nights: 3, TotalPrice: 6000, Status: "confirmed",
			CreatedAt: time.Now(),
		})
	})
	r.POST("/api/ai/chat", func(c *gin.Context) {
		if !b.valid(bearer(c)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired", "code": 6})
			return
		}
		c.JSON(http.StatusOK, models.ChatResponse{Intent: "chat", ResponseText: "Welcome!"})
	})

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func newClient(t *testing.T, b *fakeBackend) (*Client, *session.Manager) {
	t.Helper()
	sess := session.NewManager(storage.NewMemoryStore(), nil)
	return New(b.srv.URL, 5*time.Second, sess, nil, false), sess
}

func TestLoginPopulatesSession(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)

	id, err := client.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "T1", sess.Token())
}

func TestLoginBadCredentials(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)

	_, err := client.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, utils.IsAuthError(err))

	snap := sess.Snapshot()
	assert.Equal(t, session.StatusError, snap.Status)
	assert.Equal(t, "invalid email or password", snap.LastErr)
	// Bad credentials never trigger the refresh path.
	assert.EqualValues(t, 0, atomic.LoadInt32(&b.refreshCalls))
}

func TestLoginServerUnreachable(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)
	b.srv.Close()

	_, err := client.Login(context.Background(), "ada@example.com", "secret")
	require.Error(t, err)
	assert.True(t, utils.IsNetworkError(err))
	assert.Equal(t, "server unreachable, please try again", sess.Snapshot().LastErr)
}

func TestRefreshAndRetryAdoptsNewToken(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)

	// Session holds T1 but the backend has already rotated to T2.
	sess.Set("T1", &models.Identity{ID: "u1"})
	b.mu.Lock()
	b.validToken = "T2"
	b.nextToken = "T2"
	b.mu.Unlock()

	id, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, "T2", sess.Token())
	assert.EqualValues(t, 1, atomic.LoadInt32(&b.refreshCalls))

	// Subsequent calls ride on T2 with no further refresh.
	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&b.refreshCalls))
}

func TestFailedRefreshClearsSessionAndSurfacesOriginalFailure(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)

	sess.Set("T1", &models.Identity{ID: "u1"})
	b.mu.Lock()
	b.validToken = "T2"
	b.refreshFails = true
	b.mu.Unlock()

	_, err := client.Me(context.Background())
	require.Error(t, err)

	var ae *utils.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "token expired", ae.Message) // the original call's failure

	assert.False(t, sess.Authenticated())
	assert.Equal(t, session.StatusAnonymous, sess.Snapshot().Status)
	assert.EqualValues(t, 1, atomic.LoadInt32(&b.refreshCalls))
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)

	sess.Set("T1", &models.Identity{ID: "u1"})
	b.mu.Lock()
	b.validToken = "T2"
	b.nextToken = "T2"
	b.refreshDelay = 200 * time.Millisecond
	b.mu.Unlock()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&b.refreshCalls))
	assert.Equal(t, "T2", sess.Token())
}

func TestNearExpiryTokenRefreshesBeforeDispatch(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)

	// A token that lapsed a minute ago. The backend still accepts it, so a
	// 401 never happens: only the proactive path can explain a refresh.
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("backend-only-secret"))
	require.NoError(t, err)

	sess.Set(stale, &models.Identity{ID: "u1"})
	b.mu.Lock()
	b.validToken = stale
	b.nextToken = "T2"
	b.mu.Unlock()

	id, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&b.refreshCalls))
	assert.Equal(t, "T2", sess.Token())
}

func TestRegisterConflictSurfacedVerbatim(t *testing.T) {
	b := newFakeBackend(t)
	client, _ := newClient(t, b)

	_, err := client.Register(context.Background(), models.Registration{
		Name: "Ada", Email: "taken@example.com", Password: "secret",
	})
	require.Error(t, err)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "email already registered", ce.Message)
}

func TestLogoutIsBestEffort(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)
	sess.Set("T1", &models.Identity{ID: "u1"})

	// The backend answers 500; the local session is still cleared and no
	// error escapes.
	client.Logout(context.Background())
	assert.False(t, sess.Authenticated())
}

func TestRoomsQueryEncoding(t *testing.T) {
	b := newFakeBackend(t)
	client, _ := newClient(t, b)

	list, err := client.Rooms(context.Background(), models.RoomQuery{
		CheckIn: "2025-03-15", CheckOut: "2025-03-18", Guests: 2, MaxPrice: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	assert.Equal(t, "2025-03-15", list.FiltersApplied["check_in"])
	assert.Equal(t, "2", list.FiltersApplied["guests"])
	assert.Equal(t, "2500", list.FiltersApplied["max_price"])
	_, hasMin := list.FiltersApplied["min_price"]
	assert.False(t, hasMin)
}

func TestCreateBookingCarriesBearer(t *testing.T) {
	b := newFakeBackend(t)
	client, sess := newClient(t, b)
	sess.Set("T1", &models.Identity{ID: "u1"})

	booked, err := client.CreateBooking(context.Background(), models.BookingRequest{
		RoomType: "suite", CheckIn: "2025-03-15", CheckOut: "2025-03-18", GuestsCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", booked.ID)
	assert.Equal(t, "confirmed", booked.Status)
}

func TestAnonymous401DoesNotRefresh(t *testing.T) {
	b := newFakeBackend(t)
	client, _ := newClient(t, b)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, utils.IsAuthError(err))
	assert.EqualValues(t, 0, atomic.LoadInt32(&b.refreshCalls))
}
