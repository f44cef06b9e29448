package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardmarket/pkg/core/config"
	"cardmarket/pkg/core/fiber_handle"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/security"
	"cardmarket/system/market/internal/app"
	"cardmarket/system/market/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const adminEmail = "admin@example.com"

type testServer struct {
	t   *testing.T
	f   *fiber.App
	app *app.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.Tables()...))

	a := app.NewApp(app.Deps{
		DB:   db,
		Log:  logger.GetLogger(),
		Auth: security.NewUserAuth([]byte("test-secret"), time.Hour),
		Market: config.MarketConfig{
			CheckoutLockTTL: 5,
			CardCacheTTL:    60,
			AdminEmails:     []string{adminEmail},
		},
	})

	f := fiber.New(fiber.Config{ErrorHandler: fiber_handle.ErrHandler})
	api := f.Group("/api")
	admin := f.Group("/admin")
	NewAuthController(a).RegisterRoutes(api)
	NewCatalogController(a).RegisterRoutes(api)
	NewCartController(a).RegisterRoutes(api)
	NewCommunityController(a).RegisterRoutes(api)
	NewEntityController(a).RegisterRoutes(admin)

	return &testServer{t: t, f: f, app: a}
}

// do 发送 JSON 请求，返回状态码与 data 字段
func (s *testServer) do(method, path, token string, body interface{}) (int, json.RawMessage) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.f.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &envelope)
	}
	return resp.StatusCode, envelope.Data
}

// signup 注册并登录，返回令牌与用户ID
func (s *testServer) signup(email, username string) (string, int64) {
	s.t.Helper()
	status, _ := s.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": email, "password": "segreta", "username": username,
	})
	require.Equal(s.t, http.StatusCreated, status)

	status, data := s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": email, "password": "segreta",
	})
	require.Equal(s.t, http.StatusOK, status)
	var login struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(data, &login))
	require.NotEmpty(s.t, login.Token)
	require.NotNil(s.t, login.User)
	return login.Token, login.User.ID
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)
	token, id := s.signup("alice@example.com", "alice")

	status, data := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me model.User
	require.NoError(t, json.Unmarshal(data, &me))
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "alice", me.Username)
	assert.Empty(t, me.Password)

	status, _ = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_RegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com", "alice")

	status, _ := s.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "alice@example.com", "password": "segreta", "username": "other",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "not-an-email", "password": "segreta", "username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "sbagliata",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEntities_RequireAdmin(t *testing.T) {
	s := newTestServer(t)
	userToken, _ := s.signup("bob@example.com", "bob")
	adminToken, _ := s.signup(adminEmail, "admin")

	status, _ := s.do(http.MethodGet, "/admin/entities/card", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/admin/entities/card", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/admin/entities/card", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/admin/entities/planet", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestEntities_CrudAndHidePasswords(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := s.signup(adminEmail, "admin")

	status, data := s.do(http.MethodPost, "/admin/entities/card", adminToken, fiber.Map{
		"name": "Charizard", "expansion": "Base Set", "rarity": "holo",
	})
	require.Equal(t, http.StatusCreated, status)
	var card model.Card
	require.NoError(t, json.Unmarshal(data, &card))
	require.NotZero(t, card.ID)

	status, data = s.do(http.MethodGet, fmt.Sprintf("/api/cards/%d", card.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var got model.Card
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Charizard", got.Name)

	status, _ = s.do(http.MethodPut, fmt.Sprintf("/admin/entities/card/%d", card.ID), adminToken, fiber.Map{
		"name": "Charizard", "expansion": "Base Set", "rarity": "rare",
	})
	require.Equal(t, http.StatusOK, status)

	status, data = s.do(http.MethodGet, fmt.Sprintf("/admin/entities/card/%d", card.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "rare", got.Rarity)

	// 用户实体不支持更新，读取时不输出密码
	status, _ = s.do(http.MethodPut, "/admin/entities/user/1", adminToken, fiber.Map{"username": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, data = s.do(http.MethodGet, "/admin/entities/user", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var users struct {
		Content []model.User `json:"content"`
	}
	require.NoError(t, json.Unmarshal(data, &users))
	require.NotEmpty(t, users.Content)
	for _, u := range users.Content {
		assert.Empty(t, u.Password)
	}

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/admin/entities/card/%d", card.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/cards/%d", card.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/admin/entities/card/%d", card.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCart_CheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken, sellerID := s.signup(adminEmail, "seller")
	buyerToken, buyerID := s.signup("buyer@example.com", "buyer")

	status, data := s.do(http.MethodPost, "/admin/entities/card", adminToken, fiber.Map{"name": "Mew"})
	require.Equal(t, http.StatusCreated, status)
	var card model.Card
	require.NoError(t, json.Unmarshal(data, &card))

	status, data = s.do(http.MethodPost, "/admin/entities/offer", adminToken, fiber.Map{
		"condition": "mint", "price": 25.5, "userId": sellerID, "cardId": card.ID,
	})
	require.Equal(t, http.StatusCreated, status)
	var offer model.Offer
	require.NoError(t, json.Unmarshal(data, &offer))

	status, _ = s.do(http.MethodGet, "/api/cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// 卖家不能把自己的报价加入购物车
	status, _ = s.do(http.MethodPost, fmt.Sprintf("/api/cart/offers/%d", offer.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/cart/offers/9999", buyerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, data = s.do(http.MethodPost, fmt.Sprintf("/api/cart/offers/%d", offer.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var cart model.Cart
	require.NoError(t, json.Unmarshal(data, &cart))
	assert.Equal(t, buyerID, cart.UserID)
	require.Len(t, cart.Offers, 1)

	status, data = s.do(http.MethodPost, "/api/orders/checkout", buyerToken, nil)
	require.Equal(t, http.StatusCreated, status)
	var order model.Order
	require.NoError(t, json.Unmarshal(data, &order))
	assert.Equal(t, buyerID, order.UserID)
	assert.InDelta(t, 25.5, order.Total, 0.001)
	assert.Equal(t, []int64{offer.ID}, order.OfferIDs)
	assert.NotEmpty(t, order.Code)

	status, data = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/offers", order.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var offers []model.Offer
	require.NoError(t, json.Unmarshal(data, &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, offer.ID, offers[0].ID)

	status, data = s.do(http.MethodGet, "/api/cart/", buyerToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &cart))
	assert.Empty(t, cart.Offers)

	// 购物车为空时不能结算，已售出的报价不能再加入购物车
	status, _ = s.do(http.MethodPost, "/api/orders/checkout", buyerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, fmt.Sprintf("/api/cart/offers/%d", offer.ID), buyerToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, data = s.do(http.MethodGet, "/api/orders/", buyerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var history []model.Order
	require.NoError(t, json.Unmarshal(data, &history))
	assert.Len(t, history, 1)

	status, _ = s.do(http.MethodGet, "/api/orders/0/offers", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCommunity_DiscussionsAndReviews(t *testing.T) {
	s := newTestServer(t)
	aliceToken, aliceID := s.signup("alice@example.com", "alice")
	bobToken, bobID := s.signup("bob@example.com", "bob")

	status, data := s.do(http.MethodPost, "/api/discussions/", aliceToken, fiber.Map{"topic-title": "Scambio Base Set"})
	require.Equal(t, http.StatusCreated, status)
	var d model.Discussion
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, aliceID, d.UserID)

	status, _ = s.do(http.MethodPost, "/api/discussions/", aliceToken, fiber.Map{"topic-title": "   "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, fmt.Sprintf("/api/discussions/%d/messages", d.ID), bobToken, fiber.Map{"text": "ci sto"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(http.MethodPost, "/api/discussions/9999/messages", bobToken, fiber.Map{"text": "ciao"})
	assert.Equal(t, http.StatusNotFound, status)

	status, data = s.do(http.MethodGet, fmt.Sprintf("/api/discussions/%d/messages", d.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var messages []model.Message
	require.NoError(t, json.Unmarshal(data, &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, bobID, messages[0].UserID)

	status, data = s.do(http.MethodPost, "/api/reviews/", bobToken, fiber.Map{
		"reviewedUserId": aliceID, "score": 4, "comment": "ottima venditrice",
	})
	require.Equal(t, http.StatusCreated, status)
	var review model.Review
	require.NoError(t, json.Unmarshal(data, &review))

	status, _ = s.do(http.MethodPost, "/api/reviews/", aliceToken, fiber.Map{"reviewedUserId": aliceID, "score": 5})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/reviews", aliceID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		Average float64        `json:"average"`
		Reviews []model.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.InDelta(t, 4.0, summary.Average, 0.001)
	assert.Len(t, summary.Reviews, 1)

	status, _ = s.do(http.MethodPost, "/api/removeRecensione", bobToken, fiber.Map{"idRecensione": review.ID})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCommunity_OnlyAuthorOrAdminDeletesReview(t *testing.T) {
	s := newTestServer(t)
	aliceToken, aliceID := s.signup("alice@example.com", "alice")
	bobToken, _ := s.signup("bob@example.com", "bob")
	malloryToken, _ := s.signup("mallory@example.com", "mallory")
	adminToken, _ := s.signup(adminEmail, "admin")

	review := func() int64 {
		status, data := s.do(http.MethodPost, "/api/reviews/", bobToken, fiber.Map{"reviewedUserId": aliceID, "score": 2})
		require.Equal(t, http.StatusCreated, status)
		var r model.Review
		require.NoError(t, json.Unmarshal(data, &r))
		return r.ID
	}

	id := review()
	status, _ := s.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", id), malloryToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(http.MethodPost, "/api/removeRecensione", malloryToken, fiber.Map{"idRecensione": id})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", id), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, data := s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/reviews", aliceID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		Reviews []model.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Len(t, summary.Reviews, 1)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", id), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	id = review()
	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", id), bobToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuth_MeAfterUserDeleted(t *testing.T) {
	s := newTestServer(t)
	token, id := s.signup("ghost@example.com", "ghost")
	adminToken, _ := s.signup(adminEmail, "admin")

	status, _ := s.do(http.MethodDelete, fmt.Sprintf("/admin/entities/user/%d", id), adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, data := s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, data)
}
