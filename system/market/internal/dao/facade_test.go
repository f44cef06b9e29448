package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFacade(t *testing.T) (*Facade, *Daos, fixture) {
	d, _ := setupDaos(t)
	fx := seed(t, d)
	return NewFacade(d, logger.GetLogger()), d, fx
}

// sample 为每种实体构造一个可保存的值，依赖的行会先写入
func sample(t *testing.T, f *Facade, kind model.Kind) model.Entity {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	switch kind {
	case model.KindCard:
		return &model.Card{Name: "Charizard", Expansion: "Base Set", Rarity: "holo", Description: "fire", ImageURL: "c.png"}
	case model.KindOffer:
		return &model.Offer{Condition: "nuovo", Price: 10, UserID: 1, CardID: 5}
	case model.KindOrder:
		offer := &model.Offer{Condition: "usato", Price: 3, UserID: 2, CardID: 5}
		require.NoError(t, f.Save(ctx, offer))
		return &model.Order{UserID: 1, Date: at, Total: 3, Code: "sample-order", OfferIDs: []int64{offer.ID}}
	case model.KindDiscussion:
		return &model.Discussion{UserID: 1, Title: "Cerco Mew"}
	case model.KindMessage:
		disc := &model.Discussion{UserID: 2, Title: "Valutazioni"}
		require.NoError(t, f.Save(ctx, disc))
		return &model.Message{DiscussionID: disc.ID, UserID: 1, Text: "ciao", SentAt: at}
	case model.KindReview:
		return &model.Review{AuthorID: 1, ReviewedUserID: 2, Score: 4, Comment: "veloce"}
	case model.KindExchange:
		o1 := &model.Offer{Condition: "nuovo", Price: 1, UserID: 1, CardID: 5}
		o2 := &model.Offer{Condition: "nuovo", Price: 2, UserID: 2, CardID: 5}
		require.NoError(t, f.Save(ctx, o1))
		require.NoError(t, f.Save(ctx, o2))
		return &model.Exchange{ProposerID: 1, ReceiverID: 2, OfferedOfferID: o1.ID, RequestedOfferID: o2.ID, Status: model.ExchangePending}
	case model.KindUser:
		return &model.User{Email: "carol@example.com", Password: "pw", Username: "carol", Name: "Carol"}
	}
	t.Fatalf("no sample for %s", kind)
	return nil
}

// normalize 统一时间的时区，便于整体比较
func normalize(e model.Entity) model.Entity {
	switch v := e.(type) {
	case *model.Order:
		v.Date = v.Date.UTC()
	case *model.Message:
		v.SentAt = v.SentAt.UTC()
	}
	return e
}

func TestFacade_SaveRetrieveDeleteEveryKind(t *testing.T) {
	for _, kind := range model.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			f, _, _ := setupFacade(t)
			ctx := context.Background()

			e := sample(t, f, kind)
			require.NoError(t, f.Save(ctx, e))
			require.NotZero(t, e.GetID())

			got, err := f.RetrieveByID(ctx, kind, e.GetID())
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, kind, got.Kind())
			assert.Equal(t, normalize(e), normalize(got))

			all, err := f.RetrieveAll(ctx, kind)
			require.NoError(t, err)
			rows := countRows(t, f, kind)
			assert.Equal(t, rows, int64(len(all)))

			require.NoError(t, f.Delete(ctx, kind, e.GetID()))
			got, err = f.RetrieveByID(ctx, kind, e.GetID())
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func countRows(t *testing.T, f *Facade, kind model.Kind) int64 {
	t.Helper()
	s := f.bindings[kind].typed
	counter, ok := s.(interface {
		Count(ctx context.Context) (int64, error)
	})
	require.True(t, ok, "%T", s)
	n, err := counter.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestFacade_MatchesDirectDao(t *testing.T) {
	f, d, fx := setupFacade(t)
	ctx := context.Background()

	viaFacade, err := f.RetrieveByID(ctx, model.KindCard, fx.card.ID)
	require.NoError(t, err)
	direct, err := d.Card.FindById(ctx, fx.card.ID)
	require.NoError(t, err)
	assert.Equal(t, direct, viaFacade)

	users, err := f.RetrieveAll(ctx, model.KindUser)
	require.NoError(t, err)
	directUsers, err := d.User.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, len(directUsers))
	for i := range users {
		assert.Equal(t, directUsers[i], users[i])
	}
}

func TestFacade_Update(t *testing.T) {
	f, _, fx := setupFacade(t)
	ctx := context.Background()

	rows, err := f.Update(ctx, model.KindCard, fx.card.ID, &model.Card{Name: "Pikachu", Rarity: "rare"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	card, err := FindByID[model.Card](ctx, f, fx.card.ID)
	require.NoError(t, err)
	assert.Equal(t, "rare", card.Rarity)
	assert.Empty(t, card.Expansion)

	_, err = f.Update(ctx, model.KindCard, 777, &model.Card{Name: "x"})
	assert.True(t, errorc.IsNotFound(err))
}

func TestFacade_Unsupported(t *testing.T) {
	f, _, fx := setupFacade(t)
	ctx := context.Background()

	_, err := f.RetrieveAll(ctx, model.Kind(42))
	assert.True(t, errorc.IsUnsupported(err))
	_, err = f.RetrieveByID(ctx, model.Kind(0), 1)
	assert.True(t, errorc.IsUnsupported(err))
	_, err = f.New(model.Kind(42))
	assert.True(t, errorc.IsUnsupported(err))
	assert.True(t, errorc.IsUnsupported(f.Delete(ctx, model.Kind(42), 1)))

	_, err = f.Update(ctx, model.KindUser, fx.alice.ID, fx.alice)
	assert.True(t, errorc.IsUnsupported(err))
	_, err = f.Update(ctx, model.KindDiscussion, 1, &model.Discussion{Title: "x"})
	assert.True(t, errorc.IsUnsupported(err))

	// 类型与实体不一致
	_, err = f.Update(ctx, model.KindCard, fx.card.ID, &model.Offer{})
	assert.True(t, errorc.IsUnsupported(err))

	assert.False(t, f.Supports(model.KindUser, true))
	assert.True(t, f.Supports(model.KindUser, false))
	assert.True(t, f.Supports(model.KindOrder, true))
	assert.False(t, f.Supports(model.Kind(42), false))

	err = f.Save(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, errorc.ErrorCodeValid, errorc.ParseError(err).ErrorCode)
}

func TestFacade_New(t *testing.T) {
	f, _, _ := setupFacade(t)
	for _, kind := range model.Kinds() {
		e, err := f.New(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, e.Kind())
		assert.Zero(t, e.GetID())
	}
}

func TestFacade_Listeners(t *testing.T) {
	f, _, _ := setupFacade(t)
	ctx := context.Background()

	var events []ChangeEvent
	f.AddListener(ChangeListenerFunc(func(_ context.Context, e ChangeEvent) error {
		events = append(events, e)
		return nil
	}))
	f.AddListener(ChangeListenerFunc(func(context.Context, ChangeEvent) error {
		return errors.New("listener down")
	}))
	f.AddListener(nil)

	card := &model.Card{Name: "Mewtwo"}
	require.NoError(t, Save(ctx, f, card))
	_, err := f.Update(ctx, model.KindCard, card.ID, &model.Card{Name: "Mewtwo", Rarity: "holo"})
	require.NoError(t, err)
	require.NoError(t, f.Delete(ctx, model.KindCard, card.ID))

	// 失败的写入不会产生通知
	assert.Error(t, f.Delete(ctx, model.KindCard, card.ID))

	require.Len(t, events, 3)
	assert.Equal(t, OpCreate, events[0].Op)
	assert.Equal(t, OpUpdate, events[1].Op)
	assert.Equal(t, OpDelete, events[2].Op)
	for _, e := range events {
		assert.Equal(t, model.KindCard, e.Kind)
		assert.Equal(t, card.ID, e.ID)
	}
	assert.Nil(t, events[2].Entity)
}

func TestTypedHelpers(t *testing.T) {
	f, _, fx := setupFacade(t)
	ctx := context.Background()

	users, err := FindAll[model.User](ctx, f)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	card, err := FindByID[model.Card](ctx, f, fx.card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", card.Name)

	missing, err := FindByID[model.Offer](ctx, f, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, Save[model.Review](ctx, f, nil))
}
