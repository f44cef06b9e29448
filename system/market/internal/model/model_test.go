package model

import (
	"encoding/json"
	"testing"

	errorc "cardmarket/pkg/core/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind(" Offer ")
	require.NoError(t, err)
	assert.Equal(t, KindOffer, k)

	_, err = ParseKind("carrello")
	assert.True(t, errorc.IsUnsupported(err))
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestKind_JSONText(t *testing.T) {
	var v struct {
		Kind Kind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"review"}`), &v))
	assert.Equal(t, KindReview, v.Kind)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"review"}`, string(out))
}

func TestCart_AddRemove(t *testing.T) {
	c := NewCart(1, 7)
	c.AddOffer(&Offer{ID: 10, Price: 2.5})
	c.AddOffer(&Offer{ID: 11, Price: 4})
	c.AddOffer(&Offer{ID: 10, Price: 2.5})
	c.AddOffer(nil)

	assert.Equal(t, []int64{10, 11}, c.OfferIDs())
	assert.Equal(t, 6.5, c.Total())

	assert.True(t, c.RemoveOffer(10))
	assert.False(t, c.RemoveOffer(10))
	assert.Equal(t, []int64{11}, c.OfferIDs())
}

func TestEntity_IDs(t *testing.T) {
	entities := []Entity{&Card{}, &Offer{}, &Order{}, &Discussion{}, &Message{}, &Review{}, &Exchange{}, &User{}}
	for i, e := range entities {
		e.SetID(int64(i + 1))
		assert.Equal(t, int64(i+1), e.GetID())
		assert.Equal(t, Kinds()[i], e.Kind())
		assert.NotEmpty(t, e.TableName())
	}
}

func TestUser_PublicHidesPassword(t *testing.T) {
	u := &User{ID: 1, Email: "ash@kanto.it", Password: "pikachu"}
	p := u.Public()
	assert.Empty(t, p.Password)
	assert.Equal(t, "pikachu", u.Password)
	assert.Nil(t, (*User)(nil).Public())
}

func TestKind_TableMatchesEntity(t *testing.T) {
	entities := []Entity{&Card{}, &Offer{}, &Order{}, &Discussion{}, &Message{}, &Review{}, &Exchange{}, &User{}}
	for _, e := range entities {
		assert.Equal(t, e.TableName(), e.Kind().Table())
	}
	assert.Empty(t, Kind(99).Table())
}
