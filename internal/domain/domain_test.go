package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "ROLE_USER", want: RoleUser},
		{in: "ROLE_ADMIN", want: RoleAdmin},
		{in: "ROLE_BUSINESS_OWNER", want: RoleBusinessOwner},
		{in: "role_user", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			got, err := ParseRole(testCase.in)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, testCase.in, got.String())
		})
	}
}

func TestSessionFromAuth(t *testing.T) {
	s, err := SessionFromAuth(AuthResponse{Token: "t", Username: "ana", Role: "ROLE_ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, &Session{Token: "t", Username: "ana", Role: RoleAdmin}, s)

	_, err = SessionFromAuth(AuthResponse{Username: "ana", Role: "ROLE_ADMIN"})
	assert.Error(t, err)

	_, err = SessionFromAuth(AuthResponse{Token: "t", Role: "ROLE_ROOT"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestPriceTier(t *testing.T) {
	for in, label := range map[string]string{"": "Any Price", "LOW": "$", "MEDIUM": "$$", "HIGH": "$$$"} {
		tier, err := ParsePriceTier(in)
		require.NoError(t, err)
		assert.Equal(t, label, tier.Label())
	}

	_, err := ParsePriceTier("low")
	assert.ErrorIs(t, err, ErrInvalidPriceTier)
}

func TestMinRating(t *testing.T) {
	for in, want := range map[string]MinRating{"": RatingAny, "2": RatingTwo, "3": RatingThree, "4": RatingFour} {
		got, err := ParseMinRating(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, in, got.String())
	}

	for _, in := range []string{"1", "5", "x", "4.5"} {
		_, err := ParseMinRating(in)
		assert.ErrorIs(t, err, ErrInvalidMinRating, in)
	}
}

func TestSearchFilters_Clone(t *testing.T) {
	f := SearchFilters{Name: "a", Categories: []string{"Thai"}}
	c := f.Clone()
	c.Categories[0] = "Asian"

	assert.Equal(t, "Thai", f.Categories[0])
	assert.True(t, f.HasCategory("Thai"))
	assert.False(t, f.HasCategory("Asian"))
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "rfc3339", raw: `"2024-03-01T10:20:30Z"`, want: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{name: "local_fraction", raw: `"2024-03-01T10:20:30.123456"`, want: time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{name: "local", raw: `"2024-03-01T10:20:30"`, want: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{name: "null", raw: `null`},
		{name: "empty", raw: `""`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(testCase.raw), &ts))
			assert.True(t, testCase.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestReview_JSON(t *testing.T) {
	var r Review
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"restaurantId":7,"rating":5,"comment":"great","createdAt":"2024-01-02T03:04:05"}`), &r))
	assert.Equal(t, 7, r.RestaurantID)
	assert.Equal(t, 2024, r.CreatedAt.Year())

	out, err := json.Marshal(Review{ID: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"restaurantId":0,"rating":0,"comment":"","createdAt":null}`, string(out))
}
