package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{name: "nil", user: nil, want: ""},
		{name: "name wins", user: &User{Name: "Ann B", FirstName: "Ann"}, want: "Ann B"},
		{name: "first and last", user: &User{FirstName: "Ann", LastName: "Lee"}, want: "Ann Lee"},
		{name: "last only", user: &User{LastName: "Lee"}, want: "Lee"},
		{name: "email fallback", user: &User{Email: "a@b.c"}, want: "a@b.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestUser_IsOwner(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsOwner())
	assert.False(t, (&User{UserType: UserTypeUser}).IsOwner())
	assert.True(t, (&User{UserType: UserTypeHouseOwner}).IsOwner())
}

func TestReservationRequest_Validate(t *testing.T) {
	start := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)

	assert.NoError(t, ReservationRequest{CourtID: "c1", StartsAt: start, EndsAt: start.Add(time.Hour)}.Validate())
	assert.ErrorIs(t, ReservationRequest{StartsAt: start, EndsAt: start.Add(time.Hour)}.Validate(), ErrReservationCourt)
	assert.ErrorIs(t, ReservationRequest{CourtID: "c1", StartsAt: start, EndsAt: start}.Validate(), ErrReservationWindow)
	assert.ErrorIs(t, ReservationRequest{CourtID: "c1", StartsAt: start, EndsAt: start.Add(-time.Minute)}.Validate(), ErrReservationWindow)
}
