package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleNormal.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestNewUser(t *testing.T) {
	u := NewUser("pengli", RoleNormal)

	assert.Equal(t, "pengli", u.Username)
	assert.Equal(t, RoleNormal, u.Role)
	assert.True(t, u.Active)
	assert.NotNil(t, u.Gift)
	assert.Empty(t, u.Gift)
	assert.Equal(t, u.CreateTime, u.UpdateTime)
}

func TestTimestamp(t *testing.T) {
	when := time.Date(2024, 3, 9, 8, 30, 15, 500_000_000, time.Local)
	ts := FromTime(when)

	assert.InDelta(t, float64(when.Unix())+0.5, float64(ts), 1e-6)
	assert.Equal(t, "2024-03-09 08:30:15", ts.String())
	assert.WithinDuration(t, when, ts.Time(), time.Millisecond)
}
