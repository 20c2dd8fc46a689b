package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_LoginToSuccessRemovesLogin(t *testing.T) {
	s := NewStack(Login)
	require.NoError(t, s.Navigate(Success, &PopUpTo{Route: Login, Inclusive: true}))

	assert.Equal(t, Success, s.Current())
	assert.Equal(t, []Destination{Success}, s.History())

	current, exited := s.Back()
	assert.True(t, exited, "back from success leaves the app")
	assert.Equal(t, Destination(""), current)
	assert.True(t, s.Exited())
}

func TestStack_NonInclusivePopKeepsRoute(t *testing.T) {
	s := NewStack(Login)
	require.NoError(t, s.Navigate(Success, &PopUpTo{Route: Login}))
	assert.Equal(t, []Destination{Login, Success}, s.History())

	current, exited := s.Back()
	assert.False(t, exited)
	assert.Equal(t, Login, current)
}

func TestStack_NoTransitionFromSuccess(t *testing.T) {
	s := NewStack(Login)
	require.NoError(t, s.Navigate(Success, &PopUpTo{Route: Login, Inclusive: true}))

	assert.Error(t, s.Navigate(Login, nil))
	assert.Error(t, s.Navigate(Success, nil))
	assert.Equal(t, Success, s.Current())
}

func TestStack_BackFromLoginExits(t *testing.T) {
	s := NewStack(Login)
	_, exited := s.Back()
	assert.True(t, exited)

	_, exited = s.Back()
	assert.True(t, exited)
	assert.Error(t, s.Navigate(Success, nil))
}
