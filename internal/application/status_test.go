package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusSchoolVerified, StatusSuperVerified, StatusRejected}

	allowed := map[[2]Status]bool{
		{StatusPending, StatusSchoolVerified}:       true,
		{StatusSchoolVerified, StatusSuperVerified}: true,
		{StatusPending, StatusRejected}:             true,
		{StatusSchoolVerified, StatusRejected}:      true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesAllowNothing(t *testing.T) {
	for _, from := range []Status{StatusSuperVerified, StatusRejected} {
		assert.True(t, from.Terminal())
		for _, to := range []Status{StatusPending, StatusSchoolVerified, StatusSuperVerified, StatusRejected} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestPromotionFires(t *testing.T) {
	assert.True(t, PromotionFires(StatusSchoolVerified, StatusSuperVerified))
	assert.True(t, PromotionFires(StatusPending, StatusSuperVerified))

	// Re-saving an already promoted application must not fire again.
	assert.False(t, PromotionFires(StatusSuperVerified, StatusSuperVerified))

	assert.False(t, PromotionFires(StatusPending, StatusSchoolVerified))
	assert.False(t, PromotionFires(StatusSchoolVerified, StatusRejected))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, Status("pending").Valid())
	assert.True(t, Status("super_verified").Valid())
	assert.False(t, Status("verified").Valid())
	assert.False(t, Status("").Valid())
}
