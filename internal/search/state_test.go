package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storefrontlabs/productsearch/internal/domain"
)

func TestState_Defaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, "", s.Query())
	assert.Empty(t, s.Results())
	assert.False(t, s.IndexReady())
}

func TestState_SetQuery_Notifies(t *testing.T) {
	s := NewState()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.SetQuery("wallet")

	assert.Equal(t, "wallet", s.Query())
	assert.Equal(t, []Change{ChangeQuery}, changes)
}

func TestState_SetQuery_UnchangedIsNoOp(t *testing.T) {
	s := NewState()
	s.SetQuery("wallet")

	calls := 0
	s.Subscribe(func(Change) { calls++ })
	s.SetQuery("wallet")

	assert.Equal(t, 0, calls)
}

func TestState_SetResults_ReturnsCopy(t *testing.T) {
	s := NewState()
	s.SetResults([]domain.Product{{ID: 1, Title: "Wallet"}})

	got := s.Results()
	got[0].Title = "mutated"

	assert.Equal(t, "Wallet", s.Results()[0].Title)
}

func TestState_SetIndexReady_UnchangedIsNoOp(t *testing.T) {
	s := NewState()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.SetIndexReady(true)
	s.SetIndexReady(true)

	assert.True(t, s.IndexReady())
	assert.Equal(t, []Change{ChangeReady}, changes)
}

func TestState_ClearAll(t *testing.T) {
	s := NewState()
	s.SetQuery("wallet")
	s.SetResults([]domain.Product{{ID: 1}})
	s.SetIndexReady(true)

	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })
	s.ClearAll()

	assert.Equal(t, "", s.Query())
	assert.Empty(t, s.Results())
	assert.True(t, s.IndexReady(), "clearing the search must not un-synchronize the index")
	assert.Equal(t, []Change{ChangeQuery}, changes)
}

func TestState_ClearAll_AlreadyEmptyIsSilent(t *testing.T) {
	s := NewState()
	calls := 0
	s.Subscribe(func(Change) { calls++ })

	s.ClearAll()

	assert.Equal(t, 0, calls)
}

func TestState_SubscriberReadsDuringNotification(t *testing.T) {
	s := NewState()
	var seen string
	s.Subscribe(func(c Change) {
		if c == ChangeQuery {
			seen = s.Query() // must not deadlock
		}
	})

	s.SetQuery("wallet")

	assert.Equal(t, "wallet", seen)
}
