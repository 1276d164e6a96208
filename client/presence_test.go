package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateJoinNoticeIsNoop(t *testing.T) {
	p := NewPresence()
	p.OnFullRoster([]string{"alice"})

	p.OnJoinNotice("alice")

	assert.Equal(t, []string{"alice"}, p.Users())
}

func TestFullRosterReplacesWholesale(t *testing.T) {
	p := NewPresence()
	p.OnJoinNotice("alice")
	p.OnJoinNotice("bob")

	p.OnFullRoster([]string{"carol"})

	assert.Equal(t, []string{"carol"}, p.Users())

	// A notice for someone already in the authoritative roster is absorbed.
	p.OnJoinNotice("carol")
	p.OnJoinNotice("dave")
	assert.Equal(t, []string{"carol", "dave"}, p.Users())
}

func TestUsersReturnsCopy(t *testing.T) {
	p := NewPresence()
	p.OnJoinNotice("alice")

	users := p.Users()
	users[0] = "mallory"

	assert.Equal(t, []string{"alice"}, p.Users())
}
