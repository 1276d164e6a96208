package client

// Presence tracks which usernames are in the room. Full roster broadcasts
// are authoritative and replace everything; incremental join notices insert
// with dedupe, since the relay may announce a user the roster already knows.
type Presence struct {
	order   []string
	present map[string]bool
}

func NewPresence() *Presence {
	return &Presence{present: make(map[string]bool)}
}

func (p *Presence) OnFullRoster(users []string) {
	p.order = p.order[:0]
	p.present = make(map[string]bool, len(users))
	for _, u := range users {
		if p.present[u] {
			continue
		}
		p.present[u] = true
		p.order = append(p.order, u)
	}
}

func (p *Presence) OnJoinNotice(username string) {
	if p.present[username] {
		return
	}
	p.present[username] = true
	p.order = append(p.order, username)
}

// Users returns the roster in insertion order.
func (p *Presence) Users() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}
