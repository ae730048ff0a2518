package aochat

import "fmt"

// Character is an in-game persona bound to the authenticated account, as
// advertised by the server's CHARACTER_LIST frame.
type Character struct {
	ID     uint32
	Name   string
	Level  uint32
	Online bool
}

// String mirrors the reference client's repr: "<Character [Online] Foo
// (42), level 1>".
func (c Character) String() string {
	state := "Offline"
	if c.Online {
		state = "Online"
	}
	return fmt.Sprintf("<Character [%s] %s (%d), level %d>", state, c.Name, c.ID, c.Level)
}
