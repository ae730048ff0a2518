package aochat

import "fmt"

// Dimension is a static record identifying one Anarchy Online chat server
// shard.
type Dimension struct {
	ID          int
	DisplayName string
	Host        string
	Port        int
}

// Addr returns the "host:port" form net.Dial expects.
func (d Dimension) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// Dimensions is the hard-coded registry of known dimension servers
// (spec.md §6).
var Dimensions = map[int]Dimension{
	0: {ID: 0, DisplayName: "test", Host: "chat.dt.funcom.com", Port: 7109},
	1: {ID: 1, DisplayName: "Atlantean", Host: "chat.d1.funcom.com", Port: 7101},
	2: {ID: 2, DisplayName: "Rimor", Host: "chat.d2.funcom.com", Port: 7102},
}

// DimensionByID looks up a dimension by its numeric id, returning
// ErrUnknownDimension if none is registered under that id.
func DimensionByID(id int) (Dimension, error) {
	d, ok := Dimensions[id]
	if !ok {
		return Dimension{}, fmt.Errorf("%w: %d", ErrUnknownDimension, id)
	}
	return d, nil
}
