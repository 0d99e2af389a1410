package nodeid

// NoPort marks an address that refers to a node itself rather than one of its
// output ports.
const NoPort = -1

// Address is the structured representation of a unique node identifier.
type Address struct {
	Group string
	Name  string
	Port  int // NoPort when the address refers to the node itself.
}

// New creates an address for a node registered under group with the given name.
func New(group, name string) Address {
	return Address{Group: group, Name: name, Port: NoPort}
}

// WithPort returns a copy of the address that refers to the given output port.
func (a Address) WithPort(port int) Address {
	a.Port = port
	return a
}

// HasPort returns true if the address refers to an output port.
func (a Address) HasPort() bool {
	return a.Port != NoPort
}

// Owner returns the address of the node that owns the port. For an address
// without a port, the address itself is returned.
func (a Address) Owner() Address {
	a.Port = NoPort
	return a
}

// IsZero reports whether the address has not been assigned yet.
func (a Address) IsZero() bool {
	return a.Group == "" && a.Name == ""
}
