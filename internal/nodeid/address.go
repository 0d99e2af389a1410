package nodeid

import (
	"fmt"
	"strings"
)

// String serializes the Address into its canonical string representation.
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(a.Group)
	sb.WriteRune('.')
	sb.WriteString(a.Name)
	if a.HasPort() {
		sb.WriteString(fmt.Sprintf("[%d]", a.Port))
	}
	return sb.String()
}

// Equal checks whether two addresses identify the same node or port.
func (a Address) Equal(other Address) bool {
	return a == other
}
