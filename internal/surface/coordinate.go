// Package surface defines the identity types shared by the registry,
// the focus store and the rendering layer.
package surface

import "fmt"

// ID identifies a logical surface. The same ID may legitimately be
// rendered at several tree positions at once; concrete occurrences are
// told apart by their instance number.
type ID uint64

// Coordinate pins down one concrete occurrence of a surface: the
// logical ID plus the instance number assigned when the occurrence
// mounted.
type Coordinate struct {
	ID       ID
	Instance int
}

// String renders the coordinate as "id/instance".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d/%d", c.ID, c.Instance)
}
