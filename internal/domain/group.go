package domain

// Group is a named subscription scope. Connections in a group receive
// broadcasts targeted at that group.
type Group string

const GroupScoreboard Group = "scoreboard"

// DefaultGroups lists the groups every new connection joins.
var DefaultGroups = []Group{GroupScoreboard}

// Valid reports whether g is one of the known groups.
func (g Group) Valid() bool {
	switch g {
	case GroupScoreboard:
		return true
	default:
		return false
	}
}

func (g Group) String() string { return string(g) }

// Connection is a live real-time connection as seen by the registry.
type Connection struct {
	ID     string
	Groups []Group
}

// InGroup reports whether the connection is a member of g.
func (c Connection) InGroup(g Group) bool {
	for _, member := range c.Groups {
		if member == g {
			return true
		}
	}
	return false
}
