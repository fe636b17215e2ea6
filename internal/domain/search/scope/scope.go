package scope

// Scope selects which entity types a search covers.
type Scope string

// Search scope constants.
const (
	// All searches stories and discovers members through them.
	All Scope = "all"
	// Stories restricts the search to stories.
	Stories Scope = "stories"
	// Members restricts the search to member profiles.
	Members Scope = "members"
)

// IsValid checks if the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == All || s == Stories || s == Members
}
