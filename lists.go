package tokenmap

import "github.com/agentstation/tokenmap/pkg/tokens"

// Roles a token list plays in reconciliation.
const (
	RolePreferred  = "preferred"
	RoleCatalog    = "catalog"
	RoleAggregator = "aggregator"
)

// ListInfo describes one configured token list.
type ListInfo struct {
	ID   tokens.ListID
	URL  string
	Role string
	// Rank is the 1-based position in the priority order, or 0.
	Rank int
}

// Lists implements Client. Lists are returned in priority order, followed
// by lists outside it.
func (c *client) Lists() []ListInfo {
	urls := make(map[tokens.ListID]string)
	for _, ep := range c.newSources().tokenLists.URLs() {
		urls[ep.ID] = ep.URL
	}

	var out []ListInfo
	seen := make(map[tokens.ListID]bool)
	for i, id := range c.options.priority {
		role := RolePreferred
		if id == c.options.catalog {
			role = RoleCatalog
		}
		out = append(out, ListInfo{ID: id, URL: urls[id], Role: role, Rank: i + 1})
		seen[id] = true
	}
	for _, id := range tokens.ListIDs() {
		if seen[id] {
			continue
		}
		if _, ok := urls[id]; !ok {
			continue
		}
		out = append(out, ListInfo{ID: id, URL: urls[id], Role: RoleAggregator})
	}
	return out
}
