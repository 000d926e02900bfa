package tokenlists

import "github.com/agentstation/tokenmap/pkg/tokens"

// Filter narrows a fetched list.
type Filter func([]tokens.RawToken) []tokens.RawToken

// DefaultFilters returns the filters registered for the known providers:
// aave keeps only its aToken variants, roll drops base assets.
func DefaultFilters() map[tokens.ListID]Filter {
	return map[tokens.ListID]Filter{
		tokens.AaveList: PickTags("atokenv1", "atokenv2"),
		tokens.RollList: OmitTag("bases"),
	}
}

// PickTags keeps tokens carrying any of tags, grouped by tag in the order
// given. A token with several of the tags appears once per tag; the list
// index keeps the first.
func PickTags(tags ...string) Filter {
	return func(toks []tokens.RawToken) []tokens.RawToken {
		var out []tokens.RawToken
		for _, tag := range tags {
			for _, t := range toks {
				if t.HasTag(tag) {
					out = append(out, t)
				}
			}
		}
		return out
	}
}

// OmitTag drops tokens carrying tag.
func OmitTag(tag string) Filter {
	return func(toks []tokens.RawToken) []tokens.RawToken {
		out := make([]tokens.RawToken, 0, len(toks))
		for _, t := range toks {
			if !t.HasTag(tag) {
				out = append(out, t)
			}
		}
		return out
	}
}
