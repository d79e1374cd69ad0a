package models

// Suggestion icon identifiers.
const (
	IconBookmark = "bookmark"
	IconTag      = "tag"
	IconNote     = "note"
)

// ActionView is the action verb carried by every search suggestion.
const ActionView = "munin.action.VIEW"

// SearchSuggestion is the shaped output unit for type-ahead search.
// Text2URL is empty when the secondary text is not a link (for example when
// it carries an account name instead of a bookmark URL).
type SearchSuggestion struct {
	Text1    string `json:"text1"`
	Text2    string `json:"text2"`
	Text2URL string `json:"text2_url,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Target   string `json:"target"`
	Action   string `json:"action"`
}
