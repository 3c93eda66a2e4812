package models

import "time"

// PreviewLength is how many characters of the text String shows.
const PreviewLength = 15

type Post struct {
	ID       int       // Unique identifier
	Text     string    // Body
	PubDate  time.Time // Set once on creation
	AuthorID int       // Author's user ID
	GroupID  *int      // Optional group
	// Joined data for listings
	Username string // Author's name
	Group    *Group // nil when the post has no group
}

// String returns the first PreviewLength characters of the text.
func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= PreviewLength {
		return p.Text
	}
	return string(runes[:PreviewLength])
}

// PostFilter narrows a post listing. Zero fields do not filter.
type PostFilter struct {
	GroupID  int
	AuthorID int
}
