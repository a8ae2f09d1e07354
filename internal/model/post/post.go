package post

import "github.com/zhouzirui/dali-api/internal/model/member"

// Author is the member snapshot stored on a post when it is created.
// It is never refreshed from the member roster afterwards.
type Author struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Major string `json:"major"`
}

// ReactionUser is the member snapshot stored on a reaction.
type ReactionUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Reaction is a single member reaction on a post. A member may react any
// number of times.
type Reaction struct {
	User ReactionUser `json:"user"`
	Type string       `json:"type"`
}

// Post is a message written by a member.
type Post struct {
	ID        int        `json:"id"`
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	Reactions []Reaction `json:"reactions"`
}

// AuthorFrom snapshots the author fields of m.
func AuthorFrom(m member.Member) Author {
	return Author{ID: m.ID, Name: m.Name, Major: m.Major}
}

// ReactionUserFrom snapshots the reacting member.
func ReactionUserFrom(m member.Member) ReactionUser {
	return ReactionUser{ID: m.ID, Name: m.Name}
}

// Clone returns a copy with its own reaction slice, never nil.
func (p Post) Clone() Post {
	p.Reactions = append(make([]Reaction, 0, len(p.Reactions)), p.Reactions...)
	return p
}
