package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Like references the liking user. A user appears at most once in a post's
// like list.
type Like struct {
	ID   bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User bson.ObjectID `json:"user" bson:"user"`
}

type Comment struct {
	ID     bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User   bson.ObjectID `json:"user" bson:"user"`
	Text   string        `json:"text" bson:"text"`
	Name   string        `json:"name" bson:"name"`
	Avatar string        `json:"avatar" bson:"avatar"`
	Date   time.Time     `json:"date" bson:"date"`
}

// Post is an authored document. Name and Avatar are the author's values
// snapshotted at creation, intentionally not kept in sync afterwards.
type Post struct {
	ID       bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User     bson.ObjectID `json:"user" bson:"user"`
	Text     string        `json:"text" bson:"text"`
	Name     string        `json:"name" bson:"name"`
	Avatar   string        `json:"avatar" bson:"avatar"`
	Likes    []Like        `json:"likes" bson:"likes"`
	Comments []Comment     `json:"comments" bson:"comments"`
	Date     time.Time     `json:"date" bson:"date"`
}

// LikedBy reports whether the user is present in the like list.
func (p *Post) LikedBy(userID bson.ObjectID) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// Like prepends a like for the user. Returns false when the user already
// liked the post, leaving the list unchanged.
func (p *Post) Like(userID bson.ObjectID) bool {
	if p.LikedBy(userID) {
		return false
	}
	p.Likes = append([]Like{{ID: bson.NewObjectID(), User: userID}}, p.Likes...)
	return true
}

// Unlike removes the user's like. Returns false when the user had not liked
// the post, leaving the list unchanged.
func (p *Post) Unlike(userID bson.ObjectID) bool {
	for i, like := range p.Likes {
		if like.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment prepends the comment, assigning an id and timestamp when
// missing.
func (p *Post) AddComment(comment Comment) {
	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	if comment.Date.IsZero() {
		comment.Date = time.Now()
	}
	p.Comments = append([]Comment{comment}, p.Comments...)
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(id bson.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// RemoveComment removes the comment with the given id; the bool reports
// whether anything was removed.
func (p *Post) RemoveComment(id bson.ObjectID) bool {
	for i, comment := range p.Comments {
		if comment.ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
