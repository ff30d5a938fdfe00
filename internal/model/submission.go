// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. There is no inheritance; a
// Submission simply holds its comments, reviews, and likes as slices.
package model

import (
	"slices"
	"time"
)

// Submission is a document entry (title + uploaded file) owned by a user.
//
// JSON NAMES:
// The field names follow the API clients already speak ("user", "storage_link",
// "private", "date"), so the Go names and the wire names differ on purpose.
//
// PRIVATE ID:
// PrivateID is the shared secret that lets a non-owner reach a private
// submission. It is set once at creation and never changes. Use Redacted
// before returning a submission to anyone but its owner.
type Submission struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user"`
	Title       string    `json:"title"`
	StorageLink string    `json:"storage_link"`
	IsPrivate   bool      `json:"private"`
	PrivateID   string    `json:"private_id,omitempty"`
	OwnerName   string    `json:"name"`   // snapshot taken at creation
	OwnerAvatar string    `json:"avatar"` // snapshot taken at creation
	Reviews     []Review  `json:"reviews"`
	Comments    []Comment `json:"comments"`
	Likes       []Like    `json:"likes"`
	CreatedAt   time.Time `json:"date"`
}

// Comment is a text note left on a submission. Name and avatar are copied
// from the author's account when the comment is written and never refreshed.
type Comment struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"user"`
	Text         string    `json:"text"`
	AuthorName   string    `json:"name"`
	AuthorAvatar string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

// Review is a reviewer's response, with its own uploaded file.
type Review struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"user"`
	Text         string    `json:"text"`
	StorageLink  string    `json:"storage_link"`
	AuthorName   string    `json:"name"`
	AuthorAvatar string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

// Like records that a user liked a submission.
type Like struct {
	AuthorID string `json:"user"`
}

// IsOwner reports whether userID owns the submission.
func (s *Submission) IsOwner(userID string) bool {
	return userID != "" && s.OwnerID == userID
}

// Redacted returns a shallow copy safe to hand to callerID: the private id is
// blanked unless the caller is the owner.
func (s *Submission) Redacted(callerID string) *Submission {
	out := *s
	if !s.IsOwner(callerID) {
		out.PrivateID = ""
	}
	return &out
}

// EnsureCollections replaces nil sub-collections with empty ones so they
// serialize as [] rather than null.
func (s *Submission) EnsureCollections() {
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Reviews == nil {
		s.Reviews = []Review{}
	}
	if s.Likes == nil {
		s.Likes = []Like{}
	}
}

// =========================================================================
// COMMENTS
// =========================================================================

// PrependComment adds c at the front (newest-first ordering).
func (s *Submission) PrependComment(c Comment) {
	s.Comments = slices.Insert(s.Comments, 0, c)
}

// FindComment returns the index of the comment with the given id, or -1.
func (s *Submission) FindComment(id string) int {
	return slices.IndexFunc(s.Comments, func(c Comment) bool { return c.ID == id })
}

// RemoveCommentAt removes the comment at index i.
//
// Removal is positional on purpose: the caller locates the entry once by its
// own id (FindComment) and removes that exact index. Re-deriving the index
// from the author id would hit the wrong entry when an author has several.
func (s *Submission) RemoveCommentAt(i int) {
	s.Comments = slices.Delete(s.Comments, i, i+1)
}

// =========================================================================
// REVIEWS
// =========================================================================

// PrependReview adds r at the front (newest-first ordering).
func (s *Submission) PrependReview(r Review) {
	s.Reviews = slices.Insert(s.Reviews, 0, r)
}

// FindReview returns the index of the review with the given id, or -1.
func (s *Submission) FindReview(id string) int {
	return slices.IndexFunc(s.Reviews, func(r Review) bool { return r.ID == id })
}

// HasReviewBy reports whether userID already reviewed the submission.
func (s *Submission) HasReviewBy(userID string) bool {
	return slices.ContainsFunc(s.Reviews, func(r Review) bool { return r.AuthorID == userID })
}

// RemoveReviewAt removes the review at index i. See RemoveCommentAt.
func (s *Submission) RemoveReviewAt(i int) {
	s.Reviews = slices.Delete(s.Reviews, i, i+1)
}

// =========================================================================
// LIKES
// =========================================================================

// LikeIndex returns the index of userID's like, or -1.
func (s *Submission) LikeIndex(userID string) int {
	return slices.IndexFunc(s.Likes, func(l Like) bool { return l.AuthorID == userID })
}

// PrependLike adds a like for userID at the front.
func (s *Submission) PrependLike(userID string) {
	s.Likes = slices.Insert(s.Likes, 0, Like{AuthorID: userID})
}

// RemoveLikeAt removes the like at index i.
func (s *Submission) RemoveLikeAt(i int) {
	s.Likes = slices.Delete(s.Likes, i, i+1)
}
