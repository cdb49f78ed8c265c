package service

import (
	"context"
	"errors"
	"strings"

	"devhub/internal/apperror"
	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type postStore interface {
	New(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	Save(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type postUserStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

// PostService implements the post mutation workflow: create/list/get/delete
// plus the like and comment sub-document edits.
type PostService struct {
	posts postStore
	users postUserStore
}

func NewPostService(posts postStore, users postUserStore) *PostService {
	return &PostService{
		posts: posts,
		users: users,
	}
}

// Create stores a new post with the author's name and avatar snapshotted at
// creation time.
func (s *PostService) Create(ctx context.Context, userID string, req models.PostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperror.NewValidation(apperror.FieldError{Field: "text", Message: "Text is required"})
	}

	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to find user", err)
	}

	post := &models.Post{
		User:   user.ID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}

	post, err = s.posts.New(ctx, post)
	if err != nil {
		return nil, apperror.NewInternal("failed to create post", err)
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to list posts", err)
	}
	return posts, nil
}

// Get returns a post by id. A malformed id maps to NotFound.
func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	return s.load(ctx, postID)
}

// Delete removes a post; only its author may do so.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}

	if post.User.Hex() != userID {
		return apperror.NewForbidden("user not authorized")
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NewNotFound("post not found")
		}
		return apperror.NewInternal("failed to delete post", err)
	}
	return nil
}

// Like adds the caller to the post's like list and returns the updated
// list. Liking twice is a conflict.
func (s *PostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}

	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.Like(uid) {
		return nil, apperror.NewConflict("post already liked")
	}

	saved, err := s.posts.Save(ctx, post)
	if err != nil {
		return nil, apperror.NewInternal("failed to save post", err)
	}
	return saved.Likes, nil
}

// Unlike removes the caller's like and returns the updated list. Unliking a
// post the caller never liked is a conflict.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}

	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.Unlike(uid) {
		return nil, apperror.NewConflict("post has not yet been liked")
	}

	saved, err := s.posts.Save(ctx, post)
	if err != nil {
		return nil, apperror.NewInternal("failed to save post", err)
	}
	return saved.Likes, nil
}

// AddComment prepends a comment with the author snapshot and returns the
// updated comment list.
func (s *PostService) AddComment(ctx context.Context, userID, postID string, req models.CommentRequest) ([]models.Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperror.NewValidation(apperror.FieldError{Field: "text", Message: "Text is required"})
	}

	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to find user", err)
	}

	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.AddComment(models.Comment{
		User:   user.ID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	})

	saved, err := s.posts.Save(ctx, post)
	if err != nil {
		return nil, apperror.NewInternal("failed to save post", err)
	}
	return saved.Comments, nil
}

// RemoveComment deletes a comment; only the comment's author may do so,
// regardless of who authored the post.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	cid, err := bson.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, apperror.NewNotFound("comment not found")
	}

	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := post.FindComment(cid)
	if comment == nil {
		return nil, apperror.NewNotFound("comment not found")
	}
	if comment.User.Hex() != userID {
		return nil, apperror.NewForbidden("user not authorized")
	}

	post.RemoveComment(cid)

	saved, err := s.posts.Save(ctx, post)
	if err != nil {
		return nil, apperror.NewInternal("failed to save post", err)
	}
	return saved.Comments, nil
}

func (s *PostService) load(ctx context.Context, postID string) (*models.Post, error) {
	id, err := bson.ObjectIDFromHex(postID)
	if err != nil {
		// Malformed ids map to NotFound, never an internal error.
		return nil, apperror.NewNotFound("post not found")
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("post not found")
		}
		return nil, apperror.NewInternal("failed to find post", err)
	}
	return post, nil
}
