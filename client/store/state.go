package store

import (
	"devhub/internal/models"
)

// ActionType names a state transition. Reducers switch on it.
type ActionType string

const (
	ActionRegisterSuccess ActionType = "register.success"
	ActionRegisterFail    ActionType = "register.fail"
	ActionLoginSuccess    ActionType = "login.success"
	ActionLoginFail       ActionType = "login.fail"
	ActionConfirmEmail    ActionType = "confirm.email"
	ActionUserLoaded      ActionType = "user.loaded"
	ActionAuthError       ActionType = "auth.error"
	ActionLogout          ActionType = "logout"
	ActionAccountDeleted  ActionType = "account.deleted"

	ActionGetProfile   ActionType = "profile.get"
	ActionGetProfiles  ActionType = "profile.list"
	ActionGetRepos     ActionType = "profile.repos"
	ActionProfileError ActionType = "profile.error"
	ActionClearProfile ActionType = "profile.clear"

	ActionGetPosts       ActionType = "posts.get"
	ActionGetPost        ActionType = "posts.get-one"
	ActionAddPost        ActionType = "posts.add"
	ActionDeletePost     ActionType = "posts.delete"
	ActionUpdateLikes    ActionType = "posts.update-likes"
	ActionUpdateComments ActionType = "posts.update-comments"
	ActionPostError      ActionType = "posts.error"

	ActionSetAlert    ActionType = "alert.set"
	ActionRemoveAlert ActionType = "alert.remove"
)

// Action carries a transition and its payload. Payload types are fixed per
// ActionType; reducers ignore payloads of the wrong shape.
type Action struct {
	Type    ActionType
	Payload any
}

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertDanger  AlertKind = "danger"
)

type Alert struct {
	ID   string
	Msg  string
	Kind AlertKind
}

type AuthState struct {
	Token         string
	Authenticated bool
	Loading       bool
	User          *models.User
}

type ProfileState struct {
	Profile  *models.ProfileView
	Profiles []*models.ProfileView
	Repos    []models.GithubRepo
	Loading  bool
	Err      string
}

type PostState struct {
	Posts   []*models.Post
	Post    *models.Post
	Loading bool
	Err     string
}

// State is the whole client state. It is treated as immutable: reducers
// return fresh copies and Dispatch hands callers snapshots.
type State struct {
	Auth    AuthState
	Profile ProfileState
	Posts   PostState
	Alerts  []Alert
}

func initialState() State {
	return State{
		Auth:    AuthState{Loading: true},
		Profile: ProfileState{Loading: true},
		Posts:   PostState{Loading: true},
	}
}

// LikesUpdate targets a single post's like list.
type LikesUpdate struct {
	PostID string
	Likes  []models.Like
}

// CommentsUpdate targets a single post's comment list.
type CommentsUpdate struct {
	PostID   string
	Comments []models.Comment
}
