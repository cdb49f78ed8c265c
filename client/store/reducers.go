package store

import (
	"devhub/internal/models"
)

// The reducers are pure: they never mutate their input, and the same
// state/action pair always yields the same result. Side effects live in the
// action layer.

func reduce(state State, action Action) State {
	state.Auth = reduceAuth(state.Auth, action)
	state.Profile = reduceProfile(state.Profile, action)
	state.Posts = reducePosts(state.Posts, action)
	state.Alerts = reduceAlerts(state.Alerts, action)
	return state
}

func reduceAuth(state AuthState, action Action) AuthState {
	switch action.Type {
	case ActionUserLoaded:
		user, _ := action.Payload.(*models.User)
		state.Authenticated = true
		state.Loading = false
		state.User = user
	case ActionLoginSuccess, ActionConfirmEmail:
		token, _ := action.Payload.(string)
		state.Token = token
		state.Authenticated = true
		state.Loading = false
	case ActionRegisterSuccess:
		// Registration only queues a confirmation mail; no session yet.
		state.Loading = false
	case ActionRegisterFail, ActionLoginFail, ActionAuthError,
		ActionLogout, ActionAccountDeleted:
		state = AuthState{}
	}
	return state
}

func reduceProfile(state ProfileState, action Action) ProfileState {
	switch action.Type {
	case ActionGetProfile:
		profile, _ := action.Payload.(*models.ProfileView)
		state.Profile = profile
		state.Loading = false
		state.Err = ""
	case ActionGetProfiles:
		profiles, _ := action.Payload.([]*models.ProfileView)
		state.Profiles = profiles
		state.Loading = false
		state.Err = ""
	case ActionGetRepos:
		repos, _ := action.Payload.([]models.GithubRepo)
		state.Repos = repos
		state.Loading = false
	case ActionProfileError:
		msg, _ := action.Payload.(string)
		state.Err = msg
		state.Profile = nil
		state.Loading = false
	case ActionClearProfile, ActionLogout, ActionAccountDeleted:
		state = ProfileState{}
	}
	return state
}

func reducePosts(state PostState, action Action) PostState {
	switch action.Type {
	case ActionGetPosts:
		posts, _ := action.Payload.([]*models.Post)
		state.Posts = posts
		state.Loading = false
		state.Err = ""
	case ActionGetPost:
		post, _ := action.Payload.(*models.Post)
		state.Post = post
		state.Loading = false
		state.Err = ""
	case ActionAddPost:
		post, _ := action.Payload.(*models.Post)
		next := make([]*models.Post, 0, len(state.Posts)+1)
		next = append(next, post)
		next = append(next, state.Posts...)
		state.Posts = next
		state.Loading = false
	case ActionDeletePost:
		postID, _ := action.Payload.(string)
		next := make([]*models.Post, 0, len(state.Posts))
		for _, post := range state.Posts {
			if post.ID.Hex() != postID {
				next = append(next, post)
			}
		}
		state.Posts = next
		state.Loading = false
	case ActionUpdateLikes:
		update, ok := action.Payload.(LikesUpdate)
		if !ok {
			return state
		}
		next := make([]*models.Post, len(state.Posts))
		for i, post := range state.Posts {
			if post.ID.Hex() == update.PostID {
				updated := *post
				updated.Likes = update.Likes
				next[i] = &updated
			} else {
				next[i] = post
			}
		}
		state.Posts = next
		if state.Post != nil && state.Post.ID.Hex() == update.PostID {
			updated := *state.Post
			updated.Likes = update.Likes
			state.Post = &updated
		}
		state.Loading = false
	case ActionUpdateComments:
		update, ok := action.Payload.(CommentsUpdate)
		if !ok {
			return state
		}
		if state.Post != nil && state.Post.ID.Hex() == update.PostID {
			updated := *state.Post
			updated.Comments = update.Comments
			state.Post = &updated
		}
		state.Loading = false
	case ActionPostError:
		msg, _ := action.Payload.(string)
		state.Err = msg
		state.Loading = false
	case ActionLogout, ActionAccountDeleted:
		state = PostState{}
	}
	return state
}

func reduceAlerts(alerts []Alert, action Action) []Alert {
	switch action.Type {
	case ActionSetAlert:
		alert, ok := action.Payload.(Alert)
		if !ok {
			return alerts
		}
		next := make([]Alert, 0, len(alerts)+1)
		next = append(next, alerts...)
		next = append(next, alert)
		return next
	case ActionRemoveAlert:
		alertID, _ := action.Payload.(string)
		next := make([]Alert, 0, len(alerts))
		for _, alert := range alerts {
			if alert.ID != alertID {
				next = append(next, alert)
			}
		}
		return next
	}
	return alerts
}
