package store

import (
	"testing"

	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestReduceIsPure(t *testing.T) {
	post := &models.Post{ID: bson.NewObjectID(), Text: "hello"}
	state := State{Posts: PostState{Posts: []*models.Post{post}}}

	next := reduce(state, Action{Type: ActionDeletePost, Payload: post.ID.Hex()})

	if len(state.Posts.Posts) != 1 {
		t.Error("input state was mutated")
	}
	if len(next.Posts.Posts) != 0 {
		t.Errorf("post not removed from next state: %+v", next.Posts.Posts)
	}
}

func TestReduceSameInputSameOutput(t *testing.T) {
	state := State{}
	action := Action{Type: ActionLoginSuccess, Payload: "token-1"}

	first := reduce(state, action)
	second := reduce(state, action)

	if first.Auth != second.Auth {
		t.Errorf("reduce is not deterministic: %+v vs %+v", first.Auth, second.Auth)
	}
}

func TestAuthTransitions(t *testing.T) {
	state := initialState()

	state = reduce(state, Action{Type: ActionLoginSuccess, Payload: "token-1"})
	if !state.Auth.Authenticated || state.Auth.Token != "token-1" {
		t.Fatalf("login success not applied: %+v", state.Auth)
	}

	user := &models.User{ID: bson.NewObjectID(), Name: "Dev"}
	state = reduce(state, Action{Type: ActionUserLoaded, Payload: user})
	if state.Auth.User == nil || state.Auth.User.Name != "Dev" {
		t.Fatalf("user not loaded: %+v", state.Auth)
	}

	state = reduce(state, Action{Type: ActionLogout})
	if state.Auth.Authenticated || state.Auth.Token != "" || state.Auth.User != nil {
		t.Errorf("logout did not clear auth: %+v", state.Auth)
	}
}

func TestLogoutClearsProfileAndPosts(t *testing.T) {
	state := State{
		Profile: ProfileState{Profile: &models.ProfileView{}},
		Posts:   PostState{Posts: []*models.Post{{ID: bson.NewObjectID()}}},
	}

	state = reduce(state, Action{Type: ActionLogout})

	if state.Profile.Profile != nil {
		t.Error("profile survived logout")
	}
	if len(state.Posts.Posts) != 0 {
		t.Error("posts survived logout")
	}
}

func TestAddPostPrepends(t *testing.T) {
	existing := &models.Post{ID: bson.NewObjectID(), Text: "old"}
	state := State{Posts: PostState{Posts: []*models.Post{existing}}}

	fresh := &models.Post{ID: bson.NewObjectID(), Text: "new"}
	state = reduce(state, Action{Type: ActionAddPost, Payload: fresh})

	if len(state.Posts.Posts) != 2 || state.Posts.Posts[0].Text != "new" {
		t.Errorf("new post not prepended: %+v", state.Posts.Posts)
	}
}

func TestUpdateLikesTargetsOnePost(t *testing.T) {
	target := &models.Post{ID: bson.NewObjectID()}
	other := &models.Post{ID: bson.NewObjectID()}
	state := State{Posts: PostState{Posts: []*models.Post{target, other}}}

	likes := []models.Like{{ID: bson.NewObjectID(), User: bson.NewObjectID()}}
	state = reduce(state, Action{Type: ActionUpdateLikes, Payload: LikesUpdate{
		PostID: target.ID.Hex(),
		Likes:  likes,
	}})

	if len(state.Posts.Posts[0].Likes) != 1 {
		t.Error("target post likes not updated")
	}
	if len(state.Posts.Posts[1].Likes) != 0 {
		t.Error("other post should be untouched")
	}
	if len(target.Likes) != 0 {
		t.Error("original post value was mutated")
	}
}

func TestUpdateCommentsOnOpenPost(t *testing.T) {
	post := &models.Post{ID: bson.NewObjectID()}
	state := State{Posts: PostState{Post: post}}

	comments := []models.Comment{{ID: bson.NewObjectID(), Text: "hi"}}
	state = reduce(state, Action{Type: ActionUpdateComments, Payload: CommentsUpdate{
		PostID:   post.ID.Hex(),
		Comments: comments,
	}})

	if len(state.Posts.Post.Comments) != 1 {
		t.Error("open post comments not updated")
	}
	if len(post.Comments) != 0 {
		t.Error("original post value was mutated")
	}
}

func TestAlertReducer(t *testing.T) {
	var alerts []Alert

	alerts = reduceAlerts(alerts, Action{Type: ActionSetAlert, Payload: Alert{ID: "a1", Msg: "hello", Kind: AlertSuccess}})
	alerts = reduceAlerts(alerts, Action{Type: ActionSetAlert, Payload: Alert{ID: "a2", Msg: "world", Kind: AlertDanger}})
	if len(alerts) != 2 {
		t.Fatalf("alerts = %+v", alerts)
	}

	alerts = reduceAlerts(alerts, Action{Type: ActionRemoveAlert, Payload: "a1"})
	if len(alerts) != 1 || alerts[0].ID != "a2" {
		t.Errorf("wrong alert removed: %+v", alerts)
	}

	// Removing an unknown id changes nothing.
	alerts = reduceAlerts(alerts, Action{Type: ActionRemoveAlert, Payload: "a1"})
	if len(alerts) != 1 {
		t.Errorf("repeat removal changed alerts: %+v", alerts)
	}
}
