package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"devhub/client/api"
	"devhub/internal/models"
)

const defaultAlertTTL = 4 * time.Second

// Actions is the side-effect layer: it calls the API, dispatches the
// resulting transitions, and owns the alert expiry timers.
type Actions struct {
	store    *Store
	api      *api.Client
	alertTTL time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewActions(store *Store, client *api.Client) *Actions {
	return &Actions{
		store:    store,
		api:      client,
		alertTTL: defaultAlertTTL,
		timers:   make(map[string]*time.Timer),
	}
}

// SetAlertTTL overrides how long alerts stay up before expiring on their own.
func (a *Actions) SetAlertTTL(ttl time.Duration) {
	a.alertTTL = ttl
}

// SetAlert shows an alert and schedules its expiry. The returned id can be
// handed to DismissAlert to remove it early.
func (a *Actions) SetAlert(msg string, kind AlertKind) string {
	alert := Alert{ID: uuid.NewString(), Msg: msg, Kind: kind}
	a.store.Dispatch(Action{Type: ActionSetAlert, Payload: alert})

	a.mu.Lock()
	a.timers[alert.ID] = time.AfterFunc(a.alertTTL, func() {
		a.expireAlert(alert.ID)
	})
	a.mu.Unlock()
	return alert.ID
}

// DismissAlert removes an alert before its timer fires. Dismissing an alert
// that already expired, or was already dismissed, is a no-op.
func (a *Actions) DismissAlert(alertID string) {
	a.mu.Lock()
	if timer, ok := a.timers[alertID]; ok {
		timer.Stop()
		delete(a.timers, alertID)
	}
	a.mu.Unlock()
	a.store.Dispatch(Action{Type: ActionRemoveAlert, Payload: alertID})
}

func (a *Actions) expireAlert(alertID string) {
	a.mu.Lock()
	_, live := a.timers[alertID]
	delete(a.timers, alertID)
	a.mu.Unlock()
	if live {
		a.store.Dispatch(Action{Type: ActionRemoveAlert, Payload: alertID})
	}
}

// reportError surfaces a failed call as alerts: one per validation field, or
// a single alert with the server's message.
func (a *Actions) reportError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Fields) > 0 {
			for _, field := range apiErr.Fields {
				a.SetAlert(field.Message, AlertDanger)
			}
			return
		}
		if apiErr.Msg != "" {
			a.SetAlert(apiErr.Msg, AlertDanger)
			return
		}
	}
	a.SetAlert(err.Error(), AlertDanger)
}

func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return err.Error()
}

func (a *Actions) Register(ctx context.Context, name, email, password string) error {
	err := a.api.Register(ctx, models.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionRegisterFail})
		return err
	}
	a.store.Dispatch(Action{Type: ActionRegisterSuccess})
	a.SetAlert("Confirmation mail sent, check your inbox", AlertSuccess)
	return nil
}

func (a *Actions) Login(ctx context.Context, email, password string) error {
	token, err := a.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionLoginFail})
		return err
	}
	a.api.SetToken(token)
	a.store.Dispatch(Action{Type: ActionLoginSuccess, Payload: token})
	return a.LoadUser(ctx)
}

func (a *Actions) ConfirmEmail(ctx context.Context, confirmToken string) error {
	token, err := a.api.ConfirmEmail(ctx, confirmToken)
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionAuthError})
		return err
	}
	a.api.SetToken(token)
	a.store.Dispatch(Action{Type: ActionConfirmEmail, Payload: token})
	return a.LoadUser(ctx)
}

// LoadUser fetches the account behind the installed token.
func (a *Actions) LoadUser(ctx context.Context) error {
	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionAuthError})
		return err
	}
	a.store.Dispatch(Action{Type: ActionUserLoaded, Payload: user})
	return nil
}

func (a *Actions) Logout() {
	a.api.SetToken("")
	a.store.Dispatch(Action{Type: ActionLogout})
}

func (a *Actions) GetCurrentProfile(ctx context.Context) error {
	profile, err := a.api.MyProfile(ctx)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	return nil
}

func (a *Actions) GetProfiles(ctx context.Context) error {
	a.store.Dispatch(Action{Type: ActionClearProfile})
	profiles, err := a.api.Profiles(ctx)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfiles, Payload: profiles})
	return nil
}

func (a *Actions) GetProfileByID(ctx context.Context, userID string) error {
	profile, err := a.api.ProfileByUser(ctx, userID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	return nil
}

func (a *Actions) GetGithubRepos(ctx context.Context, username string) error {
	repos, err := a.api.GithubRepos(ctx, username)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetRepos, Payload: repos})
	return nil
}

func (a *Actions) UpsertProfile(ctx context.Context, req models.UpsertProfileRequest) error {
	profile, err := a.api.UpsertProfile(ctx, req)
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	a.SetAlert("Profile updated", AlertSuccess)
	return nil
}

func (a *Actions) AddExperience(ctx context.Context, req models.ExperienceRequest) error {
	profile, err := a.api.AddExperience(ctx, req)
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	a.SetAlert("Experience added", AlertSuccess)
	return nil
}

func (a *Actions) DeleteExperience(ctx context.Context, entryID string) error {
	profile, err := a.api.DeleteExperience(ctx, entryID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	a.SetAlert("Experience removed", AlertSuccess)
	return nil
}

func (a *Actions) AddEducation(ctx context.Context, req models.EducationRequest) error {
	profile, err := a.api.AddEducation(ctx, req)
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	a.SetAlert("Education added", AlertSuccess)
	return nil
}

func (a *Actions) DeleteEducation(ctx context.Context, entryID string) error {
	profile, err := a.api.DeleteEducation(ctx, entryID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetProfile, Payload: profile})
	a.SetAlert("Education removed", AlertSuccess)
	return nil
}

func (a *Actions) DeleteAccount(ctx context.Context) error {
	if err := a.api.DeleteAccount(ctx); err != nil {
		a.store.Dispatch(Action{Type: ActionProfileError, Payload: errorMessage(err)})
		return err
	}
	a.api.SetToken("")
	a.store.Dispatch(Action{Type: ActionAccountDeleted})
	a.SetAlert("Your account has been permanently deleted", AlertSuccess)
	return nil
}

func (a *Actions) GetPosts(ctx context.Context) error {
	posts, err := a.api.Posts(ctx)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetPosts, Payload: posts})
	return nil
}

func (a *Actions) GetPost(ctx context.Context, postID string) error {
	post, err := a.api.Post(ctx, postID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionGetPost, Payload: post})
	return nil
}

func (a *Actions) AddPost(ctx context.Context, text string) error {
	post, err := a.api.CreatePost(ctx, models.PostRequest{Text: text})
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionAddPost, Payload: post})
	a.SetAlert("Post created", AlertSuccess)
	return nil
}

func (a *Actions) DeletePost(ctx context.Context, postID string) error {
	if err := a.api.DeletePost(ctx, postID); err != nil {
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionDeletePost, Payload: postID})
	a.SetAlert("Post removed", AlertSuccess)
	return nil
}

func (a *Actions) AddLike(ctx context.Context, postID string) error {
	likes, err := a.api.LikePost(ctx, postID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionUpdateLikes, Payload: LikesUpdate{PostID: postID, Likes: likes}})
	return nil
}

func (a *Actions) RemoveLike(ctx context.Context, postID string) error {
	likes, err := a.api.UnlikePost(ctx, postID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionUpdateLikes, Payload: LikesUpdate{PostID: postID, Likes: likes}})
	return nil
}

func (a *Actions) AddComment(ctx context.Context, postID, text string) error {
	comments, err := a.api.AddComment(ctx, postID, models.CommentRequest{Text: text})
	if err != nil {
		a.reportError(err)
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionUpdateComments, Payload: CommentsUpdate{PostID: postID, Comments: comments}})
	a.SetAlert("Comment added", AlertSuccess)
	return nil
}

func (a *Actions) DeleteComment(ctx context.Context, postID, commentID string) error {
	comments, err := a.api.DeleteComment(ctx, postID, commentID)
	if err != nil {
		a.store.Dispatch(Action{Type: ActionPostError, Payload: errorMessage(err)})
		return err
	}
	a.store.Dispatch(Action{Type: ActionUpdateComments, Payload: CommentsUpdate{PostID: postID, Comments: comments}})
	a.SetAlert("Comment removed", AlertSuccess)
	return nil
}
