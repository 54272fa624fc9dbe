// Package moderation runs the comment submission hooks: a pre-save spam
// check that can discard a candidate comment, and post-save notifications.
// Hooks are registered explicitly at startup so ordering and failure
// handling stay visible, instead of hiding behind a global event bus.
package moderation

import (
	"fmt"
	"log"

	"github.com/loftlabs/loft/app/models"
	"github.com/loftlabs/loft/internal/pkg/akismet"
	"github.com/loftlabs/loft/internal/pkg/mail"
)

// RequestMeta carries the submitting request's metadata for classifiers.
type RequestMeta struct {
	RemoteAddr string
	UserAgent  string
	Referrer   string
}

// PreSaveHook inspects a candidate comment before persistence. Returning
// discard=true drops the comment silently; an error means the hook could
// not decide and the comment is kept (fail open).
type PreSaveHook func(comment *models.Comment, meta RequestMeta) (discard bool, err error)

// PostSaveHook runs after a comment was persisted. Failures are logged,
// never surfaced to the commenter.
type PostSaveHook func(comment *models.Comment) error

// Hooks is an ordered set of comment submission callbacks.
type Hooks struct {
	preSave  []PreSaveHook
	postSave []PostSaveHook
}

func NewHooks() *Hooks {
	return &Hooks{}
}

func (h *Hooks) RegisterPreSave(hook PreSaveHook) {
	h.preSave = append(h.preSave, hook)
}

func (h *Hooks) RegisterPostSave(hook PostSaveHook) {
	h.postSave = append(h.postSave, hook)
}

// RunPreSave runs the pre-save hooks in registration order and reports
// whether the comment should be discarded. Hook errors are logged and
// skipped: an unreachable classifier must not block the submission flow.
func (h *Hooks) RunPreSave(comment *models.Comment, meta RequestMeta) bool {
	for _, hook := range h.preSave {
		discard, err := hook(comment, meta)
		if err != nil {
			log.Printf("comment pre-save hook failed, keeping comment: %v", err)
			continue
		}
		if discard {
			return true
		}
	}
	return false
}

// RunPostSave runs the post-save hooks in registration order.
func (h *Hooks) RunPostSave(comment *models.Comment) {
	for _, hook := range h.postSave {
		if err := hook(comment); err != nil {
			log.Printf("comment post-save hook failed: %v", err)
		}
	}
}

// SpamCheck returns a pre-save hook that discards comments the
// classification service flags as spam.
func SpamCheck(client *akismet.Client) PreSaveHook {
	return func(comment *models.Comment, meta RequestMeta) (bool, error) {
		spam, err := client.CommentCheck(akismet.Comment{
			UserIP:      meta.RemoteAddr,
			UserAgent:   meta.UserAgent,
			Referrer:    meta.Referrer,
			Author:      comment.Name,
			AuthorEmail: comment.Email,
			Content:     comment.Content,
		})
		if err != nil {
			return false, err
		}
		return spam, nil
	}
}

// AdminNotifier returns a post-save hook that emails the site admins about
// publicly visible comments.
func AdminNotifier(send func(subject, body string) error) PostSaveHook {
	return func(comment *models.Comment) error {
		if !comment.IsPublic {
			return nil
		}
		subject := fmt.Sprintf("New comment by %s", comment.Name)
		body := fmt.Sprintf("%s wrote on entry %d:\r\n\r\n%s\r\n", comment.Name, comment.EntryID, comment.Content)
		return send(subject, body)
	}
}

// Default hook set, wired at router setup.
var defaultHooks = NewHooks()

// Defaults returns the process-wide hook set.
func Defaults() *Hooks {
	return defaultHooks
}

// SetupDefaults registers the standard hooks: spam classification first,
// then the admin notification mail.
func SetupDefaults() {
	defaultHooks = NewHooks()
	defaultHooks.RegisterPreSave(SpamCheck(akismet.NewClientFromEnv()))
	defaultHooks.RegisterPostSave(AdminNotifier(mail.MailAdmins))
}
