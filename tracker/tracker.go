// Package tracker maintains the per-user activity record: the last
// successful login and the last authenticated request. It is driven by two
// hooks, one from the token obtain flow and one from the request middleware,
// and read back by the admin user_activity endpoint.
package tracker

import (
	"time"

	"github.com/Luismorlan/postmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Tracker struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// UserActivity is the admin-facing view of a user's activity record.
type UserActivity struct {
	Username    string     `json:"username"`
	LastLogin   *time.Time `json:"last_login"`
	LastRequest *time.Time `json:"last_request"`
}

// OnLoginSuccess stamps last_login. Must only be called after credential
// verification succeeded, failed logins leave the record untouched.
func (t *Tracker) OnLoginSuccess(userId string) error {
	return errors.Wrap(t.touch(userId, "last_login"), "fail to record login")
}

// OnAuthenticatedRequest stamps last_request. Called once per authenticated
// request by the activity middleware. Ordering across concurrent requests of
// the same user is last write wins by wall clock.
func (t *Tracker) OnAuthenticatedRequest(userId string) error {
	return errors.Wrap(t.touch(userId, "last_request"), "fail to record request")
}

// touch stamps one activity column with the current time. Only the touched
// column is written: a whole-row save here would let a concurrent login and
// request overwrite each other's stamp with a stale NULL under READ
// COMMITTED. A user provisioned without a record (outside the registration
// flow) gets one created on first access instead of poisoning every later
// request, with ON CONFLICT DO NOTHING covering two first accesses racing.
func (t *Tracker) touch(userId string, column string) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.ActivityRecord{UserID: userId}).Error; err != nil {
			return err
		}
		return tx.Model(&model.ActivityRecord{}).
			Where("user_id = ?", userId).
			Update(column, time.Now()).Error
	})
}

// GetActivity returns the activity view for the given user. Returns
// gorm.ErrRecordNotFound when the user itself does not exist. A user without
// an activity record yields null timestamps rather than an error.
func (t *Tracker) GetActivity(userId string) (*UserActivity, error) {
	var user model.User
	if err := t.db.First(&user, "id = ?", userId).Error; err != nil {
		return nil, err
	}

	var rec model.ActivityRecord
	if err := t.db.FirstOrInit(&rec, model.ActivityRecord{UserID: userId}).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load activity record")
	}

	return &UserActivity{
		Username:    user.Username,
		LastLogin:   rec.LastLogin,
		LastRequest: rec.LastRequest,
	}, nil
}
