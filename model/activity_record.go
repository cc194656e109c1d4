package model

import "time"

/*

ActivityRecord keeps the two liveness timestamps of a user, one record
per user.

LastLogin: set on every successful token obtain
LastRequest: set on every authenticated request

Both are nullable, a freshly registered user has neither. The record is
created together with the user in the registration transaction and
cascades on user deletion.

*/

type ActivityRecord struct {
	UserID      string `gorm:"primaryKey"`
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LastLogin   *time.Time
	LastRequest *time.Time
}
