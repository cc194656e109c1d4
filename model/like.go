package model

import "time"

/*

Like is a user's endorsement of a post

UserID + PostID carry a composite unique index: a user can like a given
post at most once. The handler additionally checks for an existing like
inside the insert transaction, the index is the backstop under
concurrent requests.

CreatedAt: time when the like is created. The analytics aggregation
groups on this timestamp's calendar date.

*/

type Like struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    string `gorm:"uniqueIndex:idx_like_user_post;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID    string `gorm:"uniqueIndex:idx_like_user_post;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post      Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
