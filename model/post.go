package model

import "time"

/*

Post is a piece of text published by a user

Id: primary key
CreatedAt: time when the post is created, assigned by the server. Only
admins may rewrite it afterwards.

UserID:
User: the author, "belongs-to" relation. Deleting the author deletes
the post.

Content: post body in plain text

*/

type Post struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Content   string
}
