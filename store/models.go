package store

import (
	"time"
)

type User struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	Handle      string `gorm:"uniqueIndex"`
	DisplayName string
}

type Post struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Bundle    string `gorm:"index;default:post"`
	AuthorID  uint   `gorm:"index"`
	Title     string
	Summary   string
	Body      string
	Public    bool
	ReplyToID *uint
	TargetID  *uint
	Images    []PostImage
}

type PostImage struct {
	ID        uint `gorm:"primarykey"`
	PostID    uint `gorm:"index"`
	URL       string
	MediaType string
	Alt       string
}

// Remote (or local) actor following a local user
type Follow struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UserID      uint   `gorm:"index:idx_follow_user_follower,unique"`
	FollowerURI string `gorm:"index:idx_follow_user_follower,unique"`
}

// Known remote actor, so that mentions like @name@domain can be addressed
type RemoteActor struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Handle    string `gorm:"index:idx_remote_actor_handle,unique"`
	Domain    string `gorm:"index:idx_remote_actor_handle,unique"`
	URI       string
}
