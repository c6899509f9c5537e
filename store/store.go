package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bluesky-social/apbridge/activitypub/builder"
	"github.com/bluesky-social/apbridge/activitypub/lookup"
	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/routes"

	"gorm.io/gorm"
)

// Returned (wrapped) when a row does not exist. Same value as lookup.ErrNotFound.
var ErrNotFound = lookup.ErrNotFound

type Store struct {
	db     *gorm.DB
	site   *routes.Site
	logger *slog.Logger
}

var _ lookup.EntityLoader = (*Store)(nil)
var _ builder.AudienceSource = (*Store)(nil)

func New(db *gorm.DB, site *routes.Site, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		site:   site,
		logger: logger.With("component", "store"),
	}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&User{}, &Post{}, &PostImage{}, &Follow{}, &RemoteActor{})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) GetPost(ctx context.Context, id uint) (*Post, error) {
	var p Post
	err := s.db.WithContext(ctx).Preload("Images").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", id, err)
	}
	return &p, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", id, err)
	}
	return &u, nil
}

func (s *Store) UserByHandle(ctx context.Context, handle string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("handle = ?", handle).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, handle)
	} else if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Follow{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// Loads a post or user entity by its string ID. Unknown entity types and malformed IDs are reported as not found.
func (s *Store) LoadEntity(ctx context.Context, typeID, id string) (mapping.Entity, error) {
	n, err := strconv.ParseUint(id, 10, 0)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("%w: malformed %s id %q", ErrNotFound, typeID, id)
	}
	switch typeID {
	case routes.TypePost:
		p, err := s.GetPost(ctx, uint(n))
		if err != nil {
			return nil, err
		}
		return &PostEntity{Post: p}, nil
	case routes.TypeUser:
		u, err := s.GetUser(ctx, uint(n))
		if err != nil {
			return nil, err
		}
		return &UserEntity{User: u}, nil
	}
	return nil, fmt.Errorf("%w: unsupported entity type %q", ErrNotFound, typeID)
}

// The activity record under which a post is published: same ID as the post, acted by its author.
func (s *Store) ActivityFor(p *Post) builder.Record {
	return builder.Record{
		ActivityRef: mapping.NewRef(routes.TypeActivity, idString(p.ID)),
		ActorURI:    s.site.ActorURL(idString(p.AuthorID)),
	}
}

func (s *Store) actor(u *User) builder.Actor {
	return builder.Actor{
		URI:    s.site.ActorURL(idString(u.ID)),
		Handle: u.Handle + "@" + s.site.Host(),
	}
}
