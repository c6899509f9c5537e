package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

type SeedStats struct {
	Users   int
	Posts   int
	Follows int
}

// Inserts fake users, posts (some replies, shares, mentions and images) and followers. The same seed produces the same content.
func (s *Store) Seed(ctx context.Context, users, posts int, seed int64) (*SeedStats, error) {
	if users < 1 {
		return nil, fmt.Errorf("need at least one user to seed posts")
	}
	faker := gofakeit.New(seed)
	db := s.db.WithContext(ctx)
	stats := &SeedStats{}

	created := make([]User, 0, users)
	for i := 0; i < users; i++ {
		u := User{
			Handle:      fmt.Sprintf("%s%d", strings.ToLower(faker.Username()), i),
			DisplayName: faker.Name(),
		}
		if err := db.Create(&u).Error; err != nil {
			return stats, fmt.Errorf("creating user: %w", err)
		}
		created = append(created, u)
		stats.Users++

		followers := faker.Number(0, 3)
		for j := 0; j < followers; j++ {
			f := Follow{
				UserID:      u.ID,
				FollowerURI: fmt.Sprintf("https://%s/users/%s", faker.DomainName(), strings.ToLower(faker.Username())),
			}
			if err := db.Create(&f).Error; err != nil {
				return stats, fmt.Errorf("creating follow: %w", err)
			}
			stats.Follows++
		}
	}

	var prev []uint
	for i := 0; i < posts; i++ {
		author := created[faker.Number(0, len(created)-1)]
		body := faker.Sentence(12)
		if len(created) > 1 && faker.Bool() {
			other := created[faker.Number(0, len(created)-1)]
			body = fmt.Sprintf("@%s %s", other.Handle, body)
		}
		p := Post{
			Bundle:   BundlePost,
			AuthorID: author.ID,
			Title:    faker.Sentence(4),
			Body:     "<p>" + body + "</p>",
			Public:   faker.Number(0, 9) > 1,
		}
		if len(prev) > 0 {
			switch faker.Number(0, 5) {
			case 0:
				id := prev[faker.Number(0, len(prev)-1)]
				p.ReplyToID = &id
			case 1:
				id := prev[faker.Number(0, len(prev)-1)]
				p.Bundle = BundleShare
				p.TargetID = &id
			}
		}
		if faker.Number(0, 3) == 0 {
			p.Images = []PostImage{{
				URL:       faker.ImageURL(640, 480) + ".jpg",
				MediaType: "image/jpeg",
				Alt:       faker.Sentence(3),
			}}
		}
		if err := db.Create(&p).Error; err != nil {
			return stats, fmt.Errorf("creating post: %w", err)
		}
		prev = append(prev, p.ID)
		stats.Posts++
	}
	return stats, nil
}
