package boardserver

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"github.com/krosengr4/byteboard/internal/models"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// Seed fills the store with fake users, posts and comments for local
// development. Every seeded account logs in with SeedPassword.
func (s *Server) Seed(users, postsPerUser int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	faker := gofakeit.New(0)
	var userIDs []uint

	for i := 0; i < users; i++ {
		username := fmt.Sprintf("%s%d", faker.Username(), i)
		user, _, ok := s.store.createUser(username, hash, "user", faker.FirstName(), faker.LastName())
		if !ok {
			continue
		}
		s.store.updateProfile(user.ID, profileFor(faker, user.FirstName))
		userIDs = append(userIDs, user.ID)
	}

	for _, uid := range userIDs {
		user, _ := s.store.userByID(uid)
		for i := 0; i < postsPerUser; i++ {
			post := s.store.createPost(uid, user.Username, faker.Sentence(6), faker.Paragraph(1, 3, 12, " "))
			// A couple of comments from random seeded users.
			for j := 0; j < 2; j++ {
				commenterID := userIDs[faker.Number(0, len(userIDs)-1)]
				commenter, _ := s.store.userByID(commenterID)
				s.store.createComment(post.ID, commenterID, commenter.Username, faker.Sentence(8))
			}
		}
	}

	s.log.Info("seeded store", "users", len(userIDs), "posts_per_user", postsPerUser)
	return nil
}

func profileFor(faker *gofakeit.Faker, firstName string) (req models.ProfileRequest) {
	req.FirstName = firstName
	req.LastName = faker.LastName()
	req.Email = faker.Email()
	req.GithubLink = "https://github.com/" + faker.Username()
	req.City = faker.City()
	req.State = faker.StateAbr()
	return req
}
