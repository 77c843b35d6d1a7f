package seed

import (
	"log"

	"Daybook/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "amelia",
		Email:    "amelia@example.com",
		Password: "password",
		FullName: "Amelia Park",
		Bio:      "Writing one entry a day.",
	},
	{
		Username: "ben",
		Email:    "ben@example.com",
		Password: "password",
		FullName: "Ben Okafor",
		Bio:      "Photos mostly.",
	},
	{
		Username: "carla",
		Email:    "carla@example.com",
		Password: "password",
		FullName: "Carla Reyes",
	},
}

var posts = []models.Post{
	{
		Title:    "First entry",
		Content:  "Started keeping a daily log again. Feels good.",
		Type:     models.PostTypeDaily,
		IsPublic: true,
	},
	{
		Title:    "Morning at the harbor",
		Content:  "Caught the fog lifting just after sunrise.",
		Type:     models.PostTypePhoto,
		ImageURL: "https://example.com/harbor.jpg",
		Location: "Harborfront",
		IsPublic: true,
	},
	{
		Content:  "Unplanned thought: coffee tastes better outdoors.",
		Type:     models.PostTypeSpontaneous,
		IsPublic: true,
	},
}

// Load inserts a small demo dataset: three users who follow each other in a
// line, one post each, and a couple of interactions. Existing rows are left
// alone, so repeated boots are safe.
func Load(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Printf("seed: could not inspect users table: %v", err)
		return
	}
	if count > 0 {
		log.Println("seed: users already present, skipping demo data")
		return
	}

	for i := range users {
		users[i].Prepare()
		if _, err := users[i].SaveUser(db); err != nil {
			log.Printf("seed: could not create user %s: %v", users[i].Username, err)
			return
		}

		posts[i].AuthorID = users[i].ID
		posts[i].Prepare()
		posts[i].AuthorID = users[i].ID
		if _, err := posts[i].SavePost(db); err != nil {
			log.Printf("seed: could not create post for %s: %v", users[i].Username, err)
			return
		}
	}

	follows := []models.Follow{
		{FollowerID: users[0].ID, FollowedID: users[1].ID},
		{FollowerID: users[1].ID, FollowedID: users[2].ID},
		{FollowerID: users[2].ID, FollowedID: users[0].ID},
	}
	for i := range follows {
		if _, err := follows[i].SaveFollow(db); err != nil {
			log.Printf("seed: could not create follow edge: %v", err)
			return
		}
	}

	like := models.Like{UserID: users[0].ID, PostID: posts[1].ID}
	if _, err := like.SaveLike(db); err != nil {
		log.Printf("seed: could not create like: %v", err)
		return
	}

	comment := models.Comment{
		UserID: users[2].ID,
		PostID: posts[0].ID,
		Body:   "Good luck keeping the streak!",
	}
	comment.Prepare()
	comment.UserID = users[2].ID
	comment.PostID = posts[0].ID
	if _, err := comment.SaveComment(db); err != nil {
		log.Printf("seed: could not create comment: %v", err)
		return
	}

	log.Println("seed: demo data loaded")
}
