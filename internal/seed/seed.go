// Package seed creates demo and test data. It is intended for development
// and testing only.
package seed

import (
	"context"
	"fmt"

	"skillswap/internal/cache"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "password"

// DemoRoom is the persisted chat room the demo creates for alice and bob.
const DemoRoom = "alice-bob-room"

type demoAccount struct {
	username, bio, location string
	skill, skillDescription string
}

var demoAccounts = []demoAccount{
	{"alice", "Python developer and mentor", "São Paulo", "Python", "Python programming for beginners"},
	{"bob", "Gardening and home maintenance", "Porto Alegre", "Gardening", "Garden and vegetable patch care"},
	{"carol", "Freelance graphic designer", "Rio de Janeiro", "Design", "Logos and visual material"},
}

// Demo is the outcome of SeedDemo, keyed by username.
type Demo struct {
	Users  map[string]*models.User
	Skills map[string]*models.Skill
}

// SeedDemo writes the demo dataset: alice, bob and carol with profiles and
// one skill each, a completed and reviewed request from bob to alice, a
// pending request from alice to carol, and a chat room for alice and bob
// holding two messages. Running it again changes nothing.
func SeedDemo(db *gorm.DB) (*Demo, error) {
	demo := &Demo{
		Users:  make(map[string]*models.User),
		Skills: make(map[string]*models.Skill),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}

		for _, a := range demoAccounts {
			user := &models.User{}
			res := tx.Where(models.User{Username: a.username}).
				Attrs(models.User{Email: a.username + "@example.com", Password: string(hash)}).
				FirstOrCreate(user)
			if res.Error != nil {
				return fmt.Errorf("user %s: %w", a.username, res.Error)
			}
			if res.RowsAffected > 0 {
				middleware.Logger.Info("created demo user", "username", a.username)
			}
			demo.Users[a.username] = user

			profile := &models.Profile{}
			if err := tx.Where(models.Profile{UserID: user.ID}).
				Attrs(models.Profile{Bio: a.bio, Location: a.location}).
				FirstOrCreate(profile).Error; err != nil {
				return fmt.Errorf("profile %s: %w", a.username, err)
			}

			skill := &models.Skill{}
			if err := tx.Where(models.Skill{UserID: user.ID, Name: a.skill}).
				Attrs(models.Skill{Description: a.skillDescription}).
				FirstOrCreate(skill).Error; err != nil {
				return fmt.Errorf("skill %s: %w", a.skill, err)
			}
			demo.Skills[a.username] = skill
		}

		alice, bob, carol := demo.Users["alice"], demo.Users["bob"], demo.Users["carol"]

		lesson, err := demoRequest(tx, bob, alice, demo.Skills["alice"], "I want to learn basic Python", models.RequestStatusCompleted)
		if err != nil {
			return err
		}
		review := &models.Review{}
		if err := tx.Where(models.Review{ServiceRequestID: lesson.ID}).
			Attrs(models.Review{ReviewerID: bob.ID, ReviewedUserID: alice.ID, Rating: 5, Comment: "Great lesson!"}).
			FirstOrCreate(review).Error; err != nil {
			return fmt.Errorf("review: %w", err)
		}

		if _, err := demoRequest(tx, alice, carol, demo.Skills["carol"], "I need a simple logo", models.RequestStatusPending); err != nil {
			return err
		}

		return demoChat(context.Background(), repository.NewChatRepository(tx), alice, bob)
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("demo data ready", "users", len(demo.Users))
	return demo, nil
}

func demoRequest(tx *gorm.DB, requester, provider *models.User, skill *models.Skill, description string, status models.RequestStatus) (*models.ServiceRequest, error) {
	req := &models.ServiceRequest{}
	err := tx.Where(models.ServiceRequest{RequesterID: requester.ID, ProviderID: provider.ID, OfferedSkillID: skill.ID}).
		Attrs(models.ServiceRequest{Description: description, Status: status}).
		FirstOrCreate(req).Error
	if err != nil {
		return nil, fmt.Errorf("request %s->%s: %w", requester.Username, provider.Username, err)
	}
	return req, nil
}

// demoChat finds alice and bob's demo room, creating it when missing, and
// adds whichever demo messages it does not already hold.
func demoChat(ctx context.Context, chats repository.ChatRepository, alice, bob *models.User) error {
	rooms, err := chats.ListRoomsForUser(ctx, alice.ID)
	if err != nil {
		return fmt.Errorf("chat rooms: %w", err)
	}
	var room *models.ChatRoom
	for i := range rooms {
		if rooms[i].Name == DemoRoom && rooms[i].HasParticipant(bob.ID) {
			room = &rooms[i]
			break
		}
	}
	if room == nil {
		room = &models.ChatRoom{Name: DemoRoom, Participants: []models.User{*alice, *bob}}
		if err := chats.CreateRoom(ctx, room); err != nil {
			return fmt.Errorf("chat room: %w", err)
		}
		middleware.Logger.Info("created demo chat room", "room", room.Label())
	}

	existing, err := chats.ListMessages(ctx, room.ID, 100, 0)
	if err != nil {
		return fmt.Errorf("chat messages: %w", err)
	}
	for _, m := range []models.ChatMessage{
		{RoomID: room.ID, SenderID: alice.ID, Content: "Hi Bob, shall we book the lesson?"},
		{RoomID: room.ID, SenderID: bob.ID, Content: "Sure, when suits you?"},
	} {
		if hasMessage(existing, m) {
			continue
		}
		if err := chats.CreateMessage(ctx, &m); err != nil {
			return fmt.Errorf("chat message: %w", err)
		}
	}
	return nil
}

func hasMessage(msgs []models.ChatMessage, m models.ChatMessage) bool {
	for _, e := range msgs {
		if e.SenderID == m.SenderID && e.Content == m.Content {
			return true
		}
	}
	return false
}

// ClearAll removes every row the seeders write, children first, and drops
// the cached lookups of the deleted users.
func ClearAll(db *gorm.DB) error {
	var users []models.User
	if err := db.Select("id", "username").Find(&users).Error; err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Exec("DELETE FROM chat_room_participants").Error; err != nil {
			return fmt.Errorf("clear chat_room_participants: %w", err)
		}
		for _, m := range []interface{}{
			&models.ChatMessage{},
			&models.ChatRoom{},
			&models.Review{},
			&models.ServiceRequest{},
			&models.Skill{},
			&models.Profile{},
			&models.User{},
		} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, u := range users {
		cache.InvalidateUser(ctx, u.ID, u.Username)
	}
	middleware.Logger.Info("database cleared", "users", len(users))
	return nil
}
