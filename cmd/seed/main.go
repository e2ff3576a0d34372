package main

import (
	"context"
	"log"
	"time"

	"homefinder-be/internal/config"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database: one admin, one agent, a handful of
// published listings and two knowledge articles. Idempotence is not a
// goal; run against a fresh database.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	hashStr := string(hash)

	admin := entity.User{
		Id:           uuid.New(),
		Email:        "admin@homefinder.local",
		PasswordHash: &hashStr,
		FullName:     "Admin",
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	agent := entity.User{
		Id:           uuid.New(),
		Email:        "agent@homefinder.local",
		PasswordHash: &hashStr,
		FullName:     "Demo Agent",
		Role:         entity.UserRoleAgent,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	for _, u := range []*entity.User{&admin, &agent} {
		if err := uow.UserRepository().Create(ctx, u); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
	}
	color.Green("Seeded users: %s, %s (password: password123)", admin.Email, agent.Email)

	listings := []entity.Listing{
		{
			Title: "Bright two-bedroom near Riverside Park", Address: "12 Elm Street", City: "Springfield",
			District: "Riverside", Rooms: 2, Halls: 1, AreaSqm: 78.5, TotalPrice: 315000,
			Orientation: "south", Decoration: "renovated", Floor: "4/12",
			Description: "Quiet block, morning light, five minutes to the park entrance.",
			Tags:        []string{"park", "renovated", "elevator"},
		},
		{
			Title: "Compact studio by the university", Address: "3 College Lane", City: "Springfield",
			District: "Campus", Rooms: 1, Halls: 0, AreaSqm: 32.0, TotalPrice: 128000,
			Orientation: "east", Decoration: "basic", Floor: "2/6",
			Description: "Ideal first purchase or rental investment, walking distance to campus.",
			Tags:        []string{"studio", "investment"},
		},
		{
			Title: "Family house with garden", Address: "48 Orchard Road", City: "Shelbyville",
			District: "Orchard", Rooms: 4, Halls: 2, AreaSqm: 160.0, TotalPrice: 690000,
			Orientation: "south", Decoration: "furnished", Floor: "1-2/2",
			Description: "Detached house, mature garden, double garage, school district.",
			Tags:        []string{"garden", "garage", "schools"},
		},
	}
	for i := range listings {
		l := &listings[i]
		l.UnitPrice = int64(float64(l.TotalPrice) / l.AreaSqm)
		l.Status = entity.ListingStatusPublished
		l.OwnerId = agent.Id
		l.CreatedAt = time.Now()
		if err := uow.ListingRepository().Create(ctx, l); err != nil {
			log.Fatalf("seed listing %q: %v", l.Title, err)
		}
	}
	color.Green("Seeded %d published listings", len(listings))

	articles := []entity.KnowledgeArticle{
		{
			Title: "How property transfer tax works",
			Content: "Transfer tax is assessed on the declared sale price at the time the deed is " +
				"registered. First-time buyers of properties under 90 square metres qualify for the " +
				"reduced 1% rate; larger properties pay 1.5%, and second homes pay 3%. The tax is due " +
				"within 30 days of signing.",
			CreatedAt: time.Now(),
		},
		{
			Title: "Viewing checklist for buyers",
			Content: "Check water pressure on the top floor, ask for the building's maintenance fund " +
				"statement, and confirm the registered floor area matches the listing. For pre-owned " +
				"homes, request the original purchase deed to verify ownership duration, which affects " +
				"the seller's capital gains liability.",
			CreatedAt: time.Now(),
		},
	}
	for i := range articles {
		if err := uow.KnowledgeRepository().Create(ctx, &articles[i]); err != nil {
			log.Fatalf("seed article %q: %v", articles[i].Title, err)
		}
	}
	color.Green("Seeded %d knowledge articles", len(articles))

	color.Cyan("Run cmd/reindex to build the vector indexes for the seeded content.")
}
