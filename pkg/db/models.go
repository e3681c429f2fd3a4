package db

import "time"

// Ministry represents a database ministry record
type Ministry struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Kind        string    `db:"kind"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Volunteer represents a database volunteer record
type Volunteer struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	CPF        string    `db:"cpf"`
	Status     string    `db:"status"`
	MinistryID string    `db:"ministry_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Event represents a database event record
type Event struct {
	ID            string    `db:"id"`
	Date          time.Time `db:"date"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	RequiredCount int       `db:"required_count"`
	MinistryID    string    `db:"ministry_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// Assignment represents a database assignment record
type Assignment struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	VolunteerID string    `db:"volunteer_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Announcement represents a database announcement record
type Announcement struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	Active     bool      `db:"active"`
	MinistryID string    `db:"ministry_id"`
	CreatedAt  time.Time `db:"created_at"`
}
