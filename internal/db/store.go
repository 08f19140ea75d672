// exposes a Store interface that is passed to API modules.
package db

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// event functions
	CreateEvent(ev model.Event) (model.Event, error)
	SaveSeries(events []model.Event) ([]model.Event, error)
	GetEventByID(id string) (model.Event, error)
	ListEvents() ([]model.Event, error)
	ListEventsJoinedBy(userID int) ([]model.Event, error)
	UpdateEvent(id string, title, location, ageRange *string, occursAt *sql.NullTime) error
	SetEventCapacity(id string, capacity *int) error
	SetEventImage(id string, imageURL string) error
	DeleteEvent(id string) error
	DeleteEventsBefore(cutoff time.Time) ([]string, error)

	// participation functions
	AddParticipant(eventID string, userID int) error
	RemoveParticipant(eventID string, userID int) error
	ListParticipants(eventID string) ([]model.Participant, error)
	CountParticipants(eventID string) (int, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(database *sqlx.DB) Store {
	return &pgStore{db: database}
}

func (s *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	return CreateUser(email, hashedPassword, name)
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	return GetUserByEmail(email)
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	return GetUserByID(id)
}

func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	return UpdateUserProfile(id, email, name)
}

func (s *pgStore) CreateEvent(ev model.Event) (model.Event, error) {
	return CreateEvent(ev)
}

func (s *pgStore) SaveSeries(events []model.Event) ([]model.Event, error) {
	return SaveSeries(events)
}

func (s *pgStore) GetEventByID(id string) (model.Event, error) {
	return GetEventByID(id)
}

func (s *pgStore) ListEvents() ([]model.Event, error) {
	return ListEvents()
}

func (s *pgStore) ListEventsJoinedBy(userID int) ([]model.Event, error) {
	return ListEventsJoinedBy(userID)
}

func (s *pgStore) UpdateEvent(id string, title, location, ageRange *string, occursAt *sql.NullTime) error {
	return UpdateEvent(id, title, location, ageRange, occursAt)
}

func (s *pgStore) SetEventCapacity(id string, capacity *int) error {
	return SetEventCapacity(id, capacity)
}

func (s *pgStore) SetEventImage(id string, imageURL string) error {
	return SetEventImage(id, imageURL)
}

func (s *pgStore) DeleteEvent(id string) error {
	return DeleteEvent(id)
}

func (s *pgStore) DeleteEventsBefore(cutoff time.Time) ([]string, error) {
	return DeleteEventsBefore(cutoff)
}

func (s *pgStore) AddParticipant(eventID string, userID int) error {
	return AddParticipant(eventID, userID)
}

func (s *pgStore) RemoveParticipant(eventID string, userID int) error {
	return RemoveParticipant(eventID, userID)
}

func (s *pgStore) ListParticipants(eventID string) ([]model.Participant, error) {
	return ListParticipants(eventID)
}

func (s *pgStore) CountParticipants(eventID string) (int, error) {
	return CountParticipants(eventID)
}
