package models

import "time"

type Participant struct {
	ID               int64      `db:"id"`
	Email            string     `db:"email"`
	FirstName        string     `db:"first_name"`
	LastName         string     `db:"last_name"`
	DOB              *time.Time `db:"dob"`
	Role             Role       `db:"role"`
	Phone            string     `db:"phone"`
	SchoolOrEmployer string     `db:"school_or_employer"`
	FieldOfInterest  string     `db:"field_of_interest"`
	Zip              string     `db:"zip"`
	CreatedAt        time.Time  `db:"created_at"`
}

func (p Participant) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Event struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	EventDate   time.Time `db:"event_date"`
	EventType   string    `db:"event_type"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	CreatedAt   time.Time `db:"created_at"`
}

type Donation struct {
	ID               int64     `db:"id"`
	ParticipantEmail string    `db:"participant_email"`
	DonationDate     time.Time `db:"donation_date"`
	Amount           float64   `db:"amount"`
	FirstName        *string   `db:"first_name"`
	LastName         *string   `db:"last_name"`
}

func (d Donation) DonorName() string {
	p := Participant{}
	if d.FirstName != nil {
		p.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		p.LastName = *d.LastName
	}
	return p.FullName()
}

type Survey struct {
	ID                 int64     `db:"id"`
	ParticipantID      int64     `db:"participant_id"`
	EventID            int64     `db:"event_id"`
	SatisfactionRating int       `db:"satisfaction_rating"`
	UsefulnessRating   int       `db:"usefulness_rating"`
	RecommendRating    int       `db:"recommend_rating"`
	Comments           string    `db:"comments"`
	CreatedAt          time.Time `db:"created_at"`
	ParticipantName    string    `db:"participant_name"`
	EventName          string    `db:"event_name"`
}

type Milestone struct {
	ID               int64     `db:"id"`
	ParticipantEmail string    `db:"participant_email"`
	Title            string    `db:"title"`
	MilestoneDate    time.Time `db:"milestone_date"`
	Categories       []string  `db:"-"`
}

// MilestoneSummary is one row of the per-participant milestone report.
type MilestoneSummary struct {
	ParticipantID      int64      `db:"id"`
	FirstName          string     `db:"first_name"`
	LastName           string     `db:"last_name"`
	Email              string     `db:"email"`
	MilestoneCount     int64      `db:"milestone_count"`
	FirstMilestoneDate *time.Time `db:"first_milestone_date"`
	UniversityTours    int64      `db:"university_tours"`
	LeadershipSummits  int64      `db:"leadership_summits"`
	WorkshopsAttended  int64      `db:"workshops_attended"`
	MariachiPractice   int64      `db:"mariachi_practice"`
}

// LandingStats feeds the public landing page and the 404 page.
type LandingStats struct {
	Participants  int64
	Events        int64
	Donations     int64
	DonationTotal float64
}

// Option is a select box entry.
type Option struct {
	ID    int64  `db:"id"`
	Label string `db:"label"`
}
