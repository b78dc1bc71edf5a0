package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

func Landing(meta Meta, stats models.LandingStats) templ.Component {
	return render("landing", meta, stats)
}

func Login(meta Meta) templ.Component {
	return render("login", meta, nil)
}

func Signup(meta Meta) templ.Component {
	return render("signup", meta, nil)
}

func Home(meta Meta) templ.Component {
	return render("home", meta, nil)
}

func Dashboard(meta Meta) templ.Component {
	return render("dashboard", meta, nil)
}

func ParticipantList(meta Meta, participants []models.Participant) templ.Component {
	return render("participants/list", meta, participants)
}

type participantForm struct {
	Action      string
	Participant models.Participant
}

// ParticipantForm renders the create form for a zero participant and the edit form otherwise.
func ParticipantForm(meta Meta, p models.Participant) templ.Component {
	return render("participants/form", meta, participantForm{
		Action:      formAction("/participants", p.ID),
		Participant: p,
	})
}

func EventList(meta Meta, events []models.Event) templ.Component {
	return render("events/list", meta, events)
}

type eventForm struct {
	Action string
	Event  models.Event
}

func EventForm(meta Meta, e models.Event) templ.Component {
	return render("events/form", meta, eventForm{Action: formAction("/events", e.ID), Event: e})
}

func DonationList(meta Meta, donations []models.Donation) templ.Component {
	return render("donations/list", meta, donations)
}

type donationForm struct {
	Action   string
	Donation models.Donation
}

func DonationForm(meta Meta, d models.Donation) templ.Component {
	return render("donations/form", meta, donationForm{Action: formAction("/donations", d.ID), Donation: d})
}

func MyDonations(meta Meta, donations []models.Donation) templ.Component {
	return render("donations/my-list", meta, donations)
}

func MyDonationForm(meta Meta) templ.Component {
	return render("donations/my-form", meta, nil)
}

func MakeManager(meta Meta) templ.Component {
	return render("admin/make-manager", meta, nil)
}

func MilestoneSummary(meta Meta, rows []models.MilestoneSummary) templ.Component {
	return render("milestones/list", meta, rows)
}

type milestoneDetail struct {
	Participant models.Participant
	Milestones  []models.Milestone
}

func MilestoneDetail(meta Meta, p models.Participant, milestones []models.Milestone) templ.Component {
	return render("milestones/detail", meta, milestoneDetail{Participant: p, Milestones: milestones})
}

func SurveyList(meta Meta, surveys []models.Survey) templ.Component {
	return render("surveys/list", meta, surveys)
}

type rating struct {
	Field string
	Label string
	Value int
}

type surveyForm struct {
	Action       string
	Survey       models.Survey
	Participants []models.Option
	Events       []models.Option
	Ratings      []rating
}

// SurveyForm posts to /surveys for a new survey and to /surveys/:id when editing.
func SurveyForm(meta Meta, s models.Survey, participants, events []models.Option) templ.Component {
	return render("surveys/form", meta, surveyForm{
		Action:       formAction("/surveys", s.ID),
		Survey:       s,
		Participants: participants,
		Events:       events,
		Ratings: []rating{
			{Field: "satisfaction_rating", Label: "Satisfaction", Value: s.SatisfactionRating},
			{Field: "usefulness_rating", Label: "Usefulness", Value: s.UsefulnessRating},
			{Field: "recommend_rating", Label: "Likelihood to recommend", Value: s.RecommendRating},
		},
	})
}

func formAction(base string, id int64) string {
	if id == 0 {
		return base
	}
	return fmt.Sprintf("%s/%d", base, id)
}
