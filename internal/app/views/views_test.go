package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$1,234.50", Money(1234.5))
}

func TestLayoutRendersFlashesAndNav(t *testing.T) {
	user := &models.UserRef{ID: 1, Email: "m@x.com", Role: models.RoleManager}
	doc := renderDoc(t, Layout(models.LayoutTempl{
		Title:     "Home",
		User:      user,
		Nav:       models.NavFor(user),
		ActiveNav: "Events",
		Content:   Home(Meta{CSRFToken: "tok", User: user}),
		CSRFToken: "tok",
		Success:   []string{"Welcome back!"},
		Errors:    []string{"Managers only"},
	}))

	assert.Equal(t, "Welcome back!", doc.Find(".flash-success").Text())
	assert.Equal(t, "Managers only", doc.Find(".flash-error").Text())
	assert.Equal(t, "Events", doc.Find("nav a.active").Text())
	assert.Equal(t, 1, doc.Find(`nav a[href="/admin/make-manager"]`).Length())
	v, _ := doc.Find(`form[action="/logout"] input[name="_csrf"]`).Attr("value")
	assert.Equal(t, "tok", v)
	assert.Equal(t, "Home | Ella Rises", doc.Find("title").Text())
}

func TestLayoutForAnonymousHasNoLogout(t *testing.T) {
	doc := renderDoc(t, Layout(models.LayoutTempl{
		Nav:     models.NavFor(nil),
		Content: Login(Meta{CSRFToken: "abc"}),
	}))

	assert.Zero(t, doc.Find(`form[action="/logout"]`).Length())
	assert.Zero(t, doc.Find(".flash").Length())
	v, _ := doc.Find(`#login-form input[name="_csrf"]`).Attr("value")
	assert.Equal(t, "abc", v)
}

func TestLandingShowsStats(t *testing.T) {
	doc := renderDoc(t, Landing(Meta{}, models.LandingStats{
		Participants: 12, Events: 3, Donations: 7, DonationTotal: 2500,
	}))

	assert.Equal(t, "12", doc.Find("#stat-participants strong").Text())
	assert.Equal(t, "3", doc.Find("#stat-events strong").Text())
	assert.Equal(t, "7", doc.Find("#stat-donations strong").Text())
	assert.Equal(t, "$2,500.00", doc.Find("#stat-donation-total strong").Text())
}

func TestParticipantListHidesManagerActionsFromUsers(t *testing.T) {
	list := []models.Participant{{ID: 4, Email: "p@x.com", FirstName: "Ana", LastName: "Diaz", Role: models.RoleUser}}

	doc := renderDoc(t, ParticipantList(Meta{User: &models.UserRef{ID: 2, Email: "u@x.com", Role: models.RoleUser}}, list))
	assert.Equal(t, "Ana Diaz", doc.Find("#participants tbody td").First().Text())
	assert.Zero(t, doc.Find(`a[href="/participants/4/edit"]`).Length())

	doc = renderDoc(t, ParticipantList(Meta{CSRFToken: "t", User: &models.UserRef{ID: 1, Email: "m@x.com", Role: models.RoleManager}}, list))
	assert.Equal(t, 1, doc.Find(`a[href="/participants/4/edit"]`).Length())
	v, _ := doc.Find(`form[action="/participants/4/delete"] input[name="_csrf"]`).Attr("value")
	assert.Equal(t, "t", v)
}

func TestFormsPostToCreateOrUpdate(t *testing.T) {
	doc := renderDoc(t, EventForm(Meta{}, models.Event{}))
	action, _ := doc.Find("#event-form").Attr("action")
	assert.Equal(t, "/events", action)

	doc = renderDoc(t, EventForm(Meta{}, models.Event{ID: 9, Name: "Summit", EventDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)}))
	action, _ = doc.Find("#event-form").Attr("action")
	assert.Equal(t, "/events/9", action)
	date, _ := doc.Find("#event_date").Attr("value")
	assert.Equal(t, "2025-03-14", date)
}

func TestSurveyFormPreselects(t *testing.T) {
	doc := renderDoc(t, SurveyForm(Meta{},
		models.Survey{ParticipantID: 2, EventID: 5},
		[]models.Option{{ID: 1, Label: "Ana"}, {ID: 2, Label: "Bea"}},
		[]models.Option{{ID: 5, Label: "Summit"}},
	))

	assert.Equal(t, "Bea", doc.Find("#participant_id option[selected]").Text())
	assert.Equal(t, "Summit", doc.Find("#event_id option[selected]").Text())
	assert.Equal(t, 3, doc.Find(`input[type="number"][min="1"][max="5"]`).Length())
}

func TestDonationListFormatsAmounts(t *testing.T) {
	first, last := "Ana", "Diaz"
	doc := renderDoc(t, DonationList(Meta{}, []models.Donation{
		{ID: 1, ParticipantEmail: "a@x.com", Amount: 1500.25, FirstName: &first, LastName: &last},
		{ID: 2, ParticipantEmail: "anon@x.com", Amount: 20},
	}))

	amounts := doc.Find("#donations td.amount")
	assert.Equal(t, "$1,500.25", amounts.Eq(0).Text())
	assert.Equal(t, "$20.00", amounts.Eq(1).Text())
}

func TestEveryPageRenders(t *testing.T) {
	meta := Meta{CSRFToken: "t", User: &models.UserRef{ID: 1, Email: "m@x.com", Role: models.RoleManager}}
	components := map[string]templ.Component{
		"signup":          Signup(meta),
		"dashboard":       Dashboard(meta),
		"participantForm": ParticipantForm(meta, models.Participant{}),
		"eventList":       EventList(meta, nil),
		"donationForm":    DonationForm(meta, models.Donation{ID: 3, Amount: 10}),
		"myDonations":     MyDonations(meta, nil),
		"myDonationForm":  MyDonationForm(meta),
		"makeManager":     MakeManager(meta),
		"milestones":      MilestoneSummary(meta, nil),
		"milestoneDetail": MilestoneDetail(meta, models.Participant{ID: 2, FirstName: "Ana"}, nil),
		"surveys":         SurveyList(meta, nil),
	}
	for name, c := range components {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Render(context.Background(), &buf))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestFragmentCarriesFlashesWithoutShell(t *testing.T) {
	doc := renderDoc(t, Fragment(models.LayoutTempl{
		Title:   "Events",
		Content: Login(Meta{CSRFToken: "abc"}),
		Success: []string{"Event created"},
	}))

	assert.Equal(t, "Event created", doc.Find(".flash-success").Text())
	assert.Equal(t, 1, doc.Find("#login-form").Length())
	assert.Zero(t, doc.Find("header.site").Length())
	assert.Zero(t, doc.Find(`link[rel="stylesheet"]`).Length())
}
