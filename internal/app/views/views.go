package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "2006-01-02"

var printer = message.NewPrinter(language.AmericanEnglish)

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money":  Money,
	"amount": formatAmount,
	"date":   formatDate,
}).ParseFS(templateFS, "templates/*.html"))

// Meta is what every page template sees besides its own data.
type Meta struct {
	CSRFToken string
	User      *models.UserRef
}

func (m Meta) IsManager() bool {
	return m.User != nil && m.User.IsManager()
}

type page struct {
	Meta
	Data any
}

// Money formats an amount in US dollars with thousands separators.
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if !t.IsZero() {
			return t.Format(dateLayout)
		}
	case *time.Time:
		if t != nil && !t.IsZero() {
			return t.Format(dateLayout)
		}
	}
	return ""
}

func lookup(name string) *template.Template {
	t := pages.Lookup(name)
	if t == nil {
		panic(fmt.Sprintf("views: template %q is not defined", name))
	}
	return t
}

func render(name string, meta Meta, data any) templ.Component {
	return templ.FromGoHTML(lookup(name), page{Meta: meta, Data: data})
}

// Layout wraps the page content in the site shell with navigation and flash banners.
func Layout(data models.LayoutTempl) templ.Component {
	start, end := lookup("layout_start"), lookup("layout_end")
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := start.Execute(w, data); err != nil {
			return err
		}
		if data.Content != nil {
			if err := data.Content.Render(ctx, w); err != nil {
				return err
			}
		}
		return end.Execute(w, data)
	})
}

// Fragment renders the flash banners followed by the page content, without the shell. HTMX swaps use it so flashes
// drained for the request still reach the user.
func Fragment(data models.LayoutTempl) templ.Component {
	flashes := lookup("flashes")
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := flashes.Execute(w, data); err != nil {
			return err
		}
		if data.Content == nil {
			return nil
		}
		return data.Content.Render(ctx, w)
	})
}
