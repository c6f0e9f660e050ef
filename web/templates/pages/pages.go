// Package pages holds the server-rendered pages. Each page is a
// templ.Component backed by an embedded html/template, so handlers render
// them the same way regardless of how the markup is produced.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"event-booking-portal/internal/models"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

var templates = mustParse("login", "register", "home", "events", "book_ticket", "booking_success")

func mustParse(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "html/layout.html"))

	set := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		set[name] = template.Must(t.ParseFS(files, "html/"+name+".html"))
	}
	return set
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t, ok := templates[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout.html", data)
	})
}

// Nav is the part of every page that depends on who is logged in.
type Nav struct {
	User string
}

type LoginData struct {
	Nav
	Error string
	Email string
}

type RegisterData struct {
	Nav
	Error string
	Name  string
	Email string
}

type HomeData struct {
	Nav
}

type EventsData struct {
	Nav
	Events []models.Event
}

type BookTicketData struct {
	Nav
	Error   string
	EventID string
	Tickets string
}

type BookingSuccessData struct {
	Nav
	Message   string
	BookingID *string
}

func Login(d LoginData) templ.Component { return render("login", d) }

func Register(d RegisterData) templ.Component { return render("register", d) }

func Home(d HomeData) templ.Component { return render("home", d) }

func Events(d EventsData) templ.Component { return render("events", d) }

func BookTicket(d BookTicketData) templ.Component { return render("book_ticket", d) }

func BookingSuccess(d BookingSuccessData) templ.Component { return render("booking_success", d) }
