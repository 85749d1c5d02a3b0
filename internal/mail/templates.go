package mail

import (
	"fmt"
	"html/template"
	"strings"
)

// Minimal HTML bodies for the notification emails. Kept inline rather
// than as template files: each is a few lines and shares one layout.

const layoutHTML = `<!doctype html>
<html><body style="font-family:sans-serif;color:#222">
<h2>{{.Heading}}</h2>
<p>{{.Body}}</p>
<p><a href="{{.Link}}">Open board</a></p>
</body></html>`

var layout = template.Must(template.New("layout").Parse(layoutHTML))

type templateData struct {
	Heading string
	Body    string
	Link    string
}

func render(data templateData) string {
	var b strings.Builder
	if err := layout.Execute(&b, data); err != nil {
		// The layout is static and the data is three strings; execution
		// cannot fail at runtime short of an OOM.
		return data.Body
	}
	return b.String()
}

// CardMoved renders the subject and body for a card-moved email.
func CardMoved(movedBy, cardTitle, oldList, newList, link string) (subject, html string) {
	subject = fmt.Sprintf("Card '%s' was moved", cardTitle)
	html = render(templateData{
		Heading: "Card moved",
		Body:    fmt.Sprintf("%s moved card '%s' from '%s' to '%s'.", movedBy, cardTitle, oldList, newList),
		Link:    link,
	})
	return subject, html
}

// CommentAdded renders the subject and body for a new-comment email.
// Long comments are truncated to a 500 rune preview.
func CommentAdded(commenter, cardTitle, content, link string) (subject, html string) {
	preview := []rune(content)
	if len(preview) > 500 {
		content = string(preview[:500]) + "..."
	}

	subject = fmt.Sprintf("New comment on '%s'", cardTitle)
	html = render(templateData{
		Heading: "New comment",
		Body:    fmt.Sprintf("%s commented on card '%s': %s", commenter, cardTitle, content),
		Link:    link,
	})
	return subject, html
}

// ChecklistToggled renders the subject and body for a checklist email.
func ChecklistToggled(toggledBy, cardTitle, itemTitle string, completed bool, link string) (subject, html string) {
	status := "uncompleted"
	if completed {
		status = "completed"
	}

	subject = fmt.Sprintf("Checklist item updated on '%s'", cardTitle)
	html = render(templateData{
		Heading: "Checklist item updated",
		Body:    fmt.Sprintf("%s marked '%s' as %s on card '%s'.", toggledBy, itemTitle, status, cardTitle),
		Link:    link,
	})
	return subject, html
}

// CardAssigned renders the subject and body for an assignment email.
func CardAssigned(assignedBy, cardTitle, link string) (subject, html string) {
	subject = fmt.Sprintf("You were assigned to '%s'", cardTitle)
	html = render(templateData{
		Heading: "Card assigned",
		Body:    fmt.Sprintf("%s assigned you to card '%s'.", assignedBy, cardTitle),
		Link:    link,
	})
	return subject, html
}

// Welcome renders the subject and body for the first-login email.
func Welcome(appName, link string) (subject, html string) {
	subject = fmt.Sprintf("Welcome to %s!", appName)
	html = render(templateData{
		Heading: fmt.Sprintf("Welcome to %s", appName),
		Body:    "Your account is ready. Create a workspace and invite your team to get started.",
		Link:    link,
	})
	return subject, html
}
