package domain

import "time"

// Template is a reusable simulated-phishing message.
type Template struct {
	ID          string
	Name        string
	Subject     string
	SenderName  string
	SenderEmail string
	Body        string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot returns a frozen value copy of the template content. Launched
// campaigns store a snapshot so later edits never alter historical sends.
func (t *Template) Snapshot() TemplateSnapshot {
	return TemplateSnapshot{
		Name:        t.Name,
		Subject:     t.Subject,
		SenderName:  t.SenderName,
		SenderEmail: t.SenderEmail,
		Body:        t.Body,
		Category:    t.Category,
	}
}

// TemplateSnapshot is the template content frozen onto a campaign at launch.
type TemplateSnapshot struct {
	Name        string
	Subject     string
	SenderName  string
	SenderEmail string
	Body        string
	Category    string
}
