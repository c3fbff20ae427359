package silverconnect

import (
	"fmt"
	"strings"

	"github.com/aretw0/silverconnect/pkg/domain"
)

func (p *Platform) communitiesView(listing []domain.Community, recommended int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", p.printer.Sprintf("view.communities"))
	for i, c := range listing {
		tag := c.Category
		if i < recommended {
			tag += ", " + p.printer.Sprintf("view.recommended")
		}
		fmt.Fprintf(&b, "%d. **%s** (%s), %s\n", i+1, c.Name, tag, p.printer.Sprintf("view.members", c.Members))
		if c.Description != "" {
			fmt.Fprintf(&b, "   %s\n", c.Description)
		}
	}
	return b.String()
}

func (p *Platform) activitiesView(listing []domain.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", p.printer.Sprintf("view.activities"))
	for i, a := range listing {
		fmt.Fprintf(&b, "%d. **%s** %s, %s (%s), %s\n", i+1, a.Name, a.Time, a.Location, a.Difficulty,
			p.printer.Sprintf("view.spots", a.SpotsLeft(), a.MaxParticipants))
	}
	return b.String()
}

// DashboardView renders a dashboard as markdown.
func (p *Platform) DashboardView(d Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s: %s\n\n", p.printer.Sprintf("view.dashboard"), d.Profile.FullName)
	s := d.Summary
	fmt.Fprintf(&b, "%s\n\n", p.printer.Sprintf("view.summary", len(s.Communities), len(s.Activities), len(s.Friends), s.Notifications))
	fmt.Fprintf(&b, "%s\n\n", p.printer.Sprintf("view.completion", s.ProfileCompletion, s.EngagementScore*100))
	for _, list := range [][]string{s.Communities, s.Activities, s.Friends} {
		for _, item := range list {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	fmt.Fprintf(&b, "\n%s: %s, %s: %s\n", p.printer.Sprintf("setting.font"), d.Preferences.FontSize,
		p.printer.Sprintf("setting.theme"), d.Preferences.Theme)
	return b.String()
}
