package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/scoutline/leadscout/internal/model"
)

func renderContactTable(w io.Writer, contacts []model.Candidate) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Email", "Company", "Socials", "Source", "Confidence"})

	for _, c := range contacts {
		t.AppendRow(table.Row{c.Name, c.Email, c.Company, socials(c), c.Source, c.Confidence})
	}
	t.Render()
}

func renderLeadTable(w io.Writer, leads []model.QualifiedLead) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Score", "Name", "Niche", "Location", "Followers", "Active", "Verified", "Reasons"})

	for _, l := range leads {
		followers := l.Followers
		if l.WasVerified {
			followers = fmt.Sprintf("%d", l.VerifiedFollowers)
		}
		t.AppendRow(table.Row{
			l.QualityScore,
			l.Name,
			l.DetectedNiche,
			l.DetectedLocation,
			followers,
			yesNo(l.IsActive),
			yesNo(l.WasVerified),
			strings.Join(l.QualityReasons, "; "),
		})
	}
	t.Render()
}

func socials(c model.Candidate) string {
	var parts []string
	if c.Instagram != "" {
		parts = append(parts, "ig:"+c.Instagram)
	}
	if c.TikTok != "" {
		parts = append(parts, "tt:"+c.TikTok)
	}
	if c.Twitter != "" {
		parts = append(parts, "tw:"+c.Twitter)
	}
	if c.LinkedIn != "" {
		parts = append(parts, "li:"+c.LinkedIn)
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
