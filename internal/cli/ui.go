package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(22)

	valueStyle = lipgloss.NewStyle()

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func displayTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func displaySection(w io.Writer, name string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(name))
}

func displayField(w io.Writer, label string, value any) {
	fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(fmt.Sprint(value)))
}

func displayCredential(w io.Writer, label string, set bool) {
	if set {
		displayField(w, label, completedStyle.Render("configured"))
		return
	}
	displayField(w, label, warningStyle.Render("not configured"))
}

// DisplayError writes err to w in the error style.
func DisplayError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

func displaySuccess(w io.Writer, message string) {
	fmt.Fprintln(w, completedStyle.Render(message))
}

func displayWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render("warning: "+message))
}
