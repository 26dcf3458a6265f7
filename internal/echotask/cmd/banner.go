package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/kiosk404/echotask/pkg/version"
)

const bannerText = `
  _____     _        _____         _    
 | ____|___| |__   _|_   _|_ _ ___| | __
 |  _| / __| '_ \ / _ \| |/ _' / __| |/ /
 | |__| (__| | | | (_) | | (_| \__ \   < 
 |_____\___|_| |_|\___/|_|\__,_|___/_|\_\`

var (
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	taglineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Banner returns the CLI banner string.
func Banner() string {
	return fmt.Sprintf("%s\n\n%s\n",
		bannerStyle.Render(bannerText),
		taglineStyle.Render(fmt.Sprintf("  Todoist task assistant  %s", version.Get().String())))
}
