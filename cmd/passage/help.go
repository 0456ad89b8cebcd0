package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("P A S S A G E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("your journey, organized")

	cmd := lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8"))
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	fmt.Println()
	fmt.Println("  " + title)
	fmt.Println("  " + tagline)
	fmt.Println()
	fmt.Println("  " + cmd.Render("passage") + "           " + desc.Render("launch the portal"))
	fmt.Println("  " + cmd.Render("passage whoami") + "    " + desc.Render("show the signed-in account"))
	fmt.Println("  " + cmd.Render("passage logout") + "    " + desc.Render("clear the saved session"))
	fmt.Println("  " + cmd.Render("passage version") + "   " + desc.Render("print the version"))
	fmt.Println("  " + cmd.Render("passage help") + "      " + desc.Render("this message"))
	fmt.Println()
	fmt.Println("  " + desc.Render("Sign in and registration happen inside the portal."))
	fmt.Println("  " + desc.Render("Set PASSAGE_API_URL to point at a different backend."))
	fmt.Println()
}
