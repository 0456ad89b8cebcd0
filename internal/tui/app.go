// Package tui implements the Passage terminal client: sign-in and
// registration forms, the student dashboard views, and the admin inbox,
// composed under a single root model that owns session state.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/auth"
	"github.com/passage-hq/passage/pkg/domain"
	"github.com/passage-hq/passage/pkg/session"
)

// SessionExpiredMsg is sent into the program from outside (the API client's
// 401 handler) when the backend rejects the active token. The App drops to
// the sign-in form; the session file has already been cleared by the sender.
type SessionExpiredMsg struct{}

// sessionCheckedMsg carries the result of the startup session load.
type sessionCheckedMsg struct {
	sess session.Session
}

// bodySizeMsg propagates the usable body area to every view model.
type bodySizeMsg struct {
	width  int
	height int
}

type guardState int

const (
	guardChecking guardState = iota // session load in flight; render nothing protected
	guardSignedOut
	guardActive
)

type view int

const (
	viewHome view = iota
	viewAssignments
	viewClasses
	viewResources
	viewProfile
	viewInbox
)

type tab struct {
	key   string
	label string
	view  view
}

// chromeHeight is header (2) + tab bar (1) + help bar (1).
const chromeHeight = 4

// App is the root model. It owns the auth guard: nothing protected renders
// until the stored session has been checked, and a rejected token anywhere
// drops straight back to sign-in.
type App struct {
	client  *api.Client
	auth    *auth.Service
	store   *session.Store
	version string

	guard guardState
	user  *domain.User
	view  view

	registering bool
	signin      signinModel
	register    registerModel

	home        homeModel
	assignments assignmentsModel
	classes     classesModel
	resources   resourcesModel
	profile     profileModel
	inbox       inboxModel

	helpOpen bool

	width  int
	height int
	frame  int
}

// NewApp builds the root model. The session check runs in Init so the first
// frame never shows protected content.
func NewApp(client *api.Client, svc *auth.Service, store *session.Store, version string) App {
	return App{
		client:  client,
		auth:    svc,
		store:   store,
		version: version,

		guard: guardChecking,
		view:  viewHome,

		signin:      newSigninModel(svc),
		register:    newRegisterModel(svc),
		home:        newHomeModel(client),
		assignments: newAssignmentsModel(client),
		classes:     newClassesModel(client),
		resources:   newResourcesModel(client),
		profile:     newProfileModel(svc),
		inbox:       newInboxModel(client),
	}
}

func (a App) Init() tea.Cmd {
	store := a.store
	check := func() tea.Msg {
		return sessionCheckedMsg{sess: store.Load()}
	}
	return tea.Batch(shimmerTickCmd(), check)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a.propagate(bodySizeMsg{width: msg.Width, height: msg.Height - chromeHeight})

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionCheckedMsg:
		if msg.sess.Valid() {
			a.client.SetToken(msg.sess.Token)
			return a.activate(msg.sess.User)
		}
		a.guard = guardSignedOut
		return a, nil

	case SessionExpiredMsg:
		if a.guard != guardActive {
			return a, nil
		}
		return a.signOut("Your session has expired. Sign in again."), nil

	case signinResultMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.signin, cmd = a.signin.Update(msg)
			return a, cmd
		}
		return a.activate(msg.user)

	case showRegisterMsg:
		a.registering = true
		a.register = newRegisterModel(a.auth)
		a.register.width, a.register.height = a.width, a.height-chromeHeight
		return a, nil

	case backToSignInMsg:
		a.registering = false
		a.signin = newSigninModel(a.auth)
		a.signin.width, a.signin.height = a.width, a.height-chromeHeight
		return a, nil

	case registerResultMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.register, cmd = a.register.Update(msg)
			return a, cmd
		}
		a.registering = false
		a.signin = newSigninModel(a.auth)
		a.signin.width, a.signin.height = a.width, a.height-chromeHeight
		a.signin.notice = "Account created. Sign in to continue."
		return a, nil

	case profileSavedMsg:
		if msg.err == nil && msg.user != nil {
			a.user = msg.user
		}
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.route(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch a.guard {
	case guardChecking:
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil

	case guardSignedOut:
		return a.route(msg)

	case guardActive:
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc", "q":
				a.helpOpen = false
			}
			return a, nil
		}
		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "h":
				a.helpOpen = true
				return a, nil
			case "L":
				a.auth.Logout()
				return a.signOut("Signed out."), nil
			default:
				for _, t := range a.tabs() {
					if msg.String() == t.key && t.view != a.view {
						return a.switchView(t.view)
					}
				}
			}
		}
		return a.route(msg)
	}

	return a, nil
}

// route forwards a message to the model that currently owns the screen.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.guard != guardActive {
		if a.registering {
			a.register, cmd = a.register.Update(msg)
		} else {
			a.signin, cmd = a.signin.Update(msg)
		}
		return a, cmd
	}

	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewAssignments:
		a.assignments, cmd = a.assignments.Update(msg)
	case viewClasses:
		a.classes, cmd = a.classes.Update(msg)
	case viewResources:
		a.resources, cmd = a.resources.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewInbox:
		a.inbox, cmd = a.inbox.Update(msg)
	}
	return a, cmd
}

// propagate sends a message to every model, active or not, so sizes stay
// consistent across tab switches.
func (a App) propagate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.signin, cmd = a.signin.Update(msg)
	cmds = append(cmds, cmd)
	a.register, cmd = a.register.Update(msg)
	cmds = append(cmds, cmd)
	a.home, cmd = a.home.Update(msg)
	cmds = append(cmds, cmd)
	a.assignments, cmd = a.assignments.Update(msg)
	cmds = append(cmds, cmd)
	a.classes, cmd = a.classes.Update(msg)
	cmds = append(cmds, cmd)
	a.resources, cmd = a.resources.Update(msg)
	cmds = append(cmds, cmd)
	a.profile, cmd = a.profile.Update(msg)
	cmds = append(cmds, cmd)
	a.inbox, cmd = a.inbox.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// activate transitions to the signed-in state and lands on the role's home
// view: the inbox for admins, the dashboard for students.
func (a App) activate(user *domain.User) (tea.Model, tea.Cmd) {
	a.guard = guardActive
	a.user = user
	a.registering = false
	a.home.user = user
	a.profile.user = user

	if auth.RouteFor(user.Role) == auth.RouteAdminInbox {
		return a.switchView(viewInbox)
	}
	return a.switchView(viewHome)
}

// signOut drops to the sign-in form with a fresh form state and a notice.
func (a App) signOut(notice string) App {
	a.guard = guardSignedOut
	a.user = nil
	a.registering = false
	a.helpOpen = false
	a.signin = newSigninModel(a.auth)
	a.signin.width, a.signin.height = a.width, a.height-chromeHeight
	a.signin.notice = notice
	return a
}

func (a App) switchView(v view) (tea.Model, tea.Cmd) {
	a.view = v
	switch v {
	case viewHome:
		return a, a.home.Init()
	case viewAssignments:
		return a, a.assignments.Init()
	case viewClasses:
		return a, a.classes.Init()
	case viewResources:
		return a, a.resources.Init()
	case viewProfile:
		return a, a.profile.Init()
	case viewInbox:
		return a, a.inbox.Init()
	}
	return a, nil
}

// tabs returns the navigation bar for the signed-in role. Students never see
// the inbox tab; admins get a reduced set.
func (a App) tabs() []tab {
	if a.user != nil && a.user.Role == domain.RoleAdmin {
		return []tab{
			{"1", "Inbox", viewInbox},
			{"2", "Profile", viewProfile},
		}
	}
	return []tab{
		{"1", "Home", viewHome},
		{"2", "Assignments", viewAssignments},
		{"3", "Classes", viewClasses},
		{"4", "Resources", viewResources},
		{"5", "Profile", viewProfile},
	}
}

// isEditing reports whether the active view owns the keyboard, which
// suppresses global shortcuts like q and L.
func (a App) isEditing() bool {
	switch a.view {
	case viewResources:
		return a.resources.searching
	case viewProfile:
		return a.profile.editing()
	case viewInbox:
		return a.inbox.confirmingDelete()
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	var b strings.Builder

	logo := renderShimmerLogo(a.frame)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, logo))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.identityLine()))
	b.WriteString("\n")

	bodyHeight := a.height - chromeHeight
	switch a.guard {
	case guardChecking:
		b.WriteString("\n")
		b.WriteString(truncateToHeight(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, dimStyle.Render("checking session…")), bodyHeight))
		b.WriteString("\n")
		b.WriteString(helpBar(helpEntry("q", "quit")))

	case guardSignedOut:
		b.WriteString("\n")
		if a.registering {
			b.WriteString(truncateToHeight(a.register.View(), bodyHeight))
			b.WriteString("\n")
			b.WriteString(helpBar(
				helpEntry("tab", "next field"),
				helpEntry("enter", "create account"),
				helpEntry("esc", "back to sign in"),
				helpEntry("ctrl+c", "quit"),
			))
		} else {
			b.WriteString(truncateToHeight(a.signin.View(), bodyHeight))
			b.WriteString("\n")
			b.WriteString(helpBar(
				helpEntry("enter", "sign in"),
				helpEntry("ctrl+r", "register"),
				helpEntry("ctrl+c", "quit"),
			))
		}

	case guardActive:
		b.WriteString(a.tabBar())
		b.WriteString("\n")
		if a.helpOpen {
			b.WriteString(truncateToHeight(a.helpView(), bodyHeight))
		} else {
			b.WriteString(truncateToHeight(a.activeBody(), bodyHeight))
		}
		b.WriteString("\n")
		b.WriteString(a.activeHelpBar())
	}

	return b.String()
}

func (a App) identityLine() string {
	switch a.guard {
	case guardActive:
		role := string(a.user.Role)
		line := normalStyle.Render(a.user.FullName()) +
			metaStyle.Render("  ·  ") + RoleStyle(role).Render(role)
		if a.user.Course != "" {
			line += metaStyle.Render("  ·  ") + dimStyle.Render(a.user.Course)
		}
		return line
	default:
		return metaStyle.Render("your journey, organized  ·  v" + a.version)
	}
}

func (a App) tabBar() string {
	tabs := a.tabs()
	colWidth := a.width / len(tabs)
	if colWidth < 8 {
		colWidth = 8
	}

	var cols []string
	for _, t := range tabs {
		label := t.key + " " + t.label
		var cell string
		if t.view == a.view {
			cell = searchStyle.Render(label)
		} else {
			cell = metaStyle.Render(label)
		}
		cols = append(cols, lipgloss.PlaceHorizontal(colWidth, lipgloss.Center, cell))
	}
	return strings.Join(cols, "")
}

func (a App) activeBody() string {
	switch a.view {
	case viewHome:
		return a.home.View()
	case viewAssignments:
		return a.assignments.View()
	case viewClasses:
		return a.classes.View()
	case viewResources:
		return a.resources.View()
	case viewProfile:
		return a.profile.View()
	case viewInbox:
		return a.inbox.View()
	}
	return ""
}

func (a App) activeHelpBar() string {
	if a.helpOpen {
		return helpBar(helpEntry("esc", "close help"))
	}
	common := []string{
		helpEntry("h", "help"),
		helpEntry("L", "sign out"),
		helpEntry("q", "quit"),
	}
	var own []string
	switch a.view {
	case viewHome:
		own = a.home.helpEntries()
	case viewAssignments:
		own = a.assignments.helpEntries()
	case viewClasses:
		own = a.classes.helpEntries()
	case viewResources:
		own = a.resources.helpEntries()
	case viewProfile:
		own = a.profile.helpEntries()
	case viewInbox:
		own = a.inbox.helpEntries()
	}
	return helpBar(append(own, common...)...)
}

func (a App) helpView() string {
	lines := []string{
		"",
		sectionHeaderStyle.Render("  NAVIGATION"),
		"  " + helpEntry("1-5", "switch tab") + "   " + helpEntry("j/k", "move") + "   " + helpEntry("enter", "open") + "   " + helpEntry("esc", "back"),
		"",
		sectionHeaderStyle.Render("  ACCOUNT"),
		"  " + helpEntry("L", "sign out") + "   " + helpEntry("5", "profile"),
		"",
		sectionHeaderStyle.Render("  COMMAND LINE"),
		"  " + dimStyle.Render("passage            launch the portal"),
		"  " + dimStyle.Render("passage whoami     show the signed-in account"),
		"  " + dimStyle.Render("passage logout     clear the saved session"),
		"  " + dimStyle.Render("passage version    print the version"),
		"",
		sectionHeaderStyle.Render("  LINKS"),
		"  " + dimStyle.Render("gopassage.com  ·  gopassage.com/faq  ·  gopassage.com/contact"),
	}
	return strings.Join(lines, "\n")
}
