package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dastanaron/echohive/internal/logger"
	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/service"
	"github.com/dastanaron/echohive/internal/view"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	ModeNormal = 1
	ModeSearch = 2
	ModeForm   = 3
	ModeModal  = 4
)

// App represents the TUI application
type App struct {
	app     *tview.Application
	list    *tview.List
	detail  *tview.TextView
	slide   *tview.TextView
	search  *tview.InputField
	pages   *tview.Pages
	status  *tview.TextView
	mode    uint8
	svc     *service.ContentService
	profile models.Profile
	log     logger.Logger
	ctx     context.Context

	proj    view.Projection
	current *models.ContentItem
	filters []string
	filter  int
}

// NewApp creates a new application instance
func NewApp(svc *service.ContentService, log logger.Logger) *App {
	if log == nil {
		log = logger.NewNop()
	}
	return &App{
		app:     tview.NewApplication(),
		list:    tview.NewList(),
		detail:  tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		slide:   tview.NewTextView().SetDynamicColors(true),
		search:  tview.NewInputField().SetLabel("Search: "),
		pages:   tview.NewPages(),
		mode:    ModeNormal,
		status:  tview.NewTextView().SetDynamicColors(true),
		svc:     svc,
		profile: svc.Profile(),
		log:     log,
		ctx:     context.Background(),
	}
}

// Run starts the application and blocks until it quits.
// The rotation timer runs only while Run does.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx

	a.list.SetBorder(true).SetTitle("Items")
	a.detail.SetBorder(true).SetTitle("Details")
	a.slide.SetBorder(true).SetTitle("Now showing")

	cols := tview.NewFlex().
		AddItem(a.list, 0, 3, true).
		AddItem(a.detail, 0, 2, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.search, 1, 0, false).
		AddItem(a.slide, 3, 0, false).
		AddItem(cols, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage("main", main, true, true)

	a.search.SetChangedFunc(a.onSearchChange)
	a.search.SetDoneFunc(a.onSearchDone)
	a.list.SetChangedFunc(a.onSelect)

	a.refreshFilters()
	a.render(a.svc.View())
	a.showSlide(a.svc.Slide())
	a.applyTheme(a.svc.Theme())

	a.svc.OnRotate(func(item models.ContentItem, ok bool) {
		// never block the timer goroutine on the draw loop
		go a.app.QueueUpdateDraw(func() { a.showSlide(item, ok) })
	})
	a.svc.Start()
	defer func() {
		a.svc.Close()
		a.svc.OnRotate(nil)
	}()

	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)
	a.app.SetFocus(a.list)

	a.log.Info("TUI started", logger.String("profile", a.profile.Name))
	return a.app.Run()
}

// render fills the list, details and status from a projection
func (a *App) render(v view.Projection) {
	a.proj = v

	selected := a.list.GetCurrentItem()
	a.list.Clear()
	for i := range v.Visible {
		main, secondary := rowText(a.profile, v.Visible[i])
		a.list.AddItem(main, secondary, 0, nil)
	}
	if selected >= len(v.Visible) {
		selected = len(v.Visible) - 1
	}
	if selected < 0 {
		selected = 0
	}
	if len(v.Visible) > 0 {
		a.list.SetCurrentItem(selected)
	}
	a.onSelect(selected, "", "", 0)

	a.list.SetTitle(listTitle(a.currentFilter()))
	a.status.SetText(statusText(a.profile, v))
}

func (a *App) reload() {
	a.refreshFilters()
	a.render(a.svc.View())
}

// refreshFilters rebuilds the filter options; tags change with the items
func (a *App) refreshFilters() {
	current := a.currentFilter()
	a.filters = a.svc.FilterOptions()
	a.filter = 0
	for i, f := range a.filters {
		if f == current {
			a.filter = i
			return
		}
	}
	if current != "" && current != models.CategoryAll {
		// the active tag disappeared
		a.svc.SetFilter("")
	}
}

func (a *App) currentFilter() string {
	if a.filter >= 0 && a.filter < len(a.filters) {
		return a.filters[a.filter]
	}
	return ""
}

func (a *App) cycleFilter() {
	if len(a.filters) == 0 {
		return
	}
	a.filter = (a.filter + 1) % len(a.filters)
	a.render(a.svc.SetFilter(a.currentFilter()))
}

func (a *App) turnPage(delta int) {
	next := a.proj.Page + delta
	if next < 1 || next > a.proj.TotalPages {
		return
	}
	a.render(a.svc.SetPage(next))
}

func (a *App) showSlide(item models.ContentItem, ok bool) {
	a.slide.SetText(slideText(item, ok))
}

func (a *App) onSelect(index int, mainText, secondaryText string, shortcut rune) {
	if index >= 0 && index < len(a.proj.Visible) {
		item := a.proj.Visible[index]
		a.current = &item
	} else {
		a.current = nil
	}
	a.detail.SetText(detailText(a.profile, a.current))
	a.detail.ScrollToBeginning()
}

func (a *App) setMode(m uint8) {
	a.mode = m
	switch m {
	case ModeSearch:
		a.app.SetFocus(a.search)
	case ModeNormal:
		a.app.SetFocus(a.list)
	}
}

func (a *App) onSearchChange(text string) {
	a.render(a.svc.SetSearch(text))
}

func (a *App) onSearchDone(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		a.setMode(ModeNormal)
	case tcell.KeyEscape:
		a.search.SetText("")
		a.setMode(ModeNormal)
	}
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	// modals handle their own keys
	if a.pages.HasPage("confirm") || a.pages.HasPage("error") || a.pages.HasPage("notice") {
		return event
	}

	switch a.mode {
	case ModeNormal:
		switch event.Key() {
		case tcell.KeyEnter:
			if a.current != nil && a.current.Image != "" {
				openURL(a.current.Image)
			}
			return nil
		case tcell.KeyPgDn:
			a.turnPage(1)
			return nil
		case tcell.KeyPgUp:
			a.turnPage(-1)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case '/':
				a.setMode(ModeSearch)
				return nil
			case 'f':
				a.cycleFilter()
				return nil
			case ']':
				a.turnPage(1)
				return nil
			case '[':
				a.turnPage(-1)
				return nil
			case 'a':
				a.showForm(a.newFields(), 0)
				return nil
			case 'e':
				if a.current != nil {
					a.showForm(a.current.Fields(), a.current.ID)
				}
				return nil
			case 'd':
				if a.current != nil {
					a.deleteCurrent()
				}
				return nil
			case 'l':
				if a.current != nil {
					a.svc.Like(a.ctx, a.current.ID)
					a.reload()
				}
				return nil
			case 's':
				if a.current != nil {
					if msg, ok := a.svc.Share(a.current.ID); ok {
						a.showNotice(msg)
					}
				}
				return nil
			case 't':
				a.applyTheme(a.svc.ToggleTheme(a.ctx))
				return nil
			case 'q':
				a.app.Stop()
				return nil
			}
		}
	case ModeForm:
		if event.Key() == tcell.KeyEscape {
			a.pages.RemovePage("form")
			a.setMode(ModeNormal)
			return nil
		}
	}
	return event
}

func (a *App) newFields() models.Fields {
	f := models.Fields{}
	if a.profile.Filter == models.FilterCategory {
		f.Category = models.CategoryMountains
		if c, ok := models.ParseCategory(a.currentFilter()); ok {
			f.Category = c
		}
	}
	return f
}

func (a *App) deleteCurrent() {
	item := *a.current
	if !a.profile.ConfirmDelete {
		a.svc.Delete(a.ctx, item.ID, nil)
		a.reload()
		return
	}
	a.showConfirm(fmt.Sprintf("Are you sure you want to delete '%s'?", item.Title), func() {
		a.svc.Delete(a.ctx, item.ID, func(models.ContentItem) bool { return true })
		a.reload()
	})
}

// showForm edits f; id 0 creates a new item. A rejected save keeps the form
// open with its input so the user can correct it.
func (a *App) showForm(f models.Fields, id int64) {
	form := tview.NewForm()
	form.AddInputField("Title", f.Title, 60, nil, func(t string) { f.Title = t })

	if a.profile.Filter == models.FilterTag {
		form.AddInputField("Author", f.Author, 40, nil, func(t string) { f.Author = t })
		form.AddInputField("Date", f.Date, 12, nil, func(t string) { f.Date = t })
	}
	if a.profile.Body != models.FieldContent {
		form.AddInputField("Image URL", f.Image, 60, nil, func(t string) { f.Image = t })
	}
	switch a.profile.Filter {
	case models.FilterCategory:
		categories := models.Categories()
		options := make([]string, len(categories))
		selected := 0
		for i, c := range categories {
			options[i] = string(c)
			if c == f.Category {
				selected = i
			}
		}
		form.AddDropDown("Category", options, selected, func(option string, index int) {
			if index >= 0 && index < len(categories) {
				f.Category = categories[index]
			}
		})
	case models.FilterTag:
		form.AddInputField("Tags", strings.Join(f.Tags, ", "), 60, nil, func(t string) { f.Tags = models.ParseTags(t) })
	}

	if a.profile.Body == models.FieldContent {
		form.AddTextArea("Content", f.Content, 60, 6, 0, func(t string) { f.Content = t })
	} else {
		form.AddTextArea("Description", f.Description, 60, 4, 0, func(t string) { f.Description = t })
	}

	form.AddButton("Save", func() {
		var ok bool
		if id == 0 {
			_, ok = a.svc.Create(a.ctx, f)
		} else {
			_, ok = a.svc.Update(a.ctx, id, f)
		}
		if !ok {
			if missing := a.profile.Missing(f); len(missing) > 0 {
				a.showError(missingText(missing))
			} else {
				a.showError("The item no longer exists")
			}
			return
		}
		a.pages.RemovePage("form")
		a.setMode(ModeNormal)
		a.reload()
	})
	form.AddButton("Cancel", func() {
		a.pages.RemovePage("form")
		a.setMode(ModeNormal)
	})

	title := "New item"
	if id != 0 {
		title = "Edit item"
	}
	form.SetBorder(true).SetTitle(title)
	a.styleForm(form, paletteFor(a.svc.Theme()))
	a.pages.AddPage("form", form, true, true)
	a.app.SetFocus(form)
	a.mode = ModeForm
}

// showError shows a modal with an error message
func (a *App) showError(message string) {
	a.showModal("error", "Error", message, []string{"OK"}, nil)
}

// showNotice shows an informational modal
func (a *App) showNotice(message string) {
	a.showModal("notice", "Share", message, []string{"OK"}, nil)
}

func (a *App) showConfirm(message string, onConfirm func()) {
	a.showModal("confirm", "Confirm", message, []string{"Cancel", "OK"}, func(buttonIndex int) {
		if buttonIndex == 1 && onConfirm != nil {
			onConfirm()
		}
	})
}

func (a *App) showModal(name, title, message string, buttons []string, done func(int)) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons(buttons).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage(name)
			if done != nil {
				done(buttonIndex)
			}
			// restore mode and focus
			if a.pages.HasPage("form") {
				a.mode = ModeForm
				if front, page := a.pages.GetFrontPage(); front == "form" {
					a.app.SetFocus(page)
				}
			} else {
				a.setMode(ModeNormal)
			}
		})

	modal.SetBorder(true).SetTitle(title)
	a.pages.AddPage(name, modal, true, true)
	a.mode = ModeModal
	a.app.SetFocus(modal)
}

// applyTheme restyles every primitive for the theme
func (a *App) applyTheme(t models.Theme) {
	p := paletteFor(t)

	for _, box := range []*tview.Box{a.list.Box, a.detail.Box, a.slide.Box, a.status.Box, a.search.Box} {
		box.SetBackgroundColor(p.background)
		box.SetBorderColor(p.border)
		box.SetTitleColor(p.accent)
	}
	a.list.SetMainTextColor(p.text).
		SetSecondaryTextColor(p.secondary).
		SetSelectedTextColor(p.background).
		SetSelectedBackgroundColor(p.accent)
	a.detail.SetTextColor(p.text)
	a.slide.SetTextColor(p.accent)
	a.status.SetTextColor(p.secondary)
	a.search.SetLabelColor(p.accent).
		SetFieldBackgroundColor(p.field).
		SetFieldTextColor(p.text)

	a.log.Debug("Theme applied", logger.String("theme", string(t)))
}

func (a *App) styleForm(form *tview.Form, p palette) {
	form.SetBackgroundColor(p.background)
	form.SetBorderColor(p.border)
	form.SetTitleColor(p.accent)
	form.SetLabelColor(p.text).
		SetFieldBackgroundColor(p.field).
		SetFieldTextColor(p.text).
		SetButtonBackgroundColor(p.accent).
		SetButtonTextColor(p.background)
}

func openURL(url string) {
	var cmd string
	var args []string
	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}
	args = append(args, url)
	_ = exec.Command(cmd, args...).Start()
}
