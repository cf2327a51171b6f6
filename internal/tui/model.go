// Package tui provides the Bubble Tea subject editor.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"

	"github.com/verte-zerg/gradeplan/internal/applog"
	"github.com/verte-zerg/gradeplan/internal/grade"
	"github.com/verte-zerg/gradeplan/internal/model"
	statsPkg "github.com/verte-zerg/gradeplan/internal/stats"
	"github.com/verte-zerg/gradeplan/internal/store"
)

type rowKind int

const (
	rowTerm rowKind = iota
	rowSubject
	rowEntry
)

// row is one selectable line of the editor.
type row struct {
	kind     rowKind
	year     int
	semester int
	id       model.SubjectID
	category model.Category
	index    int
}

type editTarget struct {
	row   row
	field string
	label string
}

const nameWidth = 24

// Model implements the Bubble Tea editor UI.
type Model struct {
	ctx    context.Context
	store  store.Store
	logger log.Logger
	now    func() time.Time

	book     model.Book
	expanded map[model.SubjectID]bool
	rows     []row
	cursor   int
	offset   int

	editing *editTarget
	input   textinput.Model
	status  string

	width  int
	height int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	termStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	subjectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9D9D9"))
	entryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the editor over a loaded book. Every change is saved to st.
func NewModel(ctx context.Context, st store.Store, logger log.Logger, book model.Book) *Model {
	input := textinput.New()
	input.CharLimit = 64
	m := &Model{
		ctx:      ctx,
		store:    st,
		logger:   logger,
		now:      time.Now,
		book:     book,
		expanded: map[model.SubjectID]bool{},
		input:    input,
	}
	m.rebuildRows()
	return m
}

// Book returns the current snapshot.
func (m *Model) Book() model.Book {
	return m.book
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-20)
		m.ensureVisible()
		return m, nil
	case tea.KeyMsg:
		if m.editing != nil {
			return m.updateEditing(msg)
		}
		return m, m.handleKey(msg)
	}
	if m.editing != nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fit("gradeplan · subject editor", m.width)))
	b.WriteByte('\n')

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			if m.width > 0 {
				line = cell(line, m.width)
			}
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(m.styleFor(m.rows[i]).Render(fit(line, m.width)))
		}
		b.WriteByte('\n')
	}
	if m.height > 0 {
		for i := end - start; i < m.bodyHeight(); i++ {
			b.WriteByte('\n')
		}
	}

	if m.editing != nil {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(statusStyle.Render(fit(m.status, m.width)))
	}
	b.WriteByte('\n')
	b.WriteString(footerStyle.Render(fit(m.renderFooter(), m.width)))
	for _, line := range m.helpLines() {
		b.WriteByte('\n')
		b.WriteString(footerStyle.Render(line))
	}
	return b.String()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home", "g":
		m.move(-len(m.rows))
	case "end", "G":
		m.move(len(m.rows))
	case "enter", " ":
		m.toggle()
	case "a":
		m.addSubjectOrTest()
	case "A":
		m.addEntry(model.CategoryAssignments)
	case "n":
		return m.startSubjectEdit(model.FieldName, "Name")
	case "c":
		return m.startSubjectEdit(model.FieldWeight, "Credits")
	case "t":
		return m.startSubjectEdit(model.FieldTargetGrade, "Target grade")
	case "x":
		return m.startSubjectEdit(model.FieldExtraPoints, "Extra points")
	case "s":
		return m.startEntryEdit(model.FieldScore, "Score")
	case "w":
		return m.startEntryEdit(model.FieldWeight, "Weight")
	case "d", "delete":
		m.deleteCurrent()
	}
	return nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = nil
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case tea.KeyEnter:
		m.applyEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) move(delta int) {
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	m.ensureVisible()
}

func (m *Model) toggle() {
	r, ok := m.current()
	if !ok {
		return
	}
	switch r.kind {
	case rowSubject:
		m.expanded[r.id] = !m.expanded[r.id]
		m.rebuildRows()
	case rowEntry:
		m.expanded[r.id] = false
		m.rebuildRows()
		m.focus(func(x row) bool { return x.kind == rowSubject && x.id == r.id })
	}
}

func (m *Model) addSubjectOrTest() {
	r, ok := m.current()
	if !ok {
		return
	}
	if r.kind != rowTerm {
		m.addEntry(model.CategoryTests)
		return
	}
	next, id, err := m.book.AddSubject(r.year, r.semester)
	if err != nil {
		m.fail("failed to add subject", err)
		return
	}
	if !m.commit(next, "Subject added") {
		return
	}
	m.expanded[id] = true
	m.rebuildRows()
	m.focus(func(x row) bool { return x.kind == rowSubject && x.id == id })
}

func (m *Model) addEntry(c model.Category) {
	r, ok := m.current()
	if !ok || r.kind == rowTerm {
		m.status = "Select a subject first"
		return
	}
	next, err := m.book.AddEntry(r.id, c)
	if err != nil {
		m.fail("failed to add entry", err)
		return
	}
	s, _ := next.Subject(r.id)
	index := len(s.Entries(c)) - 1
	if !m.commit(next, entryLabel(c, index)+" added") {
		return
	}
	m.expanded[r.id] = true
	m.rebuildRows()
	m.focus(func(x row) bool {
		return x.kind == rowEntry && x.id == r.id && x.category == c && x.index == index
	})
}

func (m *Model) deleteCurrent() {
	r, ok := m.current()
	if !ok {
		return
	}
	switch r.kind {
	case rowSubject:
		next, err := m.book.RemoveSubject(r.id)
		if err != nil {
			m.fail("failed to remove subject", err)
			return
		}
		if m.commit(next, "Subject removed") {
			delete(m.expanded, r.id)
		}
	case rowEntry:
		next, err := m.book.RemoveEntry(r.id, r.category, r.index)
		if err != nil {
			m.fail("failed to remove entry", err)
			return
		}
		m.commit(next, entryLabel(r.category, r.index)+" removed")
	default:
		m.status = "Nothing to delete"
	}
}

func (m *Model) startSubjectEdit(field, label string) tea.Cmd {
	r, ok := m.current()
	if !ok || r.kind == rowTerm {
		m.status = "Select a subject first"
		return nil
	}
	s, ok := m.book.Subject(r.id)
	if !ok {
		return nil
	}
	var current string
	switch field {
	case model.FieldName:
		current = s.Name
	case model.FieldWeight:
		current = s.Weight.Raw()
	case model.FieldTargetGrade:
		current = s.TargetGrade.Raw()
	case model.FieldExtraPoints:
		current = s.ExtraPoints.Raw()
	}
	return m.beginEdit(editTarget{row: row{kind: rowSubject, id: r.id}, field: field, label: label}, current)
}

func (m *Model) startEntryEdit(field, label string) tea.Cmd {
	r, ok := m.current()
	if !ok || r.kind != rowEntry {
		m.status = "Select a test or assignment first"
		return nil
	}
	s, ok := m.book.Subject(r.id)
	if !ok || r.index >= len(s.Entries(r.category)) {
		return nil
	}
	e := s.Entries(r.category)[r.index]
	current := e.Score.Raw()
	if field == model.FieldWeight {
		current = e.Weight.Raw()
	}
	return m.beginEdit(editTarget{row: r, field: field, label: label}, current)
}

func (m *Model) beginEdit(target editTarget, current string) tea.Cmd {
	m.editing = &target
	m.input.Prompt = target.label + ": "
	m.input.SetValue(current)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) applyEdit() {
	target := *m.editing
	m.editing = nil
	m.input.Blur()
	raw := strings.TrimSpace(m.input.Value())

	var (
		next model.Book
		err  error
	)
	if target.row.kind == rowEntry {
		next, err = m.book.SetEntryField(target.row.id, target.row.category, target.row.index, target.field, raw)
	} else {
		next, err = m.book.SetSubjectField(target.row.id, target.field, raw)
	}
	if err != nil {
		m.fail("failed to update "+target.field, err)
		return
	}
	m.commit(next, target.label+" updated")
}

// commit persists next with a history point and then shows it. A failed save
// keeps the previous snapshot on screen.
func (m *Model) commit(next model.Book, status string) bool {
	point := statsPkg.HistoryPoint(next, m.now())
	if err := m.store.SaveBook(m.ctx, next, point); err != nil {
		m.fail("failed to save subjects", err, "version", next.Version)
		return false
	}
	m.book = next
	m.rebuildRows()
	m.status = status
	return true
}

func (m *Model) fail(msg string, err error, keyvals ...any) {
	applog.Error(m.logger, msg, err, keyvals...)
	m.status = fmt.Sprintf("%s: %v", msg, err)
}

func (m *Model) rebuildRows() {
	rows := make([]row, 0, len(m.rows))
	for _, term := range m.book.Terms() {
		rows = append(rows, row{kind: rowTerm, year: term.Year, semester: term.Semester})
		for _, s := range term.Subjects {
			rows = append(rows, row{kind: rowSubject, year: term.Year, semester: term.Semester, id: s.ID})
			if !m.expanded[s.ID] {
				continue
			}
			for _, c := range []model.Category{model.CategoryTests, model.CategoryAssignments} {
				for i := range s.Entries(c) {
					rows = append(rows, row{kind: rowEntry, year: term.Year, semester: term.Semester, id: s.ID, category: c, index: i})
				}
			}
		}
	}
	m.rows = rows
	m.cursor = max(0, min(len(m.rows)-1, m.cursor))
	m.ensureVisible()
}

func (m *Model) focus(match func(row) bool) {
	for i, r := range m.rows {
		if match(r) {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	// title, status line, footer and help
	return max(1, m.height-3-len(m.helpLines()))
}

func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, max(0, len(m.rows)-h)))
}

func (m *Model) visibleRange() (int, int) {
	start := min(m.offset, len(m.rows))
	end := min(len(m.rows), start+m.bodyHeight())
	return start, end
}

func (m *Model) styleFor(r row) lipgloss.Style {
	switch r.kind {
	case rowTerm:
		return termStyle
	case rowSubject:
		return subjectStyle
	default:
		return entryStyle
	}
}

func (m *Model) renderRow(r row) string {
	switch r.kind {
	case rowTerm:
		count := 0
		for _, s := range m.book.Subjects {
			if s.Year == r.year && s.Semester == r.semester {
				count++
			}
		}
		noun := "subjects"
		if count == 1 {
			noun = "subject"
		}
		return fmt.Sprintf("Year %d · Semester %d  (%d %s)", r.year, r.semester, count, noun)
	case rowSubject:
		s, _ := m.book.Subject(r.id)
		marker := "▸"
		if m.expanded[r.id] {
			marker = "▾"
		}
		parts := []string{
			"  " + marker + " " + cell(s.Label(), nameWidth),
			"credits " + orDash(s.Weight.Raw()),
			"grade " + statsPkg.FormatGrade(grade.SubjectGrade(s)),
			"target " + orDash(s.TargetGrade.Raw()),
			grade.RequiredGrade(s).String(),
		}
		if s.ExtraPoints.IsSet() {
			parts = append(parts, "extra "+s.ExtraPoints.Raw())
		}
		return strings.Join(parts, "  ")
	default:
		s, _ := m.book.Subject(r.id)
		entries := s.Entries(r.category)
		if r.index >= len(entries) {
			return ""
		}
		e := entries[r.index]
		line := fmt.Sprintf("      %s  score %s  weight %s", cell(entryLabel(r.category, r.index), 14), orDash(e.Score.Raw()), orDash(e.Weight.Raw()))
		if e.Dangling() {
			line += "  (awaiting score)"
		}
		return line
	}
}

func (m *Model) renderFooter() string {
	sum := grade.Summarize(m.book.Subjects)
	return fmt.Sprintf("Total %.2f · Tests %.2f · Assignments %.2f · %d/%d counted · v%d",
		sum.Overall, sum.Tests, sum.Assignments, sum.Eligible, len(m.book.Subjects), m.book.Version)
}

func (m *Model) helpLines() []string {
	segments := []string{"j/k move", "enter expand", "a add subject/test", "A add assignment", "n name", "c credits", "t target", "x extra", "s score", "w weight", "d delete", "q quit"}
	if m.editing != nil {
		segments = []string{"enter save", "esc cancel"}
	}
	return wrapSegments(segments, "  ", m.width)
}

func entryLabel(c model.Category, index int) string {
	if c == model.CategoryAssignments {
		return fmt.Sprintf("Assignment %d", index+1)
	}
	return fmt.Sprintf("Test %d", index+1)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
