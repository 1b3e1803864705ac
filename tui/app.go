// ABOUTME: Top-level Bubble Tea AppModel composing the rulings editor panels into one screen.
// ABOUTME: Implements tea.Model (Init, Update, View) and routes keys to the ruling list, group panel, modals and toast.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vtes-biased/rulings-website/api"
	"github.com/vtes-biased/rulings-website/editor"
	"github.com/vtes-biased/rulings-website/rulings"
)

// searchPurpose says what the card search result is used for.
type searchPurpose int

const (
	searchCardToken searchPurpose = iota
	searchGroupMember
)

// AppModel is the top-level Bubble Tea model. It edits one target, a card or
// a group, with its ruling sessions, and shares the cart, toast and modals.
type AppModel struct {
	client *api.Client
	cart   *editor.Cart
	pos    *editor.Position
	send   func(tea.Msg)

	target  rulings.NID
	rulings RulingListModel
	group   *GroupPanelModel

	toolbar  ToolbarModel
	search   CardSearchModel
	modal    RefModalModel
	proposal ProposalPanelModel
	status   StatusBarModel
	toast    ToastModel

	showProposal bool
	editRulings  bool
	searchFor    searchPurpose
	width        int
	height       int
}

// NewCardApp builds the editor screen for a card page.
func NewCardApp(client *api.Client, cart *editor.Cart, page *api.CardPage) AppModel {
	sessions := make([]*editor.Session, 0, len(page.Rulings))
	for _, r := range page.Rulings {
		sessions = append(sessions, editor.NewSession(client, cart, r))
	}
	m := newApp(client, cart, rulings.NID{UID: page.UID, Name: page.Name})
	m.rulings = NewRulingListModel(sessions)
	m.focusSelected()
	return m
}

// NewGroupApp builds the editor screen for a group page.
func NewGroupApp(client *api.Client, cart *editor.Cart, page *api.GroupPage) AppModel {
	sessions := make([]*editor.Session, 0, len(page.Rulings))
	for _, r := range page.Rulings {
		sessions = append(sessions, editor.NewSession(client, cart, r))
	}
	m := newApp(client, cart, rulings.NID{UID: page.UID, Name: page.Name})
	m.rulings = NewRulingListModel(sessions)
	panel := NewGroupPanelModel(editor.NewGroupSession(client, cart, page.Group))
	m.group = &panel
	return m
}

func newApp(client *api.Client, cart *editor.Cart, target rulings.NID) AppModel {
	proposal := cart.Proposal()
	m := AppModel{
		client:   client,
		cart:     cart,
		pos:      &editor.Position{},
		target:   target,
		toolbar:  NewToolbarModel(),
		search:   NewCardSearchModel(),
		modal:    NewRefModalModel(editor.NewPicker(client)),
		proposal: NewProposalPanelModel(proposal),
		status:   NewStatusBarModel(proposal.Name),
		toast:    NewToastModel(),
	}
	m.status.SetTarget(target.Name)
	m.status.SetCartCounts(len(proposal.Cards), len(proposal.Groups))
	return m
}

// Wire connects session callbacks to the running program's message loop. Call
// it with program.Send before Run.
func (m *AppModel) Wire(send func(tea.Msg)) {
	m.send = send
	for _, s := range m.rulings.Sessions() {
		wireSession(s, send)
	}
	if m.group != nil {
		gs := m.group.Session()
		gs.OnApply = func() { send(SessionAppliedMsg{}) }
		gs.OnError = func(err error) { send(SessionErrorMsg{Err: err}) }
	}
	m.cart.OnChange(func(p rulings.Proposal) { send(CartChangedMsg{Proposal: p}) })
}

func wireSession(s *editor.Session, send func(tea.Msg)) {
	s.OnApply = func() { send(SessionAppliedMsg{}) }
	s.OnError = func(err error) { send(SessionErrorMsg{Err: err}) }
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes incoming messages to the appropriate
// sub-panel and returns the updated model with any follow-up commands.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SessionAppliedMsg:
		m.rulings.Prune()
		m.status.SetSaving(false)
		m.focusSelected()
		return m, nil

	case SessionErrorMsg:
		m.status.SetSaving(false)
		return m, m.toast.Show(msg.Err.Error(), true)

	case CartChangedMsg:
		m.proposal.SetProposal(msg.Proposal)
		m.status.SetProposalName(msg.Proposal.Name)
		m.status.SetCartCounts(len(msg.Proposal.Cards), len(msg.Proposal.Groups))
		return m, nil

	case ToastExpiredMsg:
		m.toast.Expire(msg)
		return m, nil

	case SuggestionsMsg:
		m.search.SetSuggestions(msg)
		return m, nil

	case RulingCreatedMsg:
		if m.send != nil {
			wireSession(msg.Session, m.send)
		}
		m.rulings.Add(msg.Session)
		m.focusSelected()
		return m, nil

	case ReferenceAttachedMsg:
		m.modal.Deactivate()
		s := m.fieldSession()
		if s == nil {
			// The tracked field vanished while the modal was open; attach to
			// the current selection instead.
			m.pos.Retarget(m.target.UID)
			s = m.rulings.Selected()
		}
		if s == nil {
			return m, nil
		}
		return m, attachReferenceCmd(s, msg.Reference)

	case LookupDoneMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes keyboard input: modals first, then the active panel.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal.Active() {
		if msg.String() == "esc" {
			m.modal.Deactivate()
			return m, nil
		}
		return m, m.modal.Update(msg)
	}

	if m.search.Active() {
		return m.handleSearchKey(msg)
	}

	if m.showProposal {
		switch msg.String() {
		case "esc", "ctrl+p":
			m.showProposal = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+p":
		m.showProposal = true
		return m, nil
	case "ctrl+s":
		cmd := m.flush()
		return m, cmd
	}

	if m.group != nil {
		return m.handleGroupKey(msg)
	}
	return m.handleCardKey(msg)
}

// handleCardKey processes keys on a card page: ruling selection, text edits,
// symbol and card insertion, delete and restore.
func (m AppModel) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.rulings.Next()
		m.focusSelected()
		return m, nil
	case "shift+tab":
		m.rulings.Prev()
		m.focusSelected()
		return m, nil
	case "ctrl+n":
		return m, newRulingCmd(m.client, m.cart, m.target)
	case "ctrl+d":
		if s := m.rulings.Selected(); s != nil && s.CanDelete() {
			return m, deleteRulingCmd(s)
		}
		return m, nil
	case "ctrl+t":
		if s := m.rulings.Selected(); s != nil && s.CanRestore() {
			return m, restoreRulingCmd(s)
		}
		return m, nil
	case "ctrl+r":
		if s := m.rulings.Selected(); s != nil && s.Editable() {
			m.focusSelected()
			m.modal.Activate()
		}
		return m, nil
	case "ctrl+e":
		s := m.rulings.Selected()
		if s == nil || !s.Editable() {
			return m, nil
		}
		refs := s.Ruling().References
		if len(refs) == 0 {
			return m, nil
		}
		m.status.SetSaving(true)
		return m, removeReferenceCmd(s, refs[len(refs)-1].UID)
	case "ctrl+f":
		if s := m.rulings.Selected(); s != nil && s.Editable() {
			m.searchFor = searchCardToken
			m.search.Activate("INSERT CARD")
		}
		return m, nil
	case "ctrl+y":
		m.toolbar.Prev()
		return m, nil
	case "ctrl+l":
		m.toolbar.Next()
		return m, nil
	case "ctrl+b":
		// The toolbar owns the key focus at this point; the position tracker
		// says which field the symbol goes to and where.
		s := m.fieldSession()
		if s == nil || !s.Editable() {
			return m, nil
		}
		node, offset := m.pos.Caret()
		s.Buffer().SetCaret(node, offset)
		code, glyph := m.toolbar.Selected()
		s.Buffer().InsertIcon(code, glyph)
		return m, m.touched(s)
	}
	return m.handleCardEdit(msg)
}

// handleCardEdit applies caret movement and text edits to the selected ruling.
func (m AppModel) handleCardEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.rulings.Selected()
	if s == nil || !s.Editable() {
		return m, nil
	}
	buf := s.Buffer()
	switch msg.Type {
	case tea.KeyLeft:
		buf.MoveLeft()
		m.observe(s)
		return m, nil
	case tea.KeyRight:
		buf.MoveRight()
		m.observe(s)
		return m, nil
	case tea.KeyHome:
		buf.MoveStart()
		m.observe(s)
		return m, nil
	case tea.KeyEnd:
		buf.MoveEnd()
		m.observe(s)
		return m, nil
	case tea.KeyBackspace:
		buf.Backspace()
		return m, m.touched(s)
	case tea.KeySpace:
		buf.InsertText(" ")
		return m, m.touched(s)
	case tea.KeyRunes:
		buf.InsertText(string(msg.Runes))
		return m, m.touched(s)
	}
	return m, nil
}

// handleGroupKey processes keys on a group page: member selection, name and
// prefix edits, membership changes. ctrl+o toggles the key focus over to the
// group's rulings, which then behave exactly as on a card page.
func (m AppModel) handleGroupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+o" {
		m.editRulings = !m.editRulings
		if m.editRulings {
			m.focusSelected()
		}
		return m, nil
	}
	if m.editRulings {
		return m.handleCardKey(msg)
	}
	gs := m.group.Session()
	switch msg.String() {
	case "tab":
		m.group.Next()
		return m, nil
	case "shift+tab":
		m.group.Prev()
		return m, nil
	case "ctrl+f":
		if gs.Editable() {
			m.searchFor = searchGroupMember
			m.search.Activate("ADD CARD TO GROUP")
		}
		return m, nil
	case "ctrl+d":
		if gs.CanDelete() {
			return m, deleteGroupCmd(gs)
		}
		return m, nil
	case "ctrl+t":
		if gs.CanRestore() {
			return m, restoreGroupCmd(gs)
		}
		return m, nil
	case "ctrl+e":
		if uid := m.group.SelectedMember(); uid != "" && gs.Editable() {
			return m, removeGroupCardCmd(gs, uid)
		}
		return m, nil
	case "ctrl+g":
		if uid := m.group.SelectedMember(); uid != "" {
			return m, restoreGroupCardCmd(gs, uid)
		}
		return m, nil
	case "ctrl+y":
		m.toolbar.Prev()
		return m, nil
	case "ctrl+l":
		m.toolbar.Next()
		return m, nil
	case "ctrl+b":
		buf := m.group.SelectedBuffer()
		if buf == nil || !gs.Editable() {
			return m, nil
		}
		code, glyph := m.toolbar.Selected()
		buf.InsertIcon(code, glyph)
		m.status.SetSaving(true)
		gs.Touched(m.group.SelectedMember())
		return m, nil
	case "ctrl+x":
		buf := m.group.SelectedBuffer()
		if buf == nil || !gs.Editable() {
			return m, nil
		}
		buf.Backspace()
		m.status.SetSaving(true)
		gs.Touched(m.group.SelectedMember())
		return m, nil
	}
	return m.handleGroupNameEdit(msg, gs)
}

// handleGroupNameEdit edits the group name with plain typing; prefixes only
// hold symbols so runes always go to the name.
func (m AppModel) handleGroupNameEdit(msg tea.KeyMsg, gs *editor.GroupSession) (tea.Model, tea.Cmd) {
	if !gs.Editable() {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace:
		name := gs.Name()
		if name == "" {
			return m, nil
		}
		runes := []rune(name)
		gs.SetName(string(runes[:len(runes)-1]))
	case tea.KeySpace:
		gs.SetName(gs.Name() + " ")
	case tea.KeyRunes:
		gs.SetName(gs.Name() + string(msg.Runes))
	default:
		return m, nil
	}
	m.status.SetSaving(true)
	gs.Touched("name")
	return m, nil
}

// handleSearchKey drives the card search dialog.
func (m AppModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Deactivate()
		return m, nil
	case "enter":
		item, ok := m.search.Selected()
		m.search.Deactivate()
		if !ok {
			return m, nil
		}
		if m.searchFor == searchGroupMember && m.group != nil {
			return m, addGroupCardCmd(m.group.Session(), item.Value, item.Label)
		}
		if s := m.fieldSession(); s != nil && s.Editable() {
			node, offset := m.pos.Caret()
			s.Buffer().SetCaret(node, offset)
			s.Buffer().InsertCard(item.Label)
			return m, m.touched(s)
		}
		return m, nil
	}
	before := m.search.Query()
	cmd := m.search.Update(msg)
	if query := m.search.Query(); query != before && query != "" {
		return m, tea.Batch(cmd, completeCmd(m.client, query))
	}
	return m, cmd
}

// touched reports a buffer edit: caret tracking, pending-save indicator and
// the debounced autosave.
func (m *AppModel) touched(s *editor.Session) tea.Cmd {
	m.observe(s)
	m.status.SetSaving(true)
	s.Touched()
	return nil
}

func (m *AppModel) observe(s *editor.Session) {
	caret := s.Buffer().Caret()
	m.pos.Observe(rulingField(s), caret.Node, caret.Offset)
}

func (m *AppModel) focusSelected() {
	if s := m.rulings.Selected(); s != nil {
		m.pos.Focus(m.target.UID, rulingField(s))
		m.observe(s)
	}
}

// fieldSession resolves the ruling session the position tracker points at.
func (m *AppModel) fieldSession() *editor.Session {
	field := m.pos.Field()
	if field == "" {
		return nil
	}
	for _, s := range m.rulings.Sessions() {
		if rulingField(s) == field {
			return s
		}
	}
	return nil
}

func rulingField(s *editor.Session) string {
	return "ruling:" + s.Ruling().UID
}

// flush saves every ruling of the screen immediately, skipping the debounce.
func (m *AppModel) flush() tea.Cmd {
	sessions := m.rulings.Sessions()
	cmds := make([]tea.Cmd, 0, len(sessions))
	for _, s := range sessions {
		cmds = append(cmds, saveRulingCmd(s))
	}
	if m.group != nil {
		m.group.Session().Flush()
	}
	if len(cmds) == 0 {
		return nil
	}
	m.status.SetSaving(true)
	return tea.Batch(cmds...)
}

// View implements tea.Model. Renders the full editor layout.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 10 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x10.", m.width, m.height)
	}

	if m.modal.Active() {
		return m.modal.View()
	}
	if m.search.Active() {
		return m.search.View()
	}
	if m.showProposal {
		m.proposal.SetWidth(m.width)
		return m.proposal.View()
	}

	m.rulings.SetWidth(m.width)
	m.toolbar.SetWidth(m.width)
	m.status.SetWidth(m.width)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.target.Name))
	b.WriteString("\n")
	if m.group != nil {
		m.group.SetWidth(m.width)
		if m.group.Session().Gone() {
			b.WriteString(DeletedStyle.Render("This group was removed."))
		} else {
			b.WriteString(m.group.View())
		}
		b.WriteString("\n")
	}
	b.WriteString(m.rulings.View())
	b.WriteString("\n")
	b.WriteString(m.toolbar.View())
	b.WriteString("\n")
	if m.toast.Visible() {
		b.WriteString(m.toast.View())
		b.WriteString("\n")
	}
	b.WriteString(m.status.View())
	return b.String()
}
