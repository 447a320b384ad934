package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/rank"
	"github.com/dealstackr/dealstackr/internal/stack"
)

const (
	minTUIWidth  = 72
	minTUIHeight = 20

	tuiFormWidth = 34
)

var (
	tuiTitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	tuiProgramStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tuiSectionStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	tuiLabelStyle        = lipgloss.NewStyle().Faint(true)
	tuiFocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	tuiResultStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	tuiHelpStyle         = lipgloss.NewStyle().Faint(true)
)

// Form field indices, in display order.
const (
	fieldCart = iota
	fieldPromoPercent
	fieldPromoAmount
	fieldEmailPercent
	fieldEmailAmount
	fieldCardCash
	fieldCardPercent
	fieldCardPoints
	fieldCardMinSpend
	fieldCardMaxCashback
	fieldPortalPercent
	fieldPortalAmount
	fieldCount
)

var tuiFieldLabels = [fieldCount]string{
	fieldCart:            "Cart $",
	fieldPromoPercent:    "Percent off",
	fieldPromoAmount:     "Dollars off",
	fieldEmailPercent:    "Percent off",
	fieldEmailAmount:     "Dollars off",
	fieldCardCash:        "Fixed cash $",
	fieldCardPercent:     "Percent back",
	fieldCardPoints:      "Points earned",
	fieldCardMinSpend:    "Min spend $",
	fieldCardMaxCashback: "Cashback cap $",
	fieldPortalPercent:   "Percent back",
	fieldPortalAmount:    "Fixed bonus $",
}

var tuiSectionBefore = map[int]string{
	fieldCart:          "Cart",
	fieldPromoPercent:  "Promo code",
	fieldEmailPercent:  "Email signup",
	fieldCardCash:      "Card offer",
	fieldPortalPercent: "Shopping portal",
}

type stackTUIMode int

const (
	tuiModeForm stackTUIMode = iota
	tuiModePicker
)

// tuiOfferItem adapts a ranked offer for the picker list.
type tuiOfferItem struct {
	offer rank.RankedOffer
}

func (i tuiOfferItem) Title() string {
	text := rank.CleanText(rank.Deref(i.offer.Record.OfferText))
	if text == "" {
		text = "Offer " + i.offer.Record.ID
	}
	return fmt.Sprintf("[%d] %s", i.offer.Score.FinalScore, text)
}

func (i tuiOfferItem) Description() string {
	parts := make([]string, 0, 3)
	if m := rank.CleanText(rank.Deref(i.offer.Record.Merchant)); m != "" {
		parts = append(parts, m)
	}
	if c := rank.CleanText(rank.Deref(i.offer.Record.Card)); c != "" {
		parts = append(parts, c)
	}
	if i.offer.Record.Expires != "" {
		parts = append(parts, "expires "+i.offer.Record.Expires)
	}
	if len(parts) == 0 {
		return i.offer.Score.Band.Label()
	}
	return strings.Join(parts, " | ")
}

func (i tuiOfferItem) FilterValue() string {
	return rank.CleanText(rank.Deref(i.offer.Record.OfferText)) + " " +
		rank.CleanText(rank.Deref(i.offer.Record.Merchant))
}

type stackTUIModel struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	program offer.Program

	sim    *stack.Simulator
	result stack.Result

	resultVP viewport.Model
	picker   list.Model
	offers   []rank.RankedOffer

	mode     stackTUIMode
	width    int
	height   int
	ready    bool
	showHelp bool
}

func newStackTUIModel(seed stack.Input, offers []rank.RankedOffer, pointValue map[offer.Program]float64) stackTUIModel {
	m := stackTUIModel{
		program: seed.CardProgram,
		sim:     &stack.Simulator{PointValue: pointValue},
		offers:  offers,
	}

	seeds := [fieldCount]float64{
		fieldCart:            seed.CartValue,
		fieldPromoPercent:    seed.PromoPercent,
		fieldPromoAmount:     seed.PromoAmount,
		fieldEmailPercent:    seed.EmailPercent,
		fieldEmailAmount:     seed.EmailAmount,
		fieldCardCash:        seed.CardCashFixed,
		fieldCardPercent:     seed.CardCashPercent,
		fieldCardMinSpend:    seed.CardMinSpend,
		fieldCardMaxCashback: seed.CardMaxCashback,
		fieldPortalPercent:   seed.PortalPercent,
		fieldPortalAmount:    seed.PortalAmount,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "0"
		ti.CharLimit = 10
		ti.Width = 10
		ti.Validate = validateNumericField
		if i == fieldCardPoints {
			ti.Validate = validateIntField
			if seed.CardPoints != 0 {
				ti.SetValue(strconv.Itoa(seed.CardPoints))
			}
		} else if seeds[i] != 0 {
			ti.SetValue(formatFieldValue(seeds[i]))
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldCart].Focus()

	m.resultVP = viewport.New(40, 16)

	if len(offers) > 0 {
		items := make([]list.Item, len(offers))
		for i, o := range offers {
			items[i] = tuiOfferItem{offer: o}
		}
		m.picker = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.picker.Title = "Pick a card offer to stack"
		m.picker.SetStatusBarItemName("offer", "offers")
	}

	m.recompute()
	return m
}

func (m stackTUIModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m stackTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if m.mode == tuiModePicker {
			return m.updatePicker(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

// Form fields only accept digits, so single-letter command keys can be
// intercepted here without stealing anything a field would want.
func (m stackTUIModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "tab", "down", "enter":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "p":
		m.cycleProgram(1)
		m.recompute()
		return m, nil
	case "o":
		if len(m.offers) > 0 {
			m.mode = tuiModePicker
		}
		return m, nil
	case "r":
		m.clearFields()
		m.recompute()
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recompute()
	return m, cmd
}

func (m stackTUIModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.picker.FilterState() == list.Filtering

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if !filtering {
			m.mode = tuiModeForm
			return m, nil
		}
	case "enter":
		if !filtering {
			if item, ok := m.picker.SelectedItem().(tuiOfferItem); ok {
				m.applyOffer(item.offer)
			}
			m.mode = tuiModeForm
			m.recompute()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m stackTUIModel) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.width < minTUIWidth || m.height < minTUIHeight {
		return fmt.Sprintf(
			"terminal too small (%dx%d); need at least %dx%d\npress q to quit\n",
			m.width, m.height, minTUIWidth, minTUIHeight,
		)
	}
	if m.mode == tuiModePicker {
		return m.picker.View()
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.formView(),
		tuiResultStyle.Render(m.resultVP.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())
}

func (m *stackTUIModel) setFocus(idx int) {
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

func (m *stackTUIModel) cycleProgram(step int) {
	choices := tuiProgramChoices()
	idx := 0
	for i, p := range choices {
		if p == m.program {
			idx = i
			break
		}
	}
	idx = (idx + step + len(choices)) % len(choices)
	m.program = choices[idx]
}

func (m *stackTUIModel) clearFields() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.program = ""
	m.setFocus(fieldCart)
}

// applyOffer copies a picked offer into the card fields. The points branch
// wins over cash; a derived dollar amount yields to the stated percent.
func (m *stackTUIModel) applyOffer(o rank.RankedOffer) {
	for _, f := range []int{fieldCardCash, fieldCardPercent, fieldCardPoints, fieldCardMinSpend} {
		m.inputs[f].SetValue("")
	}
	m.program = ""

	v := o.Value
	if v.MinSpend != nil {
		m.inputs[fieldCardMinSpend].SetValue(formatFieldValue(*v.MinSpend))
	}
	switch {
	case v.Points != nil:
		m.inputs[fieldCardPoints].SetValue(strconv.Itoa(v.Points.Amount))
		m.program = v.Points.Program
	case percentPrimary(v):
		m.inputs[fieldCardPercent].SetValue(formatFieldValue(*v.PercentBack))
	case v.AmountBack != nil:
		m.inputs[fieldCardCash].SetValue(formatFieldValue(*v.AmountBack))
	case v.PercentBack != nil:
		m.inputs[fieldCardPercent].SetValue(formatFieldValue(*v.PercentBack))
	}
}

func (m *stackTUIModel) recompute() {
	m.result = m.sim.Simulate(m.currentInput())
	m.resultVP.SetContent(renderStackSummary(m.result))
}

func (m stackTUIModel) currentInput() stack.Input {
	return stack.Input{
		CartValue:       fieldFloat(m.inputs[fieldCart]),
		PromoPercent:    fieldFloat(m.inputs[fieldPromoPercent]),
		PromoAmount:     fieldFloat(m.inputs[fieldPromoAmount]),
		EmailPercent:    fieldFloat(m.inputs[fieldEmailPercent]),
		EmailAmount:     fieldFloat(m.inputs[fieldEmailAmount]),
		CardCashFixed:   fieldFloat(m.inputs[fieldCardCash]),
		CardCashPercent: fieldFloat(m.inputs[fieldCardPercent]),
		CardPoints:      fieldInt(m.inputs[fieldCardPoints]),
		CardProgram:     m.program,
		CardMinSpend:    fieldFloat(m.inputs[fieldCardMinSpend]),
		CardMaxCashback: fieldFloat(m.inputs[fieldCardMaxCashback]),
		PortalPercent:   fieldFloat(m.inputs[fieldPortalPercent]),
		PortalAmount:    fieldFloat(m.inputs[fieldPortalAmount]),
	}
}

func (m *stackTUIModel) resize() {
	resultW := m.width - tuiFormWidth - 6
	if resultW < 24 {
		resultW = 24
	}
	bodyH := m.height - 4
	if bodyH < 6 {
		bodyH = 6
	}
	m.resultVP.Width = resultW
	m.resultVP.Height = bodyH
	m.resultVP.SetContent(renderStackSummary(m.result))

	if len(m.offers) > 0 {
		m.picker.SetSize(m.width-2, m.height-2)
	}
}

func (m stackTUIModel) headerView() string {
	title := tuiTitleStyle.Render("DealStackr stack calculator")
	program := tuiProgramStyle.Render("program: " + programLabel(m.program))
	return title + "  " + program
}

func (m stackTUIModel) formView() string {
	var b strings.Builder
	for i := range fieldCount {
		if heading, ok := tuiSectionBefore[i]; ok {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(tuiSectionStyle.Render(heading) + "\n")
		}

		style := tuiLabelStyle
		if i == m.focus {
			style = tuiFocusedLabelStyle
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render(fmt.Sprintf("%-16s", tuiFieldLabels[i])), m.inputs[i].View())

		if i == fieldCardPoints {
			fmt.Fprintf(&b, "%s %s\n",
				tuiLabelStyle.Render(fmt.Sprintf("%-16s", "Program (p)")),
				tuiProgramStyle.Render(programLabel(m.program)))
		}
	}
	return b.String()
}

func (m stackTUIModel) footerView() string {
	if m.showHelp {
		return tuiHelpStyle.Render(strings.Join([]string{
			"tab/enter/down   next field",
			"shift+tab/up     previous field",
			"p                cycle points program",
			"o                pick a card offer from the feed",
			"r                clear every field",
			"q/esc            quit",
			"fields accept digits and one decimal point",
		}, "\n"))
	}

	parts := []string{"tab next", "shift+tab prev", "p program"}
	if len(m.offers) > 0 {
		parts = append(parts, "o pick offer")
	}
	parts = append(parts, "r reset", "? help", "q quit")
	return tuiHelpStyle.Render(strings.Join(parts, " | "))
}

// renderStackSummary reuses the stack formatter so the TUI pane and the
// `stack` command read identically.
func renderStackSummary(r stack.Result) string {
	var buf strings.Builder
	display.PrintStack(&buf, r)
	return buf.String()
}

func tuiProgramChoices() []offer.Program {
	return append([]offer.Program{""}, offer.Programs()...)
}

func programLabel(p offer.Program) string {
	if p == "" {
		return "none"
	}
	return string(p)
}

// percentPrimary reports whether the parsed dollar amount was derived from
// the percent and minimum spend rather than stated outright, in which case
// the percent is the real shape of the card offer.
func percentPrimary(v offer.ParsedValue) bool {
	if v.AmountBack == nil || v.PercentBack == nil || v.MinSpend == nil {
		return false
	}
	derived := math.Round(*v.PercentBack * *v.MinSpend) / 100
	return *v.AmountBack == derived
}

func validateNumericField(s string) error {
	dot := false
	for _, r := range s {
		if r == '.' {
			if dot {
				return fmt.Errorf("invalid number")
			}
			dot = true
			continue
		}
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid number")
		}
	}
	return nil
}

func validateIntField(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func fieldFloat(ti textinput.Model) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(ti.Value()), 64)
	if err != nil {
		return 0
	}
	return v
}

func fieldInt(ti textinput.Model) int {
	v, err := strconv.Atoi(strings.TrimSpace(ti.Value()))
	if err != nil {
		return 0
	}
	return v
}

func formatFieldValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
