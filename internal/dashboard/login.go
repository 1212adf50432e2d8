package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginState holds the admin login form.
type loginState struct {
	inputs [2]textinput.Model // Username, password.
	field  int
	busy   bool
}

func newLoginState() loginState {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "admin"
	user.Focus()

	pass := textinput.New()
	pass.Prompt = ""
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginState{inputs: [2]textinput.Model{user, pass}}
}

func (ls *loginState) switchField() {
	ls.inputs[ls.field].Blur()
	ls.field = 1 - ls.field
	ls.inputs[ls.field].Focus()
}

func (ls *loginState) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	ls.inputs[ls.field], cmd = ls.inputs[ls.field].Update(msg)
	return cmd
}

// reset clears both fields and focuses the username.
func (ls *loginState) reset() {
	for i := range ls.inputs {
		ls.inputs[i].SetValue("")
	}
	if ls.field != 0 {
		ls.switchField()
	}
	ls.busy = false
}

// login authenticates and stores the token.
func login(ctx context.Context, sess Sessions, auth Backend, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{Err: sess.Login(ctx, auth, username, password)}
	}
}

// View renders the login form.
func (ls loginState) View(spinnerView string) string {
	var b strings.Builder
	b.WriteString(titleText.Render("Admin login"))
	b.WriteString("\n\n")
	labels := [2]string{"Username", "Password"}
	for i, in := range ls.inputs {
		marker := "  "
		if i == ls.field {
			marker = CursorMarker
		}
		b.WriteString(marker)
		b.WriteString(labelText.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if ls.busy {
		fmt.Fprintf(&b, "%s Signing in...", spinnerView)
	} else {
		b.WriteString(mutedText.Render("enter to sign in · esc to go back"))
	}
	return b.String()
}
