package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkovalev/hatparty/pkg/client"
)

type errMsg struct{ err error }

// waitForUpdate blocks on the client's update channel and forwards the
// next message into the bubbletea loop.
func waitForUpdate(cl *client.GameClient) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-cl.UpdatesCh
		if !ok {
			return client.DisconnectedMsg{}
		}
		return msg
	}
}

// waitForError forwards the next client error into the loop.
func waitForError(cl *client.GameClient) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-cl.ErrorsCh
		if !ok {
			return nil
		}
		return errMsg{err: err}
	}
}
