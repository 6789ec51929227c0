package cli

import (
	"context"

	coreapp "unusedvar/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

func runUI(ctx context.Context, app *coreapp.App) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen(), tea.WithContext(ctx))

	sendUpdate := func(update coreapp.Update) {
		p.Send(toUpdateMsg(update))
	}
	app.SetUpdateHandler(sendUpdate)

	go sendUpdate(app.CurrentUpdate())

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled by signal; not a UI failure.
		return nil
	}
	return err
}

func toUpdateMsg(update coreapp.Update) updateMsg {
	return updateMsg{
		findings:     update.Findings,
		fileCount:    update.FileCount,
		declarations: update.Declarations,
		timestamp:    update.Timestamp,
	}
}
