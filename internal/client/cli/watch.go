package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/shipagency/internal/models"
)

// Watch prints live vessel changes until the user presses Enter.
func (a *App) Watch(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Watching vessel events, press Enter to stop")

	done := make(chan error, 1)
	go func() {
		err := a.api.WatchEvents(wctx, func(e models.Event) {
			fmt.Fprintln(a.out, formatEvent(e))
		})
		if err == nil && wctx.Err() == nil {
			fmt.Fprintln(a.out, "Event stream closed by server")
		}
		done <- err
	}()

	_, err := a.reader.ReadString('\n')
	cancel()
	streamErr := <-done

	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return streamErr
}

func formatEvent(e models.Event) string {
	at := e.At.UTC().Format("15:04:05")
	if e.Vessel == nil {
		return fmt.Sprintf("[%s] %s %s", at, e.Type, e.ID)
	}
	return fmt.Sprintf("[%s] %s %s (%s) %s", at, e.Type, e.Vessel.Name, e.ID, e.Vessel.Status)
}
