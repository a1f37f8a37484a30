package controller

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Drive runs cmd outside a bubbletea program, feeding each resulting
// message to update until no command remains. Commands in a batch run
// concurrently; their messages are applied one at a time on the calling
// goroutine, in completion order.
func Drive(ctx context.Context, cmd tea.Cmd, update func(tea.Msg) tea.Cmd) error {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			mu   sync.Mutex
			msgs []tea.Msg
		)
		var g errgroup.Group
		for _, c := range queue {
			if c == nil {
				continue
			}
			g.Go(func() error {
				msg := c()
				mu.Lock()
				msgs = append(msgs, msg)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		queue = queue[:0]
		for _, msg := range msgs {
			switch msg := msg.(type) {
			case nil:
			case tea.BatchMsg:
				queue = append(queue, msg...)
			default:
				if next := update(msg); next != nil {
					queue = append(queue, next)
				}
			}
		}
	}
	return nil
}
