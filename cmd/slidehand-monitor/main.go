package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/monitor"
)

const reconnectDelay = 2 * time.Second

func main() {
	addr := flag.String("addr", "localhost:8080", "Address of the slidehand server")
	flag.Parse()

	client := monitor.NewClient(*addr)
	p := tea.NewProgram(monitor.New(client, client.URL()), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			err := client.Subscribe(ctx, func(st app.Status) {
				p.Send(monitor.StatusMsg(st))
			})
			if ctx.Err() != nil {
				return
			}
			p.Send(monitor.DisconnectedMsg{Err: err})

			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
