package main

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/ashureev/rps-labs/internal/view"
)

func render(p view.Page) {
	if p.Connected {
		pterm.Info.Printfln("Connected: %s", p.Address)
	}

	pterm.DefaultSection.Println("Game History")
	if p.Empty {
		pterm.Println(p.EmptyText)
		return
	}

	rows := make(pterm.Panels, 0, len(p.Games))
	for _, g := range p.Games {
		rows = append(rows, []pterm.Panel{gamePanel(g)})
	}
	_ = pterm.DefaultPanel.WithPanels(rows).Render()
}

func gamePanel(g view.Game) pterm.Panel {
	title := pterm.LightRed("|LOSS|")
	if g.Win {
		title = pterm.LightGreen("|WIN|")
	}
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(title).WithTitleTopCenter()
	return pterm.Panel{Data: box.Sprint(strings.Join(g.Lines(), "\n"))}
}
