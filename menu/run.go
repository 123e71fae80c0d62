package menu

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
)

// Run shows the selection menu on stderr and returns the completed
// selection. Quitting before the last step returns [ErrAborted].
func Run(cfg Config) (Selection, error) {
	videos, err := ScanVideos(cfg.AssetsDir)
	if err != nil {
		return Selection{}, err
	}

	p := tea.NewProgram(newModel(cfg, videos), tea.WithOutput(os.Stderr))

	out, err := p.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("running menu: %w", err)
	}

	m, ok := out.(*model)
	if !ok || m.aborted || m.step != stepDone {
		return Selection{}, ErrAborted
	}

	return m.selection, nil
}
