package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// ShowDetail renders an item card in the ov pager, releasing the terminal
// from bubbletea for the duration. The caller runs this off the update
// loop and feeds the returned error back as a detailClosedMsg.
func ShowDetail(p *tea.Program, title, content string) error {
	if p == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// give ov a moment to fully exit before bubbletea redraws
		time.Sleep(100 * time.Millisecond)
		_ = p.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(title + "\n\n" + content))
	if err != nil {
		return err
	}

	cfg := oviewer.NewConfig()
	cfg.IsWriteOnExit = false
	cfg.IsWriteOriginal = false
	root.SetConfig(cfg)

	return root.Run()
}
