// Package tui implements the terminal badge designer: a goterm screen loop
// that lets organizers lay out badge elements with the keyboard.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/goterm"

	"github.com/lanyardapp/lanyard/pkg/designer"
)

// App is the TUI application root: screen, input loop, and the designer view.
type App struct {
	screen    *goterm.Screen
	view      *DesignerView
	ctx       context.Context
	cancel    context.CancelFunc
	inputChan chan KeyEvent
}

// NewApp creates a TUI application editing the given template. A nil template
// starts from the default badge layout.
func NewApp(tpl *designer.Template) (*App, error) {
	screen, err := goterm.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		screen:    screen,
		view:      NewDesignerView(tpl),
		ctx:       ctx,
		cancel:    cancel,
		inputChan: make(chan KeyEvent, 100),
	}, nil
}

// Run starts the main loop and blocks until the user quits.
func (a *App) Run() error {
	defer a.screen.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go a.readKeyboardInput()

	// Steady repaint keeps the view current after terminal resizes.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	if err := a.render(); err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}

	for {
		select {
		case <-a.ctx.Done():
			return nil

		case <-sigChan:
			a.cancel()
			return nil

		case event := <-a.inputChan:
			if quit := a.view.HandleKey(event); quit {
				a.cancel()
				return nil
			}
			if err := a.render(); err != nil {
				return err
			}

		case <-ticker.C:
			if err := a.render(); err != nil {
				return err
			}
		}
	}
}

// render draws the designer view to the screen.
func (a *App) render() error {
	a.screen.Clear()
	a.view.Render(a.screen)
	if err := a.screen.Show(); err != nil {
		return fmt.Errorf("screen show failed: %w", err)
	}
	return nil
}

// readKeyboardInput reads raw stdin in a background goroutine. The terminal
// is already in raw mode from goterm.
func (a *App) readKeyboardInput() {
	buf := make([]byte, 32)

	for {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil {
			if err == io.EOF {
				return
			}
			continue
		}

		if n > 0 {
			event := parseKeyInput(buf[:n])
			select {
			case a.inputChan <- event:
			case <-a.ctx.Done():
				return
			}
		}
	}
}
