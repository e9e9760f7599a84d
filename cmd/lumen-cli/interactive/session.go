// Package interactive provides the interactive command-line interface
// for lumen-cli.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lumen-home/lumen-go/pkg/model"
	"github.com/lumen-home/lumen-go/pkg/transport"
)

// Session handles interactive mode for lumen-cli.
type Session struct {
	hub    *model.Hub
	client *transport.Client
	rl     *readline.Instance
}

// New creates a new interactive session.
func New(hub *model.Hub, client *transport.Client) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lumen> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Session{
		hub:    hub,
		client: client,
		rl:     rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "rooms":
			s.cmdRooms()

		case "controls", "ls":
			s.cmdControls(args)

		case "scenes":
			s.cmdScenes(args)

		case "scene":
			s.cmdScene(args)

		case "on":
			s.cmdSimple(args, "on", func(c model.Control) error {
				switch ctrl := c.(type) {
				case *model.LightController:
					return ctrl.AllOn()
				case *model.Switch:
					return ctrl.On()
				default:
					return fmt.Errorf("%s does not support on", c.Name())
				}
			})

		case "off":
			s.cmdSimple(args, "off", func(c model.Control) error {
				switch ctrl := c.(type) {
				case *model.LightController:
					return ctrl.AllOff()
				case *model.Switch:
					return ctrl.Off()
				default:
					return fmt.Errorf("%s does not support off", c.Name())
				}
			})

		case "next":
			s.cmdSimple(args, "next", func(c model.Control) error {
				lc, ok := c.(*model.LightController)
				if !ok {
					return fmt.Errorf("%s is not a light controller", c.Name())
				}
				return lc.NextScene()
			})

		case "prev":
			s.cmdSimple(args, "prev", func(c model.Control) error {
				lc, ok := c.(*model.LightController)
				if !ok {
					return fmt.Errorf("%s is not a light controller", c.Name())
				}
				return lc.PreviousScene()
			})

		case "state":
			s.cmdState(args)

		case "watch":
			s.cmdWatch(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Commands:
  rooms               - List rooms
  controls [room]     - List controls, optionally filtered by room name
  scenes <control>    - Show the scene table of a light controller
  scene <control> <n> - Activate scene n (9 = all on)
  on <control>        - All on (light controller) or switch on
  off <control>       - All off (light controller) or switch off
  next <control>      - Step to the next scene
  prev <control>      - Step to the previous scene
  state <control>     - Dump a control's state cells
  watch <control>     - Print state changes until enter is pressed
  status              - Show connection and hub info
  quit                - Exit`)
}

func (s *Session) cmdRooms() {
	rooms := s.hub.Rooms()
	if len(rooms) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No rooms known yet.")
		return
	}
	for _, room := range rooms {
		fmt.Fprintf(s.rl.Stdout(), "  %-24s %s\n", room.Name(), room.ID())
	}
}

func (s *Session) cmdControls(args []string) {
	roomFilter := ""
	if len(args) > 0 {
		roomFilter = strings.ToLower(strings.Join(args, " "))
	}

	shown := 0
	for _, ctrl := range s.hub.Controls() {
		roomName := ""
		if room := ctrl.Room(); room != nil {
			roomName = room.Name()
		}
		if roomFilter != "" && !strings.Contains(strings.ToLower(roomName), roomFilter) {
			continue
		}
		fmt.Fprintf(s.rl.Stdout(), "  %-24s %-16s %-16s %s\n",
			ctrl.Name(), ctrl.TypeTag(), roomName, ctrl.ID())
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No controls matched.")
	}
}

func (s *Session) cmdScenes(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: scenes <control>")
		return
	}
	lc, err := s.findLightController(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	current, hasCurrent := lc.CurrentScene()
	for _, scene := range lc.Scenes() {
		marker := " "
		if hasCurrent && scene.Index == strconv.Itoa(current) {
			marker = "*"
		}
		fmt.Fprintf(s.rl.Stdout(), " %s %-3s %s\n", marker, scene.Index, scene.Name)
	}
	if movement, ok := lc.MovementScene(); ok {
		fmt.Fprintf(s.rl.Stdout(), "   movement scene: %d\n", movement)
	}
}

func (s *Session) cmdScene(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: scene <control> <n>")
		return
	}
	scene, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid scene number: %s\n", args[len(args)-1])
		return
	}
	lc, err := s.findLightController(strings.Join(args[:len(args)-1], " "))
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if err := lc.SetScene(scene); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	}
}

func (s *Session) cmdSimple(args []string, usage string, action func(model.Control) error) {
	if len(args) < 1 {
		fmt.Fprintf(s.rl.Stdout(), "Usage: %s <control>\n", usage)
		return
	}
	ctrl, err := s.findControl(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if err := action(ctrl); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	}
}

func (s *Session) cmdState(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: state <control>")
		return
	}
	ctrl, err := s.findControl(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	names := ctrl.StateNames()
	if len(names) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No state cells.")
		return
	}
	for _, name := range names {
		cell := ctrl.State(name)
		if text, ok := cell.TextValue(); ok {
			fmt.Fprintf(s.rl.Stdout(), "  %-16s %q\n", name, text)
			continue
		}
		if value, ok := cell.Value(); ok {
			fmt.Fprintf(s.rl.Stdout(), "  %-16s %g\n", name, value)
			continue
		}
		fmt.Fprintf(s.rl.Stdout(), "  %-16s <absent>\n", name)
	}
}

// stateWatcher prints every change of the cells it is attached to.
type stateWatcher struct {
	out  io.Writer
	name string
}

func (w *stateWatcher) OnStateChange(cell *model.State) {
	if text, ok := cell.TextValue(); ok {
		fmt.Fprintf(w.out, "  [%s] %s = %q\n", w.name, cell.Name(), text)
		return
	}
	if value, ok := cell.Value(); ok {
		fmt.Fprintf(w.out, "  [%s] %s = %g\n", w.name, cell.Name(), value)
	}
}

func (s *Session) cmdWatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: watch <control>")
		return
	}
	ctrl, err := s.findControl(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	watcher := &stateWatcher{out: s.rl.Stdout(), name: ctrl.Name()}
	cells := make([]*model.State, 0)
	for _, name := range ctrl.StateNames() {
		cell := ctrl.State(name)
		cell.AddListener(watcher)
		cells = append(cells, cell)
	}
	defer func() {
		for _, cell := range cells {
			cell.RemoveListener(watcher)
		}
	}()

	fmt.Fprintf(s.rl.Stdout(), "Watching %s, press enter to stop.\n", ctrl.Name())
	_, _ = s.rl.Readline()
}

func (s *Session) cmdStatus() {
	info := s.hub.Info()
	fmt.Fprintf(s.rl.Stdout(), "  connection: %s\n", s.client.State())
	fmt.Fprintf(s.rl.Stdout(), "  hub:        %s (serial %s, v%s)\n",
		info.Name, info.SerialNumber, info.Version)
	fmt.Fprintf(s.rl.Stdout(), "  rooms:      %d\n", len(s.hub.Rooms()))
	fmt.Fprintf(s.rl.Stdout(), "  controls:   %d\n", len(s.hub.Controls()))
}

// findControl resolves a control by identity or by case-insensitive
// name. Top-level controls are searched first, then sub-controls.
func (s *Session) findControl(key string) (model.Control, error) {
	if ctrl, ok := s.hub.FindControl(model.NewIdentity(key)); ok {
		return ctrl, nil
	}

	want := strings.ToLower(key)
	var match model.Control
	for _, ctrl := range s.hub.Controls() {
		if strings.ToLower(ctrl.Name()) == want {
			if match != nil {
				return nil, fmt.Errorf("name %q is ambiguous, use the identity", key)
			}
			match = ctrl
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no control named %q", key)
	}
	return match, nil
}

func (s *Session) findLightController(key string) (*model.LightController, error) {
	ctrl, err := s.findControl(key)
	if err != nil {
		return nil, err
	}
	lc, ok := ctrl.(*model.LightController)
	if !ok {
		return nil, fmt.Errorf("%s is not a light controller", ctrl.Name())
	}
	return lc, nil
}
