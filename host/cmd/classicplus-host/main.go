package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"classicplus/config"
	"classicplus/host/bridge"
	"classicplus/host/image"
	"classicplus/host/programmer"
	"classicplus/host/serial"
	"classicplus/host/sim"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	device     = flag.String("device", "", "Serial device of the USB I2C bridge (overrides config)")
	busName    = flag.String("bus", "", "Native I2C bus name (overrides config)")
	simulate   = flag.Bool("sim", false, "Talk to a simulated device instead of hardware")
	simBoot    = flag.Bool("sim-boot", false, "Start the simulated device in its boot image")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	logCfg := log.DefaultConfig()
	if *verbose {
		logCfg.Level = log.DebugLevel
	}
	logger := log.NewWithConfig(logCfg)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatal("Loading configuration failed", log.Err(err))
		}
	}
	profile, err := cfg.Profile.Build()
	if err != nil {
		logger.Fatal("Invalid profile", log.Err(err))
	}

	bus, err := openBus(cfg, logger)
	if err != nil {
		logger.Fatal("Opening bus failed", log.Err(err))
	}
	defer bus.Close()

	opts := programmer.DefaultOptions()
	opts.Boundary = profile.ProtectedBoundary
	opts.Retries = cfg.Retries
	opts.Verify = *cfg.Verify
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts.Progress = func(done, total int) {
			fmt.Printf("\rProgramming row %d/%d", done, total)
			if done == total {
				fmt.Println()
			}
		}
	}
	prog := programmer.New(bus, uint16(profile.Primary), opts, logger)

	// One-shot mode: the remaining arguments are a single command
	if flag.NArg() > 0 {
		if err := run(prog, flag.Args()); err != nil {
			logger.Fatal("Command failed", log.Err(err))
		}
		return
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Printf("Connected to %s, profile %s at 0x%02X\n", bus, profile.Name, profile.Primary)
		fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "quit", "q":
			return
		case "help", "?":
			printHelp()
			continue
		}
		if err := run(prog, parts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("Reading input failed", log.Err(err))
	}
}

// openBus picks the simulator, the serial bridge or a native bus, in that order
func openBus(cfg *config.Config, logger *log.Logger) (i2c.BusCloser, error) {
	if *simulate {
		profile, err := cfg.Profile.Build()
		if err != nil {
			return nil, err
		}
		d, err := sim.NewDevice(profile, *simBoot, logger)
		if err != nil {
			return nil, err
		}
		return nopCloser{d.Bus}, nil
	}

	dev := cfg.Bridge.Device
	if *device != "" {
		dev = *device
	}
	if dev != "" {
		sc := serial.DefaultConfig(dev)
		sc.Baud = cfg.Bridge.Baud
		sc.ReadTimeout = cfg.Bridge.ReadTimeout
		return bridge.Open(sc, logger)
	}

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing host drivers")
	}
	name := cfg.Bus
	if *busName != "" {
		name = *busName
	}
	return i2creg.Open(name)
}

type nopCloser struct {
	i2c.Bus
}

func (nopCloser) Close() error { return nil }

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  id                    - Show identity and custom ID")
	fmt.Println("  enter                 - Enter programming mode")
	fmt.Println("  exit                  - Leave programming mode and start the application")
	fmt.Println("  erase <addr>          - Erase the row holding a word address")
	fmt.Println("  write <addr> <word>.. - Write words starting at a word address")
	fmt.Println("  read <addr> <n> [hex] - Read words, optionally saving them as Intel HEX")
	fmt.Println("  flash <hex>           - Program and verify an Intel HEX image")
	fmt.Println("  cal-store <14 bytes>  - Write and persist a calibration block")
	fmt.Println("  cal-load              - Reload the persisted calibration block")
	fmt.Println("  cal-default           - Persist the default calibration block")
	fmt.Println("  cal-read              - Show the calibration registers")
	fmt.Println("  config <on|off>       - Toggle the raw axis mirror")
	fmt.Println("  raw                   - Read the raw axis mirror")
	fmt.Println("  quit/q                - Exit the program")
	fmt.Println()
}

func run(prog *programmer.Programmer, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "id":
		id, err := prog.ReadIdentity()
		if err != nil {
			return err
		}
		mode := "application"
		if id.Bootloader() {
			mode = "bootloader"
		}
		fmt.Printf("ID % X, custom ID 0x%02X (%s)\n", id.ID, id.CustomID, mode)
		return nil

	case "enter":
		return prog.EnterProgramming()

	case "exit":
		return prog.ExitProgramming()

	case "erase":
		if len(args) != 1 {
			return errors.New("usage: erase <addr>")
		}
		addr, err := parseWord(args[0])
		if err != nil {
			return err
		}
		return prog.Erase(addr)

	case "write":
		if len(args) < 2 {
			return errors.New("usage: write <addr> <word>...")
		}
		addr, err := parseWord(args[0])
		if err != nil {
			return err
		}
		words := make([]uint16, len(args)-1)
		for i, s := range args[1:] {
			if words[i], err = parseWord(s); err != nil {
				return err
			}
		}
		return prog.Write(addr, words)

	case "read":
		return readCmd(prog, args)

	case "flash":
		if len(args) != 1 {
			return errors.New("usage: flash <hex>")
		}
		img, err := image.Load(args[0], sim.FlashWords)
		if err != nil {
			return err
		}
		if err := prog.EnterProgramming(); err != nil {
			return err
		}
		if err := prog.Program(img); err != nil {
			return err
		}
		fmt.Printf("Programmed %d words\n", img.Words())
		return prog.ExitProgramming()

	case "cal-store":
		block, err := hex.DecodeString(strings.Join(args, ""))
		if err != nil {
			return errors.Wrap(err, "parsing calibration block")
		}
		return prog.StoreCalibration(block)

	case "cal-load":
		_, block, err := prog.LoadCalibration()
		if err != nil {
			return err
		}
		fmt.Printf("% X\n", block)
		return nil

	case "cal-default":
		return prog.DefaultCalibration()

	case "cal-read":
		cal, block, err := prog.ReadCalibration()
		if err != nil {
			return err
		}
		fmt.Printf("% X\n", block)
		fmt.Printf("deadzones %d/%d, camera sensitivity %d\n", cal.Deadzones[0], cal.Deadzones[1], cal.CameraSensitivity)
		return nil

	case "config":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return errors.New("usage: config <on|off>")
		}
		return prog.SetConfigMode(args[0] == "on")

	case "raw":
		raw, err := prog.ReadRawAxes()
		if err != nil {
			return err
		}
		fmt.Printf("% X\n", raw)
		return nil
	}
	return errors.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
}

func readCmd(prog *programmer.Programmer, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: read <addr> <n> [hex]")
	}
	addr, err := parseWord(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n <= 0 {
		return errors.Errorf("invalid word count %q", args[1])
	}
	words, err := prog.Read(addr, n)
	if err != nil {
		return err
	}

	if len(args) == 3 {
		f, err := os.Create(args[2])
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer f.Close()
		return image.FromWords(addr, words).WriteHex(f)
	}

	for i := 0; i < len(words); i += 8 {
		end := i + 8
		if end > len(words) {
			end = len(words)
		}
		fmt.Printf("%04X:", addr+uint16(i))
		for _, w := range words[i:end] {
			fmt.Printf(" %04X", w)
		}
		fmt.Println()
	}
	return nil
}

func parseWord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value %q", s)
	}
	return uint16(v), nil
}
