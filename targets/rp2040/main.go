//go:build rp2040 || rp2350

package main

import (
	"classicplus/core"
	"classicplus/protocol"
	"machine"
	"time"
)

// Program memory emulation and calibration storage inside machine.Flash
const (
	programWords = 0x2000
	programBase  = 0
	storeBase    = programWords * 2
)

// detectPin drives the expansion detect line
const detectPin = machine.GP16

var (
	appEngine  *core.Engine
	bootEngine *core.Engine
	target     *RPTargetBus

	// Debug counters
	busErrors  uint32
	loopPanics uint32
)

// statsInterval is how often the main loop dumps counters to the debug port
const statsInterval = 10 * time.Second

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebug()

	mode := GetMode()

	detectPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	detectPin.Low()

	hw := core.Hardware{
		Flash:  newBlockFlash(machine.Flash, programBase, programWords),
		Store:  newBlockStore(machine.Flash, storeBase),
		Detect: core.PinLine(detectPin.Set),
	}

	profile := core.ClassicProfile()
	if mode.Nunchuk {
		profile = core.NunchukProfile()
	}
	appEngine = newAppEngine(profile, hw)

	bootProfile := core.BootloaderProfile()
	bootProfile.Primary = profile.Primary
	bootProfile.ProtectedBoundary = profile.ProtectedBoundary
	bootEngine = core.NewEngine(bootProfile, hw)

	target = NewRPTargetBus(machine.I2C0, machine.GP20, machine.GP21)

	bootEngine.SetExitHandler(func() {
		core.DebugPrintln("[MAIN] starting application")
		appEngine.Reset()
		attach(appEngine)
	})

	inputs := NewRPInputs()
	accel := openAccel(mode.Nunchuk)

	if mode.Boot {
		attach(bootEngine)
	} else {
		attach(appEngine)
	}

	go target.serveLoop()

	lastStats := time.Now()
	pins := newStraps(mode)

	// Main loop - sample inputs and publish reports
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
				}
			}()

			if time.Since(lastStats) > statsInterval {
				lastStats = time.Now()
				dumpStats(target.Engine())
			}

			bootChanged, nunchukChanged := pins.poll()
			if bootChanged && pins.boot.Level() && target.Engine() == appEngine {
				appEngine.EnterProgramming()
			}
			if nunchukChanged {
				mode.Nunchuk = pins.nunchuk.Level()
				switchProfile(mode.Nunchuk, hw)
				accel = openAccel(mode.Nunchuk)
			}

			if target.Engine() != appEngine {
				return
			}
			cal := appEngine.Calibration()
			raw := inputs.Raw()
			appEngine.UpdateRawAxes(raw[:])

			if mode.Nunchuk {
				appEngine.UpdateReport(nunchukReport(raw, inputs.Buttons(), accel, cal))
				return
			}
			state := Classic(raw, inputs.Buttons(), cal)
			if appEngine.FullReport() {
				appEngine.UpdateReport(protocol.EncodeClassicFullReport(state))
			} else {
				appEngine.UpdateReport(protocol.EncodeClassicReport(state))
			}
		}()

		// Yield to the bus goroutine
		time.Sleep(2 * time.Millisecond)
	}
}

// newAppEngine builds the application engine. PROGRAM-ENABLE jumps to the
// boot image; DISABLE there restarts the application.
func newAppEngine(profile core.Profile, hw core.Hardware) *core.Engine {
	e := core.NewEngine(profile, hw)
	e.SetProgramModeHandler(func(on bool) {
		if !on {
			return
		}
		core.DebugPrintln("[MAIN] entering boot image")
		e.Detach()
		bootEngine.Reset()
		attach(bootEngine)
	})
	return e
}

// switchProfile replaces the application engine after the nunchuk strap
// moves. The boot image keeps running if it is attached.
func switchProfile(nunchuk bool, hw core.Hardware) {
	profile := core.ClassicProfile()
	if nunchuk {
		profile = core.NunchukProfile()
	}
	core.DebugPrintln("[MAIN] strap changed, profile " + profile.Name)
	running := target.Engine() == appEngine
	if running {
		appEngine.Detach()
	}
	appEngine = newAppEngine(profile, hw)
	if running {
		attach(appEngine)
	}
}

func openAccel(nunchuk bool) *RPAccel {
	if !nunchuk {
		return nil
	}
	accel, err := NewRPAccel()
	if err != nil {
		core.DebugPrintln("[MAIN] accelerometer unavailable: " + err.Error())
		return nil
	}
	return accel
}

func attach(e *core.Engine) {
	if err := target.Attach(e); err != nil {
		core.DebugPrintln("[MAIN] attach failed: " + err.Error())
	}
}

func nunchukReport(raw [protocol.RawAxesSize]byte, buttons uint16, accel *RPAccel, cal core.Calibration) []byte {
	s := protocol.NunchukState{
		SX: cal.Stick(core.AxisLX, raw[0]),
		SY: cal.Stick(core.AxisLY, raw[1]),
		AX: 0x200,
		AY: 0x200,
		AZ: 0x2D0,
		C:  buttons&protocol.ButtonA != 0,
		Z:  buttons&protocol.ButtonB != 0,
	}
	if accel != nil {
		s.AX, s.AY, s.AZ = accel.Read(cal)
	}
	return protocol.EncodeNunchukReport(s)
}

func yield() {
	time.Sleep(100 * time.Microsecond)
}

// hexByte formats b as two hex digits without fmt (for embedded)
func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}
