package sim

import (
	"github.com/retroenv/retrogolib/log"

	"classicplus/core"
)

// FlashWords is the simulated program memory size
const FlashWords = 0x2000

// Device is a simulated controller: a boot image and an application image
// sharing program memory and calibration storage. PROGRAM-ENABLE hands the
// bus to the boot image; DISABLE hands it back to a freshly reset application.
type Device struct {
	Bus   *Bus
	Boot  *core.Engine
	App   *core.Engine
	Flash *core.MemoryFlash
	Store *core.MemoryStore
}

// NewDevice builds a device running app. With boot set it starts in the boot image.
func NewDevice(app core.Profile, boot bool, logger *log.Logger) (*Device, error) {
	flash := core.NewMemoryFlash(FlashWords)
	store := core.NewMemoryStore(nil)
	hw := core.Hardware{Flash: flash, Store: store}

	d := &Device{
		Bus:   New(logger),
		Flash: flash,
		Store: store,
	}
	bootProfile := core.BootloaderProfile()
	bootProfile.Primary = app.Primary
	bootProfile.ProtectedBoundary = app.ProtectedBoundary
	d.Boot = core.NewEngine(bootProfile, hw)
	d.App = core.NewEngine(app, hw)

	d.App.SetProgramModeHandler(func(on bool) {
		if !on {
			return
		}
		if logger != nil {
			logger.Debug("Jumping to boot image")
		}
		_ = d.App.Detach()
		d.Boot.Reset()
		_ = d.Bus.Attach(d.Boot)
	})
	d.Boot.SetExitHandler(func() {
		if logger != nil {
			logger.Debug("Starting application image")
		}
		d.App.Reset()
		_ = d.Bus.Attach(d.App)
	})

	start := d.App
	if boot {
		start = d.Boot
	}
	if err := d.Bus.Attach(start); err != nil {
		return nil, err
	}
	return d, nil
}

// Running returns the engine currently attached to the bus
func (d *Device) Running() *core.Engine {
	return d.Bus.Engine()
}
