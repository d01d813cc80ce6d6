package core

import (
	"errors"

	"classicplus/protocol"
)

// Hardware bundles the collaborators an Engine drives. Any of them may be
// nil; actions needing a missing collaborator fail with an error.
type Hardware struct {
	Flash  FlashDriver
	Store  CalibrationStore
	Cipher Cipher
	Detect DetectLine
}

// Stats counts bus and action activity since the last Reset
type Stats struct {
	Transactions  uint32
	AddressMisses uint32
	Writes        uint32
	Reads         uint32
	Overflows     uint32
	FlashErases   uint32
	FlashWrites   uint32
	Rejected      uint32
	Failures      uint32
}

// Engine is the bus-facing protocol engine. The On* methods run in bus
// interrupt context and never block; Tick runs in the main loop and performs
// whatever the byte-level state machines queued.
type Engine struct {
	profile Profile
	regs    *RegisterFile
	cursor  BusCursor
	mux     Multiplexer

	runtime     *RegionTable
	programming *RegionTable
	table       *RegionTable

	dispatcher *Dispatcher
	session    Session
	flash      *Flash
	store      CalibrationStore
	cipher     Cipher
	peripheral BusPeripheral
	detect     DetectLine

	programMode bool
	transform   bool
	configMode  bool
	fullReport  bool
	overflow    bool
	exitPending bool
	identityPos uint8
	cameraMode  uint8
	calibration Calibration

	onExit        func()
	onCalibration func(Calibration)
	onProgramMode func(bool)

	stats Stats
}

// NewEngine creates an engine for profile and loads its registers
func NewEngine(profile Profile, hw Hardware) *Engine {
	if profile.ProtectedBoundary == 0 {
		profile.ProtectedBoundary = DefaultProtectedBoundary
	}
	e := &Engine{
		profile:    profile,
		regs:       NewRegisterFile(profile.Capacity()),
		mux:        NewMultiplexer(profile.Primary, profile.Secondary),
		dispatcher: NewDispatcher(),
		flash:      NewFlash(hw.Flash),
		store:      hw.Store,
		cipher:     hw.Cipher,
		detect:     hw.Detect,
	}
	if !profile.Bootloader {
		registerRuntimeCommands(e.dispatcher)
	}
	e.runtime = runtimeRegions(profile)
	e.programming = programmingRegions()
	e.Reset()
	return e
}

// SetExitHandler installs the function called after DISABLE is executed
func (e *Engine) SetExitHandler(fn func()) {
	e.onExit = fn
}

// SetCalibrationHandler installs the function receiving every applied calibration
func (e *Engine) SetCalibrationHandler(fn func(Calibration)) {
	e.onCalibration = fn
}

// SetProgramModeHandler installs the function notified on programming mode changes
func (e *Engine) SetProgramModeHandler(fn func(bool)) {
	e.onProgramMode = fn
}

// Reset returns the engine to its power-on state
func (e *Engine) Reset() {
	state := disableInterrupts()
	e.regs.Clear()
	e.cursor = BusCursor{}
	e.mux.Clear()
	e.session.reset()
	e.dispatcher.pending.Clear()
	e.transform = false
	e.configMode = false
	e.fullReport = false
	e.overflow = false
	e.exitPending = false
	e.identityPos = 0
	e.cameraMode = 0
	e.stats = Stats{}
	e.programMode = e.profile.Bootloader
	if e.programMode {
		e.table = e.programming
	} else {
		e.table = e.runtime
	}
	e.loadFixedRegisters()
	restoreInterrupts(state)

	if e.profile.CalSize > 0 {
		e.loadCalibration()
	}
}

func (e *Engine) loadFixedRegisters() {
	p := &e.profile
	e.regs.WriteMulti(uint16(protocol.RegIdentity), p.Identity[:])
	e.regs.Write(uint16(protocol.RegCustomID), p.CustomID)
	e.regs.Write(uint16(protocol.RegFirmwareVersion), protocol.FirmwareVersion)
	if p.Calibration != nil {
		e.regs.WriteMulti(uint16(protocol.RegCalibration), p.Calibration)
	}
	if p.Neutral != nil {
		e.regs.WriteMulti(uint16(protocol.RegData), p.Neutral)
	}
}

// loadCalibration restores the custom block, falling back to defaults when
// the store is missing or empty
func (e *Engine) loadCalibration() {
	block := make([]byte, e.profile.CalSize)
	if e.store == nil || e.store.Restore(block) != nil {
		block = defaultCalibrationBlock(e.profile.CalSize)
	}
	state := disableInterrupts()
	e.regs.WriteMulti(uint16(e.profile.CalBase), block)
	restoreInterrupts(state)
	e.applyCalibration(block, protocol.CmdCalLoad)
}

func (e *Engine) applyCalibration(block []byte, code byte) {
	state := disableInterrupts()
	e.calibration = DecodeCalibration(block)
	changed := e.mux.EnableSecondary(e.calibration.EnableCamera)
	restoreInterrupts(state)
	if changed && e.peripheral != nil {
		if err := e.peripheral.Listen(e.Address(DevicePrimary), e.AddressMask()); err != nil {
			DebugPrintln("[BUS] relisten failed: " + err.Error())
		}
	}
	RecordEvent(EvtCalibration, 0, e.profile.CalBase, uint16(code))
	if e.onCalibration != nil {
		e.onCalibration(e.calibration)
	}
}

func (e *Engine) setTransform(on bool) {
	state := disableInterrupts()
	e.transform = on
	restoreInterrupts(state)
	var v uint16
	if on {
		v = 1
	}
	RecordEvent(EvtTransform, 0, 0, v)
}

// EnterProgramming switches the bus to the programming register map
func (e *Engine) EnterProgramming() {
	state := disableInterrupts()
	e.session.reset()
	e.dispatcher.pending.Clear()
	e.programMode = true
	e.transform = false
	e.identityPos = 0
	e.table = e.programming
	restoreInterrupts(state)

	RecordEvent(EvtProgramMode, 0, 0, 1)
	if e.onProgramMode != nil {
		e.onProgramMode(true)
	}
}

// ExitProgramming leaves programming mode and restarts the application
// registers. Bootloader builds stay in programming mode.
func (e *Engine) ExitProgramming() {
	if !e.programMode || e.profile.Bootloader {
		return
	}
	e.Reset()
	RecordEvent(EvtProgramMode, 0, 0, 0)
	if e.onProgramMode != nil {
		e.onProgramMode(false)
	}
}

// Tick runs deferred work: a queued flash job, the pending command and a
// requested exit from programming mode. It returns the first action error.
func (e *Engine) Tick() error {
	state := disableInterrupts()
	job, haveJob := e.session.takeJob()
	exit := e.exitPending
	e.exitPending = false
	restoreInterrupts(state)

	var firstErr error
	if haveJob {
		if err := e.runJob(&job); err != nil {
			e.fail(job.op, err)
			firstErr = err
		}
	}

	code, err := e.dispatcher.Execute(e)
	switch {
	case errors.Is(err, ErrUnknownCommand):
		DebugPrintln("[CMD] ignoring code " + hex8(code))
	case err != nil:
		e.fail(code, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if exit {
		if e.profile.Bootloader {
			// The boot image lets go of the bus before handing over
			if err := e.Detach(); err != nil && firstErr == nil {
				firstErr = err
			}
		} else {
			e.ExitProgramming()
		}
		if e.onExit != nil {
			e.onExit()
		}
	}
	return firstErr
}

func (e *Engine) runJob(job *flashJob) error {
	target := job.addr
	if job.op == protocol.CmdErase {
		target = protocol.RowStart(job.addr)
	}
	if target < e.profile.ProtectedBoundary {
		e.stats.Rejected++
		RecordEvent(EvtFlashReject, 0, job.op, job.addr)
		return nil
	}

	switch job.op {
	case protocol.CmdErase:
		if err := e.flash.Erase(job.addr); err != nil {
			return err
		}
		e.stats.FlashErases++
		RecordEvent(EvtFlashErase, 0, 0, target)

	case protocol.CmdWrite:
		n, err := e.flash.Write(job.addr, job.buf[:job.words])
		if err != nil {
			return err
		}
		if n > 0 {
			e.stats.FlashWrites++
			RecordEvent(EvtFlashWrite, 0, uint8(n), job.addr)
		}
	}
	return nil
}

// readProgram serves a READ session. Words below the protected boundary
// and words the driver cannot read come back as zero.
func (e *Engine) readProgram(wordAddr uint16, buf []uint16) {
	if wordAddr >= e.profile.ProtectedBoundary && e.flash.Read(wordAddr, buf) == nil {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
}

func (e *Engine) fail(code byte, err error) {
	e.stats.Failures++
	RecordEvent(EvtActionFailed, 0, 0, uint16(code))
	DebugPrintln("[CMD] " + hex8(code) + " failed: " + err.Error())
}

// UpdateReport publishes a new input report at RegData
func (e *Engine) UpdateReport(report []byte) {
	state := disableInterrupts()
	e.regs.WriteMulti(uint16(protocol.RegData), report)
	restoreInterrupts(state)
}

// UpdateRawAxes mirrors unscaled axes for the configuration tool. It has no
// effect outside configuration mode.
func (e *Engine) UpdateRawAxes(raw []byte) {
	if !e.configMode {
		return
	}
	if len(raw) > protocol.RawAxesSize {
		raw = raw[:protocol.RawAxesSize]
	}
	state := disableInterrupts()
	e.regs.WriteMulti(uint16(protocol.RegRawLX), raw)
	restoreInterrupts(state)
}

// UpdateCamera publishes blob data on the secondary device
func (e *Engine) UpdateCamera(data []byte) {
	if !e.profile.DualDevice() {
		return
	}
	state := disableInterrupts()
	e.regs.WriteMulti(uint16(DeviceSecondary)<<8|uint16(protocol.CamRegData), data)
	restoreInterrupts(state)
}

func (e *Engine) Profile() Profile           { return e.profile }
func (e *Engine) Registers() *RegisterFile   { return e.regs }
func (e *Engine) Dispatcher() *Dispatcher    { return e.dispatcher }
func (e *Engine) Session() *Session          { return &e.session }
func (e *Engine) Cursor() BusCursor          { return e.cursor }
func (e *Engine) Calibration() Calibration   { return e.calibration }
func (e *Engine) Programming() bool          { return e.programMode }
func (e *Engine) TransformEnabled() bool     { return e.transform }
func (e *Engine) ConfigMode() bool           { return e.configMode }
func (e *Engine) FullReport() bool           { return e.fullReport }
func (e *Engine) CameraMode() uint8          { return e.cameraMode }
func (e *Engine) Stats() Stats               { return e.stats }
func (e *Engine) Address(device uint8) uint8 { return e.mux.Address(device) }
func (e *Engine) AddressMask() uint8         { return e.mux.Mask() }
