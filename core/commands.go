package core

import "classicplus/protocol"

// registerRuntimeCommands installs the actions and register hooks of an
// application build
func registerRuntimeCommands(d *Dispatcher) {
	d.Register(protocol.CmdProgramEnable, "program_enable", handleProgramEnable)
	d.Register(protocol.CmdConfigEnable, "config_enable", handleConfigEnable)
	d.Register(protocol.CmdConfigDisable, "config_disable", handleConfigDisable)
	d.Register(protocol.CmdCalLoad, "cal_load", handleCalLoad)
	d.Register(protocol.CmdCalStore, "cal_store", handleCalStore)
	d.Register(protocol.CmdCalDefault, "cal_default", handleCalDefault)
	d.Register(protocol.CmdEncryptionEnable, "encryption_enable", handleEncryptionEnable)

	d.Watch(DevicePrimary, protocol.RegCommand, "command", hookCommand)
	d.Watch(DevicePrimary, protocol.RegKey+protocol.KeySize-1, "key_complete", hookKeyComplete)
	d.Watch(DevicePrimary, protocol.RegSetup2, "transform_disable", hookTransformDisable)
	d.Watch(DevicePrimary, protocol.RegReportMode, "report_mode", hookReportMode)
	d.Watch(DeviceSecondary, protocol.CamRegMode, "camera_mode", hookCameraMode)
}

func hookCommand(e *Engine, b byte) {
	e.dispatcher.Post(b)
}

// The last key byte completes the key; derivation runs in the main loop
func hookKeyComplete(e *Engine, b byte) {
	e.dispatcher.Post(protocol.CmdEncryptionEnable)
}

func hookTransformDisable(e *Engine, b byte) {
	if b == 0 {
		e.setTransform(false)
	}
}

func hookReportMode(e *Engine, b byte) {
	if b != protocol.FullReportMode {
		return
	}
	if !e.profile.FullReport {
		// Report the mode as unsupported
		e.regs.Write(uint16(protocol.RegReportMode), 0)
		return
	}
	e.fullReport = true
	if len(e.profile.FullNeutral) > 0 {
		e.regs.WriteMulti(uint16(protocol.RegData), e.profile.FullNeutral)
	}
}

func hookCameraMode(e *Engine, b byte) {
	e.cameraMode = b
}

func handleProgramEnable(e *Engine) error {
	e.EnterProgramming()
	return nil
}

func handleConfigEnable(e *Engine) error {
	state := disableInterrupts()
	e.configMode = true
	restoreInterrupts(state)
	return nil
}

func handleConfigDisable(e *Engine) error {
	state := disableInterrupts()
	e.configMode = false
	restoreInterrupts(state)
	return nil
}

// handleCalLoad copies the stored block into the register file and reapplies it
func handleCalLoad(e *Engine) error {
	if e.store == nil {
		return ErrNoStore
	}
	block := make([]byte, e.profile.CalSize)
	if err := e.store.Restore(block); err != nil {
		return err
	}
	state := disableInterrupts()
	e.regs.WriteMulti(uint16(e.profile.CalBase), block)
	restoreInterrupts(state)
	e.applyCalibration(block, protocol.CmdCalLoad)
	return nil
}

// handleCalStore persists the block the host wrote into the register file
func handleCalStore(e *Engine) error {
	if e.store == nil {
		return ErrNoStore
	}
	block := make([]byte, e.profile.CalSize)
	state := disableInterrupts()
	e.regs.ReadMulti(uint16(e.profile.CalBase), block)
	restoreInterrupts(state)
	if err := e.store.Persist(block); err != nil {
		return err
	}
	e.applyCalibration(block, protocol.CmdCalStore)
	return nil
}

// handleCalDefault persists the default block. The register file keeps its
// contents until the next CAL-LOAD.
func handleCalDefault(e *Engine) error {
	if e.store == nil {
		return ErrNoStore
	}
	block := defaultCalibrationBlock(e.profile.CalSize)
	if err := e.store.Persist(block); err != nil {
		return err
	}
	e.applyCalibration(block, protocol.CmdCalDefault)
	return nil
}

func handleEncryptionEnable(e *Engine) error {
	if e.cipher == nil {
		return ErrNoCipher
	}
	var key [protocol.KeySize]byte
	state := disableInterrupts()
	e.regs.ReadMulti(uint16(protocol.RegKey), key[:])
	restoreInterrupts(state)
	if !e.cipher.DeriveKey(key) {
		return ErrKeyRejected
	}
	e.setTransform(true)
	return nil
}
