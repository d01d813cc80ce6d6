package sim

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"classicplus/core"
	"classicplus/protocol"
)

func TestBusNacksWithoutEngine(t *testing.T) {
	b := New(nil)
	err := b.Tx(protocol.ExpansionAddress, []byte{0x00}, nil)
	assert.True(t, errors.Is(err, ErrNack))
	assert.Error(t, b.Tx(0x80, nil, nil))
}

func TestBusReadsRegisters(t *testing.T) {
	b := New(nil)
	e := core.NewEngine(core.ClassicProfile(), core.Hardware{})
	assert.NoError(t, b.Attach(e))

	dev := i2c.Dev{Bus: b, Addr: protocol.ExpansionAddress}
	id := make([]byte, protocol.IdentitySize)
	assert.NoError(t, dev.Tx([]byte{protocol.RegIdentity}, id))
	assert.Equal(t, protocol.ClassicIdentity[:], id)

	report := make([]byte, len(protocol.ClassicNeutralReport))
	assert.NoError(t, dev.Tx([]byte{protocol.RegData}, report))
	assert.Equal(t, protocol.ClassicNeutralReport, report)

	assert.True(t, errors.Is(b.Tx(protocol.CameraAddress, nil, make([]byte, 1)), ErrNack))
}

func TestBusDualDevice(t *testing.T) {
	block := append([]byte(nil), core.DefaultCalibration[:]...)
	block[12] |= 0x08 // Camera enabled
	b := New(nil)
	e := core.NewEngine(core.NunchukProfile(), core.Hardware{Store: core.NewMemoryStore(block)})
	assert.NoError(t, b.Attach(e))

	cam := i2c.Dev{Bus: b, Addr: protocol.CameraAddress}
	assert.NoError(t, cam.Tx([]byte{protocol.CamRegMode, protocol.CamModeExtended}, nil))
	assert.Equal(t, uint8(protocol.CamModeExtended), e.CameraMode())
}

func TestBusCameraDisabled(t *testing.T) {
	b := New(nil)
	e := core.NewEngine(core.NunchukProfile(), core.Hardware{})
	assert.NoError(t, b.Attach(e))

	err := b.Tx(protocol.CameraAddress, []byte{protocol.CamRegMode, protocol.CamModeExtended}, nil)
	assert.True(t, errors.Is(err, ErrNack))
	assert.Equal(t, uint8(0), e.CameraMode())
}

func TestBusSpeed(t *testing.T) {
	b := New(nil)
	assert.NoError(t, b.SetSpeed(100*physic.KiloHertz))
	assert.Error(t, b.SetSpeed(0))
	assert.Equal(t, "sim", b.String())
}

func TestDeviceHandover(t *testing.T) {
	d, err := NewDevice(core.ClassicProfile(), false, nil)
	assert.NoError(t, err)
	assert.True(t, d.Running() == d.App)

	dev := i2c.Dev{Bus: d.Bus, Addr: protocol.ExpansionAddress}
	assert.NoError(t, dev.Tx([]byte{protocol.RegCommand, protocol.CmdProgramEnable}, nil))
	assert.True(t, d.Running() == d.Boot)
	assert.True(t, d.Boot.Programming())

	cid := make([]byte, 1)
	assert.NoError(t, dev.Tx([]byte{protocol.RegCustomID}, cid))
	assert.Equal(t, byte(protocol.CustomIDBootloader), cid[0])

	assert.NoError(t, dev.Tx([]byte{protocol.RegCommand, protocol.CmdDisable}, nil))
	assert.True(t, d.Running() == d.App)
	assert.NoError(t, dev.Tx([]byte{protocol.RegCustomID}, cid))
	assert.Equal(t, byte(protocol.CustomIDApplication), cid[0])
}

func TestDeviceTickError(t *testing.T) {
	b := New(nil)
	e := core.NewEngine(core.ClassicProfile(), core.Hardware{})
	assert.NoError(t, b.Attach(e))

	dev := i2c.Dev{Bus: b, Addr: protocol.ExpansionAddress}
	assert.NoError(t, dev.Tx([]byte{protocol.RegCommand, protocol.CmdCalStore}, nil))
	assert.True(t, errors.Is(b.TickError(), core.ErrNoStore))
	assert.Nil(t, b.TickError())
}
