// Package protocol defines the bus-visible surface of the Classic+ expansion
// controller: device addresses, the register map, command codes, identity
// blocks and the programming-session framing shared by firmware and host.
package protocol

// Version represents the Classic+ firmware version
const Version = "0.3.0"

// FirmwareVersion is the byte served from RegFirmwareVersion
const FirmwareVersion = 0x03

// 7-bit bus addresses
const (
	ExpansionAddress = 0x52 // Classic Controller / Nunchuk
	CameraAddress    = 0x58 // IR camera (second device)
)

// Register map of the expansion device
const (
	RegData            = 0x00 // Report data (0x00 to 0x07)
	RegCalibration     = 0x20 // Nintendo calibration block (0x20 to 0x3F)
	RegKey             = 0x40 // Transform key block (0x40 to 0x4F)
	RegLXMin           = 0x60 // Custom calibration block start (0x60 to 0x6D)
	RegLYMin           = 0x61
	RegLXMax           = 0x62
	RegLYMax           = 0x63
	RegRXMin           = 0x64
	RegRYMin           = 0x65
	RegRXMax           = 0x66
	RegRYMax           = 0x67
	RegDeadzoneL       = 0x68
	RegDeadzoneR       = 0x69
	RegInvert1         = 0x6A // 0 | 0 | RT | LT | RY | RX | LY | LX
	RegInvert2         = 0x6B // 0 | 0 | 0 | 0 | 0 | AZ | AY | AX
	RegConfig          = 0x6C // 0 | 0 | 0 | 0 | camera | triggers | right stick | left stick
	RegCameraSens      = 0x6D
	RegCommand         = 0x6F // Command reception
	RegRawLX           = 0x70 // Raw axis mirror (0x70 to 0x75)
	RegFirmwareVersion = 0x81
	RegCustomID        = 0x82
	RegProgramData     = 0xBF // Programming payload channel
	RegSetup1          = 0xF0
	RegIdentity        = 0xFA // Device identity (0xFA to 0xFF)
	RegSetup2          = 0xFB
	RegReportMode      = RegIdentity + 4
)

// Register map of the camera device
const (
	CamRegSetup1 = 0x00 // Sensitivity block (0x00 to 0x08)
	CamRegSetup2 = 0x1A // Sensitivity block (0x1A to 0x1B)
	CamRegEnable = 0x30
	CamRegMode   = 0x33
	CamRegData   = 0x37 // Blob data (0x37 to 0x5B)
)

// Camera reporting modes
const (
	CamModeBasic    = 1
	CamModeExtended = 3
	CamModeFull     = 5
)

// Block sizes
const (
	KeySize               = 16
	IdentitySize          = 6
	CalibrationBlockSize  = 32
	CustomCalibrationSize = 14
	RawAxesSize           = 6
)

// Programming protocol command codes
const (
	CmdErase   = 0x11
	CmdWrite   = 0x21
	CmdRead    = 0x31
	CmdDisable = 0x2A
)

// Runtime command codes
const (
	CmdProgramEnable    = 0x1A
	CmdCalLoad          = 0x1B
	CmdCalStore         = 0x1C
	CmdCalDefault       = 0x1D
	CmdConfigEnable     = 0x1E
	CmdConfigDisable    = 0x2E
	CmdEncryptionEnable = 0x1F
)

// Custom IDs served from RegCustomID
const (
	CustomIDApplication = 0xCC
	CustomIDBootloader  = 0xBB
)

// FullReportMode is the value written to RegReportMode to request 8-byte reports
const FullReportMode = 0x03

// Identity blocks recognized by the Wii Remote
var (
	ClassicIdentity = [IdentitySize]byte{0x00, 0x00, 0xA4, 0x20, 0x01, 0x01}
	NunchukIdentity = [IdentitySize]byte{0x00, 0x00, 0xA4, 0x20, 0x00, 0x00}
)

// ClassicCalibration is the Nintendo calibration block served by a Classic Controller
var ClassicCalibration = [CalibrationBlockSize]byte{
	0xE0, 0x20, 0x80, // Left stick X: max, min, center
	0xE0, 0x20, 0x80, // Left stick Y
	0xE0, 0x20, 0x80, // Right stick X
	0xE0, 0x20, 0x80, // Right stick Y
	0x20, 0x20, // Trigger minimums
	0x95, 0xEA, // Checksums

	0xE0, 0x20, 0x80,
	0xE0, 0x20, 0x80,
	0xE0, 0x20, 0x80,
	0xE0, 0x20, 0x80,
	0x20, 0x20,
	0x95, 0xEA,
}

// NunchukCalibration is the Nintendo calibration block served by a Nunchuk
var NunchukCalibration = [CalibrationBlockSize]byte{
	0x80, 0x80, 0x80, // Accel X/Y/Z [9:2] at 0g
	0x00,             // Accel low bits at 0g
	0xB4, 0xB4, 0xB4, // Accel X/Y/Z [9:2] at 1g
	0x00,             // Accel low bits at 1g
	0xE0, 0x20, 0x80, // Stick X: max, min, center
	0xE0, 0x20, 0x80, // Stick Y
	0xF1, 0x46, // Checksums

	0x80, 0x80, 0x80,
	0x00,
	0xB4, 0xB4, 0xB4,
	0x00,
	0xE0, 0x20, 0x80,
	0xE0, 0x20, 0x80,
	0xF1, 0x46,
}

// Neutral reports: all buttons released, all axes centered
var (
	ClassicNeutralReport     = []byte{0x5F, 0xDF, 0x8F, 0x00, 0xFF, 0xFF}
	ClassicFullNeutralReport = []byte{0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0xFF, 0xFF}
	NunchukNeutralReport     = []byte{0x7F, 0x7F, 0x7F, 0x7F, 0xB4, 0x3F}
)
