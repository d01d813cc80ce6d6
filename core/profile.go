package core

import "classicplus/protocol"

// Profile describes one firmware build: which bus identities the engine
// answers to and what it serves from its fixed registers.
type Profile struct {
	Name string

	// 7-bit bus addresses. Secondary is zero on single-device builds.
	Primary   uint8
	Secondary uint8

	Identity    [protocol.IdentitySize]byte
	CustomID    byte
	Calibration []byte // Nintendo calibration block, nil to leave the range blank
	Neutral     []byte // Report served before the first input update
	FullNeutral []byte // Neutral report once full reporting mode is selected

	// Custom calibration block persisted to durable storage
	CalBase uint8
	CalSize int

	// Lowest program word the application image occupies; ERASE and WRITE
	// below it are dropped.
	ProtectedBoundary uint16

	// Bootloader builds start in programming mode and hand control to the
	// exit handler on DISABLE.
	Bootloader bool

	// FullReport allows RegReportMode to select 8-byte reports
	FullReport bool
}

// Default boundary between the boot image and the application image, in words
const DefaultProtectedBoundary = 0x700

// DualDevice reports whether the profile answers to two bus addresses
func (p Profile) DualDevice() bool {
	return p.Secondary != 0
}

// Capacity returns the register file size the profile needs
func (p Profile) Capacity() int {
	if p.DualDevice() {
		return 512
	}
	return 256
}

// ClassicProfile is the application image impersonating a Classic Controller
func ClassicProfile() Profile {
	return Profile{
		Name:              "classic",
		Primary:           protocol.ExpansionAddress,
		Identity:          protocol.ClassicIdentity,
		CustomID:          protocol.CustomIDApplication,
		Calibration:       protocol.ClassicCalibration[:],
		Neutral:           protocol.ClassicNeutralReport,
		FullNeutral:       protocol.ClassicFullNeutralReport,
		CalBase:           protocol.RegLXMin,
		CalSize:           protocol.CustomCalibrationSize,
		ProtectedBoundary: DefaultProtectedBoundary,
		FullReport:        true,
	}
}

// NunchukProfile is the application image impersonating a Nunchuk, with the
// IR camera answering at the second address.
func NunchukProfile() Profile {
	return Profile{
		Name:              "nunchuk",
		Primary:           protocol.ExpansionAddress,
		Secondary:         protocol.CameraAddress,
		Identity:          protocol.NunchukIdentity,
		CustomID:          protocol.CustomIDApplication,
		Calibration:       protocol.NunchukCalibration[:],
		Neutral:           protocol.NunchukNeutralReport,
		CalBase:           protocol.RegLXMin,
		CalSize:           protocol.CustomCalibrationSize,
		ProtectedBoundary: DefaultProtectedBoundary,
	}
}

// BootloaderProfile is the boot image: programming protocol only
func BootloaderProfile() Profile {
	return Profile{
		Name:              "bootloader",
		Primary:           protocol.ExpansionAddress,
		Identity:          protocol.ClassicIdentity,
		CustomID:          protocol.CustomIDBootloader,
		ProtectedBoundary: DefaultProtectedBoundary,
		Bootloader:        true,
	}
}
