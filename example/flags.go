// Package example declares bitfields in comments. The accessors in
// flags_bitfield.go are generated from them by bitfieldgen.
package example

//go:generate go run ../cmd/bitfieldgen flags.go

// Level is an interrupt priority.
type Level uint8

// @bitfield
// pub struct Masked: u8 {
//     pub f1: u8 @ 0..2,
//     pub f2: u8 @ 6..8,
// }
//
// pub struct Nibble: u8 {
//     pub f1: u8 @ 0..4,
// }
//
// pub struct Wide: u16 {
//     pub f1: u8 @ 0..4,
//     pub f2: u8 @ 12..16,
// }
//
// pub struct Piped: u8 {
//     pub f1: u8 @ 0..2 => |v| 2 * v,
//     pub f2: u8 @ 2..4 => |v| [0xAA, 0xBB, 0xCC, 0xDD][v],
// }
//
// pub struct Overlapped: u8 {
//     pub f1: u8 @ 0..4,
//     pub f2: u8 @ 4..8,
//     pub f3: u8 @ 0..8,
// }

// Interrupt control register.
//
// @bitfield overlap=deny
// pub struct Control: u32 {
//     // Interrupts are enabled.
//     pub enabled: bool @ 0..=0,
//     pub priority: Level @ 1..4,
//     pub mode: u8 @ 4..6 => modeName,
//     pub vector: u16 @ 8..24,
//     pub armed: bool @ 31..,
// }

var modeNames = [...]string{"off", "edge", "level", "both"}

func modeName(m uint8) string {
	return modeNames[m&3]
}
