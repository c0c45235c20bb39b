package testdata

// Level is a severity stored in three bits.
type Level uint8

// Status register of the device.
//
// @bitfield overlap=deny
// pub struct Status: u16 {
//     pub ready: bool @ 0..=0,
//     pub level: u8 @ 1..4 => levelName -> string,
//     count: u8 @ 8..,
// }
type statusDoc struct{}

// @bitfield
// struct Pair: u8 {
//     lo: u8 @ ..4,
//     hi: u8 @ 4.. => |v| 2 * v,
// }
//
// struct Mask: u8 {
//     f: u8 @ 0..=1,
// }

// No annotation - should be skipped
// struct Ignored: u8 { f: u8 @ 0..1 }

func levelName(l uint8) string {
	return [...]string{"debug", "info", "warn", "error", "fatal", "?", "?", "?"}[l&7]
}

func (statusDoc) method(x uint8) uint8 { return x }

func twoArgs(a, b uint8) uint8 { return a + b }
