package candb

import "math"

// maskToLength returns a mask with the low `length` bits set (length in
// 1..64).
func maskToLength(length int) uint64 {
	if length >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(length)) - 1
}

// signExtend reinterprets the low `length` bits of raw as a two's
// complement signed integer.
func signExtend(raw uint64, length int) int64 {
	if length >= 64 {
		return int64(raw)
	}
	shift := uint(64 - length)
	return int64(raw<<shift) >> shift
}

// encodeSignalRaw converts a physical value into the raw bit pattern a
// signal's Length bits should hold: invert scale/offset, round to the
// nearest integer (ties to even), and mask to the declared width. The
// caller is responsible for resolving enumerated labels to a raw value
// before calling this.
func encodeSignalRaw(sig *Signal, physical float64) uint64 {
	scaled := physical
	if sig.Scale != 0 {
		scaled = (physical - sig.Offset) / sig.Scale
	} else {
		scaled = physical - sig.Offset
	}
	rounded := math.RoundToEven(scaled)
	raw := uint64(int64(rounded)) & maskToLength(sig.Length)
	return raw
}

// CheckRange reports whether physical, once scaled to a raw integer for
// sig, fits in the signal's declared bit width. EncodeMessage never
// calls this itself: out-of-range raw values are masked and encoded
// silently, matching established DBC tooling. Callers that want strict
// validation call CheckRange before Encode/EncodeMessage and surface an
// *OutOfRangeError themselves.
func CheckRange(sig *Signal, physical float64) error {
	scaled := physical - sig.Offset
	if sig.Scale != 0 {
		scaled /= sig.Scale
	}
	rounded := math.RoundToEven(scaled)

	width := maskToLength(sig.Length)
	if sig.IsSigned {
		lo := -int64(width>>1) - 1
		hi := int64(width >> 1)
		if rounded < float64(lo) || rounded > float64(hi) {
			return &OutOfRangeError{Signal: sig.Name, Value: physical}
		}
		return nil
	}
	if rounded < 0 || rounded > float64(width) {
		return &OutOfRangeError{Signal: sig.Name, Value: physical}
	}
	return nil
}

// decodeSignalValue converts a signal's raw bit pattern into a Value:
// a Label if the raw value matches an entry in the signal's Choices,
// otherwise a Float (or an Int, when the signal has no scaling applied
// and is not fractional) carrying the physical value.
func decodeSignalValue(sig *Signal, raw uint64) Value {
	var signedRaw int64
	if sig.IsSigned {
		signedRaw = signExtend(raw, sig.Length)
	} else {
		signedRaw = int64(raw)
	}

	if sig.Choices != nil {
		if label, ok := sig.Choices.LabelForRaw(signedRaw); ok {
			return Label(label)
		}
	}

	if sig.Scale == 1 && sig.Offset == 0 {
		return Int(signedRaw)
	}
	physical := float64(signedRaw)*sig.Scale + sig.Offset
	return Float(physical)
}
