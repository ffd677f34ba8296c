package candb

import "fmt"

// multiplexerSignal returns the signal marked M (the multiplexer
// selector) in this message, or nil if the message is not multiplexed.
func (m *Message) multiplexerSignal() *Signal {
	for _, s := range m.Signals {
		if s.IsMultiplexer {
			return s
		}
	}
	return nil
}

// IsMultiplexed reports whether this message carries a multiplexer
// selector signal.
func (m *Message) IsMultiplexed() bool {
	return m.multiplexerSignal() != nil
}

// MultiplexerSignalName returns the name of the multiplexer selector
// signal and true, or "" and false if the message is not multiplexed.
func (m *Message) MultiplexerSignalName() (string, bool) {
	s := m.multiplexerSignal()
	if s == nil {
		return "", false
	}
	return s.Name, true
}

// SignalsByMultiplexerID returns the signals that are only active when
// the multiplexer selector equals id.
func (m *Message) SignalsByMultiplexerID(id int) []*Signal {
	var out []*Signal
	for _, s := range m.Signals {
		if s.MultiplexerID != nil && *s.MultiplexerID == id {
			out = append(out, s)
		}
	}
	return out
}

// activeSignals returns the signals present in a frame instance given
// the multiplexer selector's value: unconditional signals (including
// the selector itself) plus those whose MultiplexerID matches. For a
// non-multiplexed message every signal is returned.
func (m *Message) activeSignals(selector int64, haveSelector bool) []*Signal {
	muxSig := m.multiplexerSignal()
	if muxSig == nil {
		return m.Signals
	}
	out := make([]*Signal, 0, len(m.Signals))
	for _, s := range m.Signals {
		switch {
		case s == muxSig:
			out = append(out, s)
		case s.MultiplexerID == nil:
			out = append(out, s)
		case haveSelector && int64(*s.MultiplexerID) == selector:
			out = append(out, s)
		}
	}
	return out
}

// rawForValue resolves a Value to the raw bit pattern that should be
// packed for sig: a Choices lookup for a Label, otherwise the scaled
// and rounded encoding of the numeric value.
func rawForValue(sig *Signal, v Value) (uint64, error) {
	if v.IsLabel() {
		raw, ok := sig.Choices.RawForLabel(v.LabelString())
		if !ok {
			return 0, &UnknownChoiceError{Signal: sig.Name, Label: v.LabelString()}
		}
		return uint64(raw) & maskToLength(sig.Length), nil
	}
	return encodeSignalRaw(sig, v.Float64()), nil
}

// Encode packs values, keyed by signal name, into a new payload of
// Message.Length bytes. Every signal in the active set for the given
// values (all signals, for a non-multiplexed message) must have an
// entry in values or Encode returns a *MissingSignalError.
func (m *Message) Encode(values map[string]Value) ([]byte, error) {
	payload := make([]byte, m.Length)

	muxSig := m.multiplexerSignal()
	var selector int64
	haveSelector := false
	if muxSig != nil {
		v, ok := values[muxSig.Name]
		if !ok {
			return nil, &MissingSignalError{Signal: muxSig.Name}
		}
		raw, err := rawForValue(muxSig, v)
		if err != nil {
			return nil, err
		}
		packBits(payload, muxSig.StartBit, muxSig.Length, muxSig.ByteOrder, raw)
		if muxSig.IsSigned {
			selector = signExtend(raw, muxSig.Length)
		} else {
			selector = int64(raw)
		}
		haveSelector = true
	}

	for _, s := range m.activeSignals(selector, haveSelector) {
		if s == muxSig {
			continue
		}
		v, ok := values[s.Name]
		if !ok {
			return nil, &MissingSignalError{Signal: s.Name}
		}
		raw, err := rawForValue(s, v)
		if err != nil {
			return nil, err
		}
		packBits(payload, s.StartBit, s.Length, s.ByteOrder, raw)
	}

	return payload, nil
}

// Decode unpacks a payload into a signal-name -> Value mapping,
// resolving the active signal set from the multiplexer selector (if
// any) found in the payload itself.
func (m *Message) Decode(payload []byte) (map[string]Value, error) {
	if len(payload) < m.Length {
		return nil, &TruncatedError{Expected: m.Length, Got: len(payload)}
	}

	result := make(map[string]Value, len(m.Signals))

	muxSig := m.multiplexerSignal()
	var selector int64
	haveSelector := false
	if muxSig != nil {
		raw := unpackBits(payload, muxSig.StartBit, muxSig.Length, muxSig.ByteOrder)
		if muxSig.IsSigned {
			selector = signExtend(raw, muxSig.Length)
		} else {
			selector = int64(raw)
		}
		haveSelector = true
		result[muxSig.Name] = decodeSignalValue(muxSig, raw)
	}

	for _, s := range m.activeSignals(selector, haveSelector) {
		if s == muxSig {
			continue
		}
		raw := unpackBits(payload, s.StartBit, s.Length, s.ByteOrder)
		result[s.Name] = decodeSignalValue(s, raw)
	}

	return result, nil
}

func (m *Message) String() string {
	return fmt.Sprintf("%s(frame_id=0x%x, length=%d, signals=%d)", m.Name, emitFrameID(m), m.Length, len(m.Signals))
}

func (s *Signal) String() string {
	return fmt.Sprintf("%s(start=%d, length=%d, byte_order=%s, signed=%t)", s.Name, s.StartBit, s.Length, s.ByteOrder, s.IsSigned)
}
