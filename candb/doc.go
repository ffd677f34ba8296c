// Package candb parses, emits, and encodes/decodes CAN database (DBC)
// files: the textual description of the messages and signals exchanged on
// a vehicle bus, as used by Vector CANdb++ and compatible tooling.
//
// A Database enumerates Nodes (ECUs), Messages (frames identified by an
// arbitration id) and, per message, Signals (bit-packed scalar fields
// within the frame's 0-8 byte payload). Load parses the textual grammar
// into a Database; Database.AsDBC renders it back to the same textual
// form. EncodeMessage/DecodeMessage pack a signal-name -> value mapping
// into, or out of, a frame's raw payload bytes.
//
// The package does no I/O beyond what callers hand it (a file path or an
// io.Reader to parse, a []byte to decode) and keeps no global state: a *Database is
// immutable after construction and safe for concurrent encode/decode
// calls, same as reading any other in-memory value concurrently.
package candb
