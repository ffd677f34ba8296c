package candb

import (
	"io"
	"os"
)

// Load parses a DBC file read from r into a new Database.
func Load(r io.Reader) (*Database, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseDBC(src)
}

// LoadFile parses the DBC file at path into a new Database.
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// AddDBCFile parses the DBC file at path and merges its nodes and
// messages into db, returning a *DuplicateError if any node or message
// name collides with one already present.
func (db *Database) AddDBCFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return db.AddDBC(f)
}

// AddDBC parses a DBC file read from r and merges its nodes and
// messages into db, returning a *DuplicateError if any node or message
// name collides with one already present.
func (db *Database) AddDBC(r io.Reader) error {
	other, err := Load(r)
	if err != nil {
		return err
	}
	if db.nodesByName == nil {
		db.nodesByName = make(map[string]*Node)
	}
	if db.messagesByName == nil {
		db.messagesByName = make(map[string]*Message)
	}
	if db.messagesByID == nil {
		db.messagesByID = make(map[uint32]*Message)
	}
	if db.Version == "" {
		db.Version = other.Version
	}
	for _, n := range other.Nodes {
		if err := db.AddNode(n); err != nil {
			return err
		}
	}
	for _, m := range other.Messages {
		if err := db.AddMessage(m); err != nil {
			return err
		}
	}
	db.verbatim = append(db.verbatim, other.verbatim...)
	db.commentOrder = append(db.commentOrder, other.commentOrder...)
	return nil
}

// AddNode appends a node to db, returning a *DuplicateError if its
// name already exists.
func (db *Database) AddNode(n *Node) error {
	if db.nodesByName == nil {
		db.nodesByName = make(map[string]*Node)
	}
	if _, exists := db.nodesByName[n.Name]; exists {
		return &DuplicateError{Name: n.Name}
	}
	db.Nodes = append(db.Nodes, n)
	db.nodesByName[n.Name] = n
	return nil
}

// AddMessage appends a message to db, returning a *DuplicateError if
// its name or frame id already exists.
func (db *Database) AddMessage(m *Message) error {
	if db.messagesByName == nil {
		db.messagesByName = make(map[string]*Message)
		db.messagesByID = make(map[uint32]*Message)
	}
	if _, exists := db.messagesByName[m.Name]; exists {
		return &DuplicateError{Name: m.Name}
	}
	if _, exists := db.messagesByID[m.FrameID]; exists {
		return &DuplicateError{Name: m.Name}
	}
	db.Messages = append(db.Messages, m)
	db.messagesByName[m.Name] = m
	db.messagesByID[m.FrameID] = m
	return nil
}

// MessageByFrameID looks up a message by its arbitration id (extended
// bit already stripped, as stored in Message.FrameID).
func (db *Database) MessageByFrameID(frameID uint32) (*Message, error) {
	m, ok := db.messagesByID[frameID]
	if !ok {
		return nil, &NotFoundError{Key: frameID}
	}
	return m, nil
}

// MessageByName looks up a message by its declared name.
func (db *Database) MessageByName(name string) (*Message, error) {
	m, ok := db.messagesByName[name]
	if !ok {
		return nil, &NotFoundError{Key: name}
	}
	return m, nil
}

// EncodeMessage packs values, keyed by signal name, into a payload for
// the named message. It is a thin wrapper over Message.Encode.
func (db *Database) EncodeMessage(name string, values map[string]Value) ([]byte, error) {
	m, err := db.MessageByName(name)
	if err != nil {
		return nil, err
	}
	return m.Encode(values)
}

// DecodeMessage unpacks a payload for the message with the given frame
// id into a signal-name -> Value mapping. It is a thin wrapper over
// Message.Decode.
func (db *Database) DecodeMessage(frameID uint32, payload []byte) (map[string]Value, error) {
	m, err := db.MessageByFrameID(frameID)
	if err != nil {
		return nil, err
	}
	return m.Decode(payload)
}
