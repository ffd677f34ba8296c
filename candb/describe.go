package candb

import "gopkg.in/yaml.v3"

// describeSignal is the --describe YAML shape for one signal.
type describeSignal struct {
	Name      string `yaml:"name"`
	StartBit  int    `yaml:"start_bit"`
	Length    int    `yaml:"length"`
	ByteOrder string `yaml:"byte_order"`
	Signed    bool   `yaml:"signed"`
	Scale     float64 `yaml:"scale"`
	Offset    float64 `yaml:"offset"`
	Unit      string  `yaml:"unit,omitempty"`
	Choices   int     `yaml:"choices,omitempty"`
}

// describeMessage is the --describe YAML shape for one message.
type describeMessage struct {
	Name       string            `yaml:"name"`
	FrameID    string            `yaml:"frame_id"`
	Extended   bool              `yaml:"extended"`
	Length     int               `yaml:"length"`
	Senders    []string          `yaml:"senders,omitempty"`
	Multiplexed bool             `yaml:"multiplexed,omitempty"`
	Signals    []describeSignal  `yaml:"signals"`
}

// describeDatabase is the --describe YAML document for a whole
// Database: a compact summary meant for a human skimming stderr, not a
// format this package reads back.
type describeDatabase struct {
	Version  string            `yaml:"version"`
	Nodes    []string          `yaml:"nodes"`
	Messages []describeMessage `yaml:"messages"`
}

// Describe renders a YAML summary of db suitable for the --describe
// CLI flag: every node and message, with each signal's layout, but not
// the exact DBC record text (use AsDBC for that).
func (db *Database) Describe() (string, error) {
	doc := describeDatabase{Version: db.Version}
	for _, n := range db.Nodes {
		doc.Nodes = append(doc.Nodes, n.Name)
	}
	for _, m := range db.Messages {
		dm := describeMessage{
			Name:        m.Name,
			FrameID:     formatHexID(emitFrameID(m)),
			Extended:    m.IsExtended,
			Length:      m.Length,
			Senders:     m.Nodes,
			Multiplexed: m.IsMultiplexed(),
		}
		for _, s := range m.Signals {
			ds := describeSignal{
				Name:      s.Name,
				StartBit:  s.StartBit,
				Length:    s.Length,
				ByteOrder: s.ByteOrder.String(),
				Signed:    s.IsSigned,
				Scale:     s.Scale,
				Offset:    s.Offset,
				Unit:      s.Unit,
				Choices:   s.Choices.Len(),
			}
			dm.Signals = append(dm.Signals, ds)
		}
		doc.Messages = append(doc.Messages, dm)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func formatHexID(id uint32) string {
	const hexDigits = "0123456789abcdef"
	if id == 0 {
		return "0x0"
	}
	var buf [8]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = hexDigits[id&0xf]
		id >>= 4
	}
	return "0x" + string(buf[i:])
}
