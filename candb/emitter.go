package candb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AsDBC renders the Database back to the textual DBC grammar, in the
// canonical section order: VERSION, NS_, BS_, BU_, BO_/SG_ blocks, CM_,
// BA_DEF_, BA_DEF_DEF_, BA_, VAL_, and finally any other verbatim
// record in the order it was first seen. For a parsed database, CM_
// records replay their original file order (db.commentOrder); Vector
// tooling doesn't sort them by entity class, and neither do we. A
// database built programmatically instead falls back to database, then
// nodes, then messages, then signals.
func (db *Database) AsDBC() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "VERSION %q\n\n\n", db.Version)

	db.writeVerbatimKeyword(&sb, "NS_")
	sb.WriteString("\n")
	db.writeVerbatimKeyword(&sb, "BS_")
	sb.WriteString("\n")

	sb.WriteString("BU_:")
	for _, n := range db.Nodes {
		sb.WriteString(" ")
		sb.WriteString(n.Name)
	}
	sb.WriteString("\n\n")

	for _, m := range db.Messages {
		writeMessage(&sb, m)
	}

	var cm strings.Builder
	if len(db.commentOrder) > 0 {
		// Preserve the original file's authoring order: Vector tooling
		// doesn't sort CM_ records by entity class, it just writes them
		// in whatever order a human (or another tool) added them.
		for _, line := range db.commentOrder {
			cm.WriteString(line)
			cm.WriteString("\n")
		}
	} else {
		if db.Comment != nil {
			fmt.Fprintf(&cm, "CM_ %s;\n", quoteDBCString(*db.Comment))
		}
		for _, n := range db.Nodes {
			if n.Comment != nil {
				fmt.Fprintf(&cm, "CM_ BU_ %s %s;\n", n.Name, quoteDBCString(*n.Comment))
			}
		}
		for _, m := range db.Messages {
			if m.Comment != nil {
				fmt.Fprintf(&cm, "CM_ BO_ %d %s;\n", emitFrameID(m), quoteDBCString(*m.Comment))
			}
			for _, s := range m.Signals {
				if s.Comment != nil {
					fmt.Fprintf(&cm, "CM_ SG_ %d %s %s;\n", emitFrameID(m), s.Name, quoteDBCString(*s.Comment))
				}
			}
		}
	}

	var baDef, baDefDef, ba strings.Builder
	db.writeVerbatimKeyword(&baDef, "BA_DEF_")
	db.writeVerbatimKeyword(&baDefDef, "BA_DEF_DEF_")
	db.writeVerbatimKeyword(&ba, "BA_")

	var val strings.Builder
	for _, m := range db.Messages {
		for _, s := range m.Signals {
			if s.Choices == nil || s.Choices.Len() == 0 {
				continue
			}
			fmt.Fprintf(&val, "VAL_ %d %s", emitFrameID(m), s.Name)
			s.Choices.Each(func(raw int64, label string) {
				fmt.Fprintf(&val, " %d %s", raw, quoteDBCString(label))
			})
			val.WriteString(" ;\n")
		}
	}

	// Each of these sections is blank-line separated from the next, but
	// only between two sections that both actually have content: the
	// messages block above already ends in a blank line, so the first
	// non-empty section here needs none of its own.
	wroteSection := false
	for _, section := range []string{cm.String(), baDef.String(), baDefDef.String(), ba.String(), val.String()} {
		if section == "" {
			continue
		}
		if wroteSection {
			sb.WriteString("\n")
		}
		sb.WriteString(section)
		wroteSection = true
	}

	for _, rec := range db.verbatim {
		switch rec.keyword {
		case "NS_", "BS_", "BA_DEF_", "BA_DEF_DEF_", "BA_":
			continue // already emitted in their fixed slot above
		default:
			sb.WriteString(rec.text)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (db *Database) writeVerbatimKeyword(sb *strings.Builder, keyword string) {
	for _, rec := range db.verbatim {
		if rec.keyword == keyword {
			sb.WriteString(rec.text)
			sb.WriteString("\n")
		}
	}
}

func emitFrameID(m *Message) uint32 {
	if m.IsExtended {
		return m.FrameID | 0x80000000
	}
	return m.FrameID
}

func writeMessage(sb *strings.Builder, m *Message) {
	sender := UnassignedNode
	if len(m.Nodes) > 0 {
		sender = m.Nodes[0]
	}
	fmt.Fprintf(sb, "BO_ %d %s: %d %s\n", emitFrameID(m), m.Name, m.Length, sender)
	for _, s := range m.Signals {
		writeSignal(sb, s)
	}
	sb.WriteString("\n")
}

func writeSignal(sb *strings.Builder, s *Signal) {
	sb.WriteString(" SG_ ")
	sb.WriteString(s.Name)
	if s.IsMultiplexer {
		sb.WriteString(" M")
	} else if s.MultiplexerID != nil {
		fmt.Fprintf(sb, " m%d", *s.MultiplexerID)
	}
	sb.WriteString(" : ")

	order := 1
	if s.ByteOrder == BigEndian {
		order = 0
	}
	sign := "+"
	if s.IsSigned {
		sign = "-"
	}
	fmt.Fprintf(sb, "%d|%d@%d%s", s.StartBit, s.Length, order, sign)
	fmt.Fprintf(sb, " (%s,%s)", formatDBCNumber(s.Scale), formatDBCNumber(s.Offset))
	fmt.Fprintf(sb, " [%s|%s]", formatDBCNumber(s.Minimum), formatDBCNumber(s.Maximum))
	fmt.Fprintf(sb, " %s", quoteDBCString(s.Unit))

	receivers := s.Nodes
	if len(receivers) == 0 {
		receivers = []string{UnassignedNode}
	}
	sb.WriteString(" ")
	sb.WriteString(strings.Join(receivers, ","))
	sb.WriteString("\n")
}

// formatDBCNumber renders a float the way Vector tooling does: as a
// plain integer when it has no fractional part, otherwise in minimal
// decimal form.
func formatDBCNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// quoteDBCString renders a string as a DBC quoted literal, escaping
// embedded quotes with a backslash, matching the lexer's convention.
func quoteDBCString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
