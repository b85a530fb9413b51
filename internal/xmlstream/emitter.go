package xmlstream

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Emitter writes well-formed XML by hand over a buffered writer. It exists
// because encoding/xml.Marshal escapes apostrophes (this wire format must
// not) and cannot emit the canonical self-closing empty-element form every
// createrepo_c-compatible reader expects.
type Emitter struct {
	w   *bufio.Writer
	err error
}

// NewEmitter wraps w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: bufio.NewWriter(w)}
}

// Err returns the first error encountered by any write method.
func (e *Emitter) Err() error { return e.err }

func (e *Emitter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

// Raw writes s unescaped, verbatim. Used for the XML declaration and for
// literal header/footer strings already known to be well-formed.
func (e *Emitter) Raw(s string) *Emitter {
	e.write(s)
	return e
}

// Attribute is one attribute name/value pair for StartTag.
type Attribute struct {
	Name  string
	Value string
}

// A returns an Attribute, the terse constructor used inline at call sites.
func A(name, value string) Attribute { return Attribute{Name: name, Value: value} }

// StartTag writes <name attr="val" ...>.
func (e *Emitter) StartTag(name string, attrs ...Attribute) *Emitter {
	e.write("<" + name)
	e.writeAttrs(attrs)
	e.write(">")
	return e
}

// EmptyTag writes <name attr="val".../>, the canonical self-closing form
// (no space before "/>", matching createrepo_c) that encoding/xml.Marshal
// does not produce.
func (e *Emitter) EmptyTag(name string, attrs ...Attribute) *Emitter {
	e.write("<" + name)
	e.writeAttrs(attrs)
	e.write("/>")
	return e
}

// EndTag writes </name>.
func (e *Emitter) EndTag(name string) *Emitter {
	e.write("</" + name + ">")
	return e
}

// Text writes escaped character data between tags.
func (e *Emitter) Text(s string) *Emitter {
	e.write(EscapeText(s))
	return e
}

// TextTag writes <name attr=...>escaped text</name> in one call, or the
// empty-tag form when text is "".
func (e *Emitter) TextTag(name string, text string, attrs ...Attribute) *Emitter {
	if text == "" && len(attrs) == 0 {
		return e.EmptyTag(name)
	}
	if text == "" {
		return e.EmptyTag(name, attrs...)
	}
	e.StartTag(name, attrs...)
	e.Text(text)
	e.EndTag(name)
	return e
}

// Int writes the decimal form of n as character data, unescaped (digits
// never need escaping).
func (e *Emitter) Int(n int64) *Emitter {
	e.write(strconv.FormatInt(n, 10))
	return e
}

func (e *Emitter) writeAttrs(attrs []Attribute) {
	for _, a := range attrs {
		e.write(fmt.Sprintf(" %s=\"%s\"", a.Name, EscapeAttr(a.Value)))
	}
}

// Flush flushes the underlying buffered writer.
func (e *Emitter) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
