package types

import (
	"strconv"
	"strings"

	"github.com/wippyai/fvm-abi/errors"
)

// ParseSignature parses the textual signature syntax produced by
// Descriptor.Signature. Anonymous forms parse on their own; named forms
// ("struct Point", "enum Color", or a bare declared name) are looked up in
// schema, which may be nil when no named types are expected.
//
//	()  bool  u8  u16  u32  u64  u256  b256
//	str  str[4]  [u64; 3]  vec<u8>  (u8, bool)
//	struct Point  enum Color
func ParseSignature(sig string, schema *Schema) (*Descriptor, error) {
	p := &sigParser{src: sig, schema: schema}
	d, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.syntaxErr("trailing input")
	}
	return d, nil
}

type sigParser struct {
	schema *Schema
	src    string
	pos    int
}

func (p *sigParser) syntaxErr(detail string) error {
	return errors.New(errors.PhaseResolve, errors.KindInvalidData).
		Offset(p.pos).
		Detail("invalid signature %q: %s", p.src, detail).
		Build()
}

func (p *sigParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *sigParser) eat(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *sigParser) expect(c byte) error {
	if !p.eat(c) {
		return p.syntaxErr("expected " + string(c))
	}
	return nil
}

func (p *sigParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *sigParser) number() (int, error) {
	word := p.ident()
	n, err := strconv.Atoi(word)
	if err != nil || n < 0 {
		return 0, p.syntaxErr("expected a length")
	}
	return n, nil
}

func (p *sigParser) parseType() (*Descriptor, error) {
	p.skipSpace()

	if p.eat('[') {
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return NewArray(elem, n), nil
	}

	if p.eat('(') {
		if p.eat(')') {
			return Unit(), nil
		}
		var members []*Descriptor
		for {
			m, err := p.parseType()
			if err != nil {
				return nil, err
			}
			members = append(members, m)
			if !p.eat(',') {
				break
			}
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewTuple(members...), nil
	}

	word := p.ident()
	switch word {
	case "":
		return nil, p.syntaxErr("expected a type")
	case "bool":
		return Bool(), nil
	case "u8":
		return U8(), nil
	case "u16":
		return U16(), nil
	case "u32":
		return U32(), nil
	case "u64":
		return U64(), nil
	case "u256":
		return U256(), nil
	case "b256":
		return B256(), nil
	case "str":
		if p.eat('[') {
			n, err := p.number()
			if err != nil {
				return nil, err
			}
			if n == 0 {
				// Zero Len selects the dynamic form; str[0] would alias it.
				return nil, p.syntaxErr("fixed string length must be positive")
			}
			if err := p.expect(']'); err != nil {
				return nil, err
			}
			return FixedString(n), nil
		}
		return String(), nil
	case "vec":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return NewVector(elem), nil
	case "struct", "enum":
		name := p.ident()
		if name == "" {
			return nil, p.syntaxErr("expected a name after " + word)
		}
		return p.lookupNamed(word + " " + name)
	default:
		return p.lookupNamed(word)
	}
}

// lookupNamed resolves a declared name, trying the qualified form first
// ("struct Point") and falling back to the bare name.
func (p *sigParser) lookupNamed(name string) (*Descriptor, error) {
	if p.schema == nil {
		return nil, errors.UnknownType(nil, name)
	}
	if d, err := p.schema.Lookup(name); err == nil {
		return d, nil
	}
	bare := name
	if i := strings.IndexByte(name, ' '); i >= 0 {
		bare = name[i+1:]
	}
	return p.schema.Lookup(bare)
}
